// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stores implements the stores that documents are resolved
// against: in-memory maps, a namespaced cache, the values of an HTTP
// request, spreadsheets and database rows.
package stores

import (
	"net/url"
	"sort"
)

// Map is a Store backed by a map.
type Map map[string]string

// Lookup implements the resolve.Store interface.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the keys of m, sorted.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values is a Store backed by url.Values. The value of a key is its first
// value.
type Values url.Values

// Lookup implements the resolve.Store interface.
func (v Values) Lookup(key string) (string, bool) {
	vs, ok := v[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
