// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"strings"
)

// Store is a read-only set of string values, as the cookies or the query
// parameters of a request.
type Store interface {
	// Lookup returns the value of key and true, or the empty string and
	// false if key is not in the store.
	Lookup(key string) (string, bool)
}

// Cache is a cache of computed values. Unlike a Store, reading from a
// cache can block and fail.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// MetadataFunc returns the metadata of a spreadsheet identified by key.
type MetadataFunc func(ctx context.Context, key string) (string, bool, error)

// Reserved buckets.
const (
	BucketSession             = "session"
	BucketCookie              = "cookie"
	BucketPost                = "post"
	BucketURL                 = "url"
	BucketRequest             = "request"
	BucketConfig              = "config"
	BucketCache               = "cache"
	BucketSpreadsheetIDByName = "spreadsheet_id_by_name"
	BucketSpreadsheetNameByID = "spreadsheet_name_by_id"
	BucketSystem              = "system"
)

// Buckets returns the reserved buckets, in dispatch order.
func Buckets() []string {
	return []string{
		BucketSession, BucketCookie, BucketPost, BucketURL, BucketRequest,
		BucketConfig, BucketCache, BucketSpreadsheetIDByName,
		BucketSpreadsheetNameByID, BucketSystem,
	}
}

// Stores is the set of stores a document is resolved against. A nil
// store is empty. Stores are only read, so a Stores value can be shared
// between goroutines if its stores can.
type Stores struct {
	Session Store
	Cookies Store
	Post    Store // fields of the request body.
	Query   Store // query parameters.

	// QueryOverride, if not nil, replaces Query for the "url" bucket.
	QueryOverride Store

	Config Store

	// ConfigDisabled disables the "config" bucket.
	ConfigDisabled bool

	Cache Cache

	// Namespace is the namespace of the cache keys.
	Namespace string

	// Globals are the values registered by the caller for the request.
	Globals Store

	// System is the system metadata of the request.
	System System

	SpreadsheetIDByName MetadataFunc
	SpreadsheetNameByID MetadataFunc
}

// Resolve returns the value of the name in the global scope. It returns
// the empty string if the name cannot be resolved.
//
// The returned error is not nil only if the cache or a spreadsheet
// metadata function returns an error, and in this case it is that error.
func (st *Stores) Resolve(ctx context.Context, name string) (string, error) {
	if st == nil {
		return "", nil
	}
	ref := ParseReference(name)
	switch strings.ToLower(ref.Bucket) {
	case BucketSystem:
		v, _ := lookupFold(st.System, ref.Key)
		return v, nil
	case BucketSession:
		v, _ := lookupFold(st.Session, ref.Key)
		return v, nil
	case BucketCookie:
		v, _ := lookupFold(st.Cookies, ref.Key)
		return v, nil
	case BucketPost:
		v, _ := lookupFold(st.Post, ref.Key)
		return v, nil
	case BucketURL:
		v, _ := lookupFold(st.query(), ref.Key)
		return v, nil
	case BucketRequest:
		if v, ok := lookupFold(st.Post, ref.Key); ok {
			return v, nil
		}
		v, _ := lookupFold(st.Query, ref.Key)
		return v, nil
	case BucketConfig:
		if st.ConfigDisabled {
			return "", nil
		}
		v, _ := lookupFold(st.Config, ref.Key)
		return v, nil
	case BucketCache:
		key := ref.Key
		if st.Namespace != "" {
			key = st.Namespace + "." + key
		}
		v, _, err := st.cacheFold(ctx, key)
		return v, err
	case BucketSpreadsheetIDByName:
		return metadataFold(ctx, st.SpreadsheetIDByName, ref.Key)
	case BucketSpreadsheetNameByID:
		return metadataFold(ctx, st.SpreadsheetNameByID, ref.Key)
	}
	for _, c := range Candidates(name, st.Namespace) {
		switch c.Source {
		case FromGlobals:
			if st.Globals == nil {
				continue
			}
			if v, ok := st.Globals.Lookup(c.Key); ok {
				return v, nil
			}
		case FromCache:
			if st.Cache == nil {
				continue
			}
			v, ok, err := st.Cache.Get(ctx, c.Key)
			if err != nil {
				return "", err
			}
			if ok {
				return v, nil
			}
		}
	}
	return "", nil
}

// query returns the store of the "url" bucket.
func (st *Stores) query() Store {
	if st.QueryOverride != nil {
		return st.QueryOverride
	}
	return st.Query
}

// cacheFold looks up key in the cache and then, if not found, its lower
// case form.
func (st *Stores) cacheFold(ctx context.Context, key string) (string, bool, error) {
	if st.Cache == nil {
		return "", false, nil
	}
	v, ok, err := st.Cache.Get(ctx, key)
	if err != nil || ok {
		return v, ok, err
	}
	if lower := strings.ToLower(key); lower != key {
		return st.Cache.Get(ctx, lower)
	}
	return "", false, nil
}

// lookupFold looks up key in s and then, if not found, its lower case form.
func lookupFold(s Store, key string) (string, bool) {
	if s == nil {
		return "", false
	}
	if v, ok := s.Lookup(key); ok {
		return v, true
	}
	if lower := strings.ToLower(key); lower != key {
		return s.Lookup(lower)
	}
	return "", false
}

func metadataFold(ctx context.Context, f MetadataFunc, key string) (string, error) {
	if f == nil {
		return "", nil
	}
	v, ok, err := f(ctx, key)
	if err != nil || ok {
		return v, err
	}
	if lower := strings.ToLower(key); lower != key {
		v, _, err = f(ctx, lower)
		return v, err
	}
	return "", nil
}

// Source is the source of a candidate key.
type Source int

const (
	FromGlobals Source = iota
	FromCache
)

func (s Source) String() string {
	if s == FromCache {
		return "cache"
	}
	return "globals"
}

// Candidate is a key tried by the global fallback chain.
type Candidate struct {
	Source Source
	Key    string
}

// Candidates returns the keys tried, in order, to resolve a name that is
// not in a reserved bucket:
//
//  1. the globals, with the name as is
//  2. the globals, with the lower-cased name
//  3. the cache, with the name
//  4. the cache, with "<namespace>.<name>"
//  5. the cache, with ".<name>"
//  6. the cache, with "<namespace>..<name>"
//
// The namespaced keys are omitted if namespace is empty.
func Candidates(name, namespace string) []Candidate {
	cs := make([]Candidate, 0, 6)
	cs = append(cs,
		Candidate{FromGlobals, name},
		Candidate{FromGlobals, strings.ToLower(name)},
		Candidate{FromCache, name},
	)
	if namespace != "" {
		cs = append(cs, Candidate{FromCache, namespace + "." + name})
	}
	cs = append(cs, Candidate{FromCache, "." + name})
	if namespace != "" {
		cs = append(cs, Candidate{FromCache, namespace + ".." + name})
	}
	return cs
}
