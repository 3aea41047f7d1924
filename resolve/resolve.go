// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve resolves the base names of tag expressions to values.
//
// A name is resolved in the global scope by Stores.Resolve, which
// dispatches on the bucket of the name (as "session" in "session.user")
// and falls back to the globals and the cache for the other names. While
// iterating over the rows of a spreadsheet or of a table, a Local scope,
// SheetRow or TableRow, is asked first.
//
// Nothing in this package performs I/O: the stores are provided by the
// caller and are only read.
package resolve

import (
	"strings"
	"unicode"
)

// Reference is a name split in bucket and key. The bucket is the part
// before the first dot and the key the rest, so "cache.a.b" has bucket
// "cache" and key "a.b". A name without dots has an empty bucket.
type Reference struct {
	Bucket string
	Key    string
}

// ParseReference splits name in bucket and key.
func ParseReference(name string) Reference {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return Reference{Bucket: name[:i], Key: name[i+1:]}
	}
	return Reference{Key: name}
}

func (r Reference) String() string {
	if r.Bucket == "" {
		return r.Key
	}
	return r.Bucket + "." + r.Key
}

// SQLName normalizes name as a column or table name: it is lower-cased
// and each run of characters that are neither letters nor digits is
// replaced by an underscore. Leading and trailing underscores are removed.
//
// For example "Order ID" and "order-id" are both normalized to "order_id".
func SQLName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	sep := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		sep = true
	}
	return b.String()
}
