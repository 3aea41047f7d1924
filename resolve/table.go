// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// TableRow is the Local scope of a row of a relational table. A name is
// "table.column", "row.column" or a bare "column", where table is the name
// of the table. Columns are normalized with SQLName and "id" is the same
// as "uuid".
//
// The maps are keyed by normalized column names.
type TableRow struct {
	Table    string
	Current  map[string]string // row being iterated.
	Pending  map[string]string // new or updated row, not yet stored.
	Existing map[string]string // row as previously loaded.

	// Counter is the position of the row, starting from 1, and Total the
	// number of rows. The bare name "lastrow" is "yes" on the last row.
	Counter int
	Total   int
}

// Lookup implements the Local interface.
func (r *TableRow) Lookup(name string) (string, bool) {
	if name == "lastrow" {
		if r.Counter == r.Total {
			return "yes", true
		}
		return "", true
	}
	ref := ParseReference(name)
	if ref.Bucket != "" {
		bucket := SQLName(ref.Bucket)
		if bucket != BucketRow && bucket != SQLName(r.Table) {
			return "", false
		}
	}
	key := SQLName(ref.Key)
	if key == "id" {
		key = "uuid"
	}
	for _, m := range []map[string]string{r.Current, r.Pending, r.Existing} {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}
