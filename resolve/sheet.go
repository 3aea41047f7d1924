// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Local is a local scope, asked before the global scope while iterating
// over rows.
type Local interface {
	// Lookup returns the value of name and true, or false if name does not
	// belong to the scope.
	Lookup(name string) (string, bool)
}

// BucketRow is the bucket of the row being iterated.
const BucketRow = "row"

// Sheet is a grid of cells loaded from a spreadsheet. The first row of the
// grid is the header row, whose cells name the columns.
type Sheet struct {
	grid    [][]string
	width   int
	columns map[string]string // normalized header → column letter.
}

// NewSheet returns a sheet with the given rows. rows[0] is the header row,
// that is row 1 of the sheet.
func NewSheet(rows [][]string) *Sheet {
	s := &Sheet{grid: rows, columns: map[string]string{}}
	for _, row := range rows {
		if len(row) > s.width {
			s.width = len(row)
		}
	}
	if len(rows) > 0 {
		for i, name := range rows[0] {
			n := ColumnName(name)
			if n == "" {
				continue
			}
			if _, ok := s.columns[n]; ok {
				continue
			}
			letter, _ := excelize.ColumnNumberToName(i + 1)
			s.columns[n] = letter
		}
	}
	return s
}

// Len returns the number of rows, header row included.
func (s *Sheet) Len() int {
	return len(s.grid)
}

// Column returns the letter of the column whose header is name. name is
// normalized with ColumnName.
func (s *Sheet) Column(name string) (string, bool) {
	letter, ok := s.columns[ColumnName(name)]
	return letter, ok
}

// isLetter reports whether letter, in any case, is the letter of a column
// of the sheet.
func (s *Sheet) isLetter(letter string) (int, bool) {
	if letter == "" || len(letter) > 3 {
		return 0, false
	}
	for i := 0; i < len(letter); i++ {
		if c := letter[i] | 0x20; c < 'a' || c > 'z' {
			return 0, false
		}
	}
	col, err := excelize.ColumnNameToNumber(letter)
	if err != nil || col > s.width {
		return 0, false
	}
	return col, true
}

// Cell returns the value of the cell at the given column letter and row
// number, both 1-based as in the spreadsheet.
func (s *Sheet) Cell(letter string, row int) (string, bool) {
	col, ok := s.isLetter(letter)
	if !ok || row < 1 || row > len(s.grid) {
		return "", false
	}
	cells := s.grid[row-1]
	if col > len(cells) {
		return "", true
	}
	return cells[col-1], true
}

// Row returns the row with the given number.
func (s *Sheet) Row(number int) *SheetRow {
	return &SheetRow{sheet: s, number: number}
}

// Rows returns the data rows, that are the rows following the header row.
func (s *Sheet) Rows() []*SheetRow {
	if len(s.grid) < 2 {
		return nil
	}
	rows := make([]*SheetRow, 0, len(s.grid)-1)
	for n := 2; n <= len(s.grid); n++ {
		rows = append(rows, s.Row(n))
	}
	return rows
}

// SheetRow is a row of a sheet. It is the Local scope of a spreadsheet
// row, where a name is "row.key" or a bare "key". The key is a column
// letter or a column header. A name "LETTER.ROW", as "B.12", addresses any
// cell of the sheet.
type SheetRow struct {
	sheet  *Sheet
	number int
}

// Number returns the row number.
func (r *SheetRow) Number() int {
	return r.number
}

// Lookup implements the Local interface.
func (r *SheetRow) Lookup(name string) (string, bool) {
	ref := ParseReference(name)
	switch {
	case ref.Bucket == "" || strings.EqualFold(ref.Bucket, BucketRow):
	case isDigits(ref.Key):
		n, err := strconv.Atoi(ref.Key)
		if err != nil {
			return "", false
		}
		return r.sheet.Cell(ref.Bucket, n)
	default:
		return "", false
	}
	if _, ok := r.sheet.isLetter(ref.Key); ok {
		return r.sheet.Cell(ref.Key, r.number)
	}
	letter, ok := r.sheet.Column(ref.Key)
	if !ok {
		return "", false
	}
	return r.sheet.Cell(letter, r.number)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ColumnName normalizes a column header: characters that are not letters
// or digits and leading digits are removed, and letters are lower-cased.
// For example "2. Unit Price" is normalized to "unitprice".
func ColumnName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r) && b.Len() > 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
