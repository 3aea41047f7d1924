// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stores

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/open2b/sharptag/resolve"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is the error returned when a workbook does not have the
// requested sheet.
var ErrSheetNotFound = errors.New("stores: sheet not found")

// LoadSheet loads the named sheet of the XLSX workbook at path. If sheet
// is empty, it loads the active sheet. The first row of the sheet is the
// header row.
func LoadSheet(path, sheet string) (*resolve.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("stores: opening workbook: %w", err)
	}
	defer f.Close()
	return loadSheet(f, sheet)
}

// ReadSheet is like LoadSheet but reads the workbook from r.
func ReadSheet(r io.Reader, sheet string) (*resolve.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("stores: reading workbook: %w", err)
	}
	defer f.Close()
	return loadSheet(f, sheet)
}

func loadSheet(f *excelize.File, sheet string) (*resolve.Sheet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if i, err := f.GetSheetIndex(sheet); err != nil || i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("stores: reading sheet %q: %w", sheet, err)
	}
	return resolve.NewSheet(rows), nil
}

// SheetNames returns the names of the sheets of the workbook at path, in
// workbook order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("stores: opening workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// SheetIDs returns the functions resolving the "spreadsheet_id_by_name"
// and "spreadsheet_name_by_id" buckets from a map of spreadsheet names to
// identifiers.
func SheetIDs(ids map[string]string) (byName, byID resolve.MetadataFunc) {
	names := make(map[string]string, len(ids))
	for name, id := range ids {
		names[id] = name
	}
	byName = func(_ context.Context, name string) (string, bool, error) {
		id, ok := ids[name]
		return id, ok, nil
	}
	byID = func(_ context.Context, id string) (string, bool, error) {
		name, ok := names[id]
		return name, ok, nil
	}
	return byName, byID
}
