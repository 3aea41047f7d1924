// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stores

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMapAndValues(t *testing.T) {
	m := Map{"b": "2", "a": "1"}
	v, ok := m.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	values := Values{"x": {"first", "second"}, "empty": {}}
	v, ok = values.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "first", v)
	_, ok = values.Lookup("empty")
	assert.False(t, ok)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	c := NewCache(map[string]string{"a": "1"})
	c.Set("b", "2")
	v, ok, err := c.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	c.Delete("a")
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = c.Get(canceled, "b")
	assert.ErrorIs(t, err, context.Canceled)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCacheConcurrency(t *testing.T) {
	c := NewCache(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			c.Set(key, key)
			_, _, _ = c.Get(context.Background(), key)
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
}

func TestCacheSnapshot(t *testing.T) {
	c := NewCache(map[string]string{"shop.rate": "1.25", "shop..legacy": "x"})
	var buf bytes.Buffer
	require.NoError(t, c.WriteSnapshot(&buf))

	// Canonical encoding does not depend on the insertion order.
	var again bytes.Buffer
	require.NoError(t, NewCache(map[string]string{"shop..legacy": "x", "shop.rate": "1.25"}).WriteSnapshot(&again))
	assert.Equal(t, buf.Bytes(), again.Bytes())

	d := NewCache(map[string]string{"other": "y"})
	require.NoError(t, d.ReadSnapshot(&buf))
	assert.Equal(t, map[string]string{"shop.rate": "1.25", "shop..legacy": "x", "other": "y"}, d.Snapshot())

	err := d.ReadSnapshot(strings.NewReader("not cbor"))
	assert.Error(t, err)
}

func TestFromRequest(t *testing.T) {
	body := url.Values{"qty": {"2"}, "color": {"red"}}
	r := httptest.NewRequest("POST", "http://example.com/cart?qty=1&page=3", strings.NewReader(body.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	st, err := FromRequest(r, 1<<20)
	require.NoError(t, err)

	ctx := context.Background()
	for name, want := range map[string]string{
		"post.qty":     "2",
		"url.qty":      "1",
		"request.qty":  "2",
		"request.page": "3",
		"cookie.theme": "dark",
		"system.host":  "example.com",
		"system.path":  "/cart",
	} {
		got, err := st.Resolve(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestFromRequestMultipart(t *testing.T) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, _ := w.CreateFormField("title")
	_, _ = io.WriteString(fw, "Report")
	fw, _ = w.CreateFormFile("upload", "report.pdf")
	_, _ = io.WriteString(fw, "%PDF")
	require.NoError(t, w.Close())
	r := httptest.NewRequest("POST", "/upload", &b)
	r.Header.Set("Content-Type", w.FormDataContentType())
	st, err := FromRequest(r, 1<<20)
	require.NoError(t, err)
	v, _ := st.Post.Lookup("title")
	assert.Equal(t, "Report", v)
	v, _ = st.Post.Lookup("upload")
	assert.Equal(t, "report.pdf", v)
}

func TestFromRequestBadRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/?a=%zz", nil)
	_, err := FromRequest(r, 1<<20)
	assert.ErrorIs(t, err, ErrBadRequest)

	r = httptest.NewRequest("POST", "/", strings.NewReader("a=%zz"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = FromRequest(r, 1<<20)
	assert.ErrorIs(t, err, ErrBadRequest)

	r = httptest.NewRequest("POST", "/", strings.NewReader("--x\r\nbad"))
	r.Header.Set("Content-Type", "multipart/form-data")
	_, err = FromRequest(r, 1<<20)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Unit Price", "Qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Pen", "1.50", "10"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Book", "12.00", "1"}))
	_, err := f.NewSheet("Totals")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Totals", "A1", "Total"))
	require.NoError(t, f.SetCellValue("Totals", "A2", "13.50"))
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadSheet(t *testing.T) {
	path := writeWorkbook(t)

	sheet, err := LoadSheet(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, sheet.Len())
	rows := sheet.Rows()
	require.Len(t, rows, 2)
	v, ok := rows[1].Lookup("unit price")
	assert.True(t, ok)
	assert.Equal(t, "12.00", v)
	v, _ = rows[0].Lookup("A.3")
	assert.Equal(t, "Book", v)

	totals, err := LoadSheet(path, "Totals")
	require.NoError(t, err)
	v, _ = totals.Row(2).Lookup("total")
	assert.Equal(t, "13.50", v)

	_, err = LoadSheet(path, "Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	names, err := SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Totals"}, names)
}

func TestSheetIDs(t *testing.T) {
	byName, byID := SheetIDs(map[string]string{"Orders": "1AbC"})
	id, ok, err := byName(context.Background(), "Orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1AbC", id)
	name, ok, _ := byID(context.Background(), "1AbC")
	assert.True(t, ok)
	assert.Equal(t, "Orders", name)
	_, ok, _ = byID(context.Background(), "nope")
	assert.False(t, ok)
}

// testRows implements pgx.Rows over in-memory values.
type testRows struct {
	fields []string
	values [][]any
	i      int
	err    error
	closed bool
}

func (r *testRows) Close()                        { r.closed = true }
func (r *testRows) Err() error                    { return r.err }
func (r *testRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *testRows) RawValues() [][]byte           { return nil }
func (r *testRows) Conn() *pgx.Conn               { return nil }

func (r *testRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.fields))
	for i, name := range r.fields {
		fds[i].Name = name
	}
	return fds
}

func (r *testRows) Next() bool {
	if r.closed || r.i >= len(r.values) {
		return false
	}
	r.i++
	return true
}

func (r *testRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(r)
		}
	}
	return errors.New("unsupported scan")
}

func (r *testRows) Values() ([]any, error) {
	return r.values[r.i-1], nil
}

func TestCollectRows(t *testing.T) {
	created := time.Date(2024, time.March, 1, 15, 4, 5, 0, time.UTC)
	rows := &testRows{
		fields: []string{"UUID", "Order Total", "note", "created_at", "paid"},
		values: [][]any{
			{[16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}, float64(12.5), nil, created, true},
			{[16]byte{}, int64(3), "fragile", created, false},
		},
	}
	got, err := CollectRows(rows)
	require.NoError(t, err)
	assert.True(t, rows.closed)
	assert.Equal(t, []map[string]string{
		{"uuid": "12345678-9abc-def0-1234-56789abcdef0", "order_total": "12.5", "note": "", "created_at": "2024-03-01T15:04:05Z", "paid": "true"},
		{"uuid": "00000000-0000-0000-0000-000000000000", "order_total": "3", "note": "fragile", "created_at": "2024-03-01T15:04:05Z", "paid": "false"},
	}, got)

	fail := errors.New("connection reset")
	_, err = CollectRows(&testRows{err: fail})
	assert.ErrorIs(t, err, fail)
}

func TestFormatValue(t *testing.T) {
	id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", formatValue([16]byte(id)))
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", formatValue(id))
	assert.Equal(t, "-7", formatValue(int16(-7)))
	assert.Equal(t, "", formatValue(nil))
}

type testQuerier struct {
	rows pgx.Rows
	sql  string
}

func (q *testQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.sql = sql
	return q.rows, nil
}

func TestQuery(t *testing.T) {
	q := &testQuerier{rows: &testRows{fields: []string{"sku"}, values: [][]any{{"A1"}}}}
	got, err := Query(context.Background(), q, "SELECT sku FROM items")
	require.NoError(t, err)
	assert.Equal(t, "SELECT sku FROM items", q.sql)
	assert.Equal(t, []map[string]string{{"sku": "A1"}}, got)
}
