// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
	"time"
)

var testGrid = [][]string{
	{"Name", "2. Unit Price", "Qty", ""},
	{"Pen", "1.50", "10"},
	{"Book", "12.00", "1", "gift"},
}

func TestSheetRowLookup(t *testing.T) {
	sheet := NewSheet(testGrid)
	row := sheet.Row(2)
	tests := []struct {
		name     string
		expected string
		ok       bool
	}{
		{"A", "Pen", true},
		{"b", "1.50", true},
		{"row.C", "10", true},
		{"D", "", true},
		{"name", "Pen", true},
		{"row.Unit Price", "1.50", true},
		{"unitprice", "1.50", true},
		{"row.qty", "10", true},
		{"C.3", "1", true},
		{"d.3", "gift", true},
		{"A.1", "Name", true},
		{"A.9", "", false},
		{"E", "", false},
		{"price", "", false},
		{"session.name", "", false},
	}
	for _, test := range tests {
		got, ok := row.Lookup(test.name)
		if got != test.expected || ok != test.ok {
			t.Errorf("%s: expecting %q, %t, got %q, %t", test.name, test.expected, test.ok, got, ok)
		}
	}
}

func TestSheetRows(t *testing.T) {
	sheet := NewSheet(testGrid)
	if sheet.Len() != 3 {
		t.Fatalf("expecting 3 rows, got %d", sheet.Len())
	}
	rows := sheet.Rows()
	if len(rows) != 2 {
		t.Fatalf("expecting 2 data rows, got %d", len(rows))
	}
	if v, _ := rows[1].Lookup("name"); v != "Book" || rows[1].Number() != 3 {
		t.Fatalf("expecting row 3 with name Book, got row %d with name %q", rows[1].Number(), v)
	}
	if rows := NewSheet(nil).Rows(); rows != nil {
		t.Fatalf("expecting no rows, got %d", len(rows))
	}
	if letter, ok := sheet.Column("QTY"); letter != "C" || !ok {
		t.Fatalf("expecting column C, got %q", letter)
	}
}

func TestColumnName(t *testing.T) {
	tests := map[string]string{
		"2. Unit Price": "unitprice",
		"Qty":           "qty",
		"Line 2":        "line2",
		"123":           "",
		"-- Émail --":   "émail",
	}
	for name, want := range tests {
		if got := ColumnName(name); got != want {
			t.Errorf("%q: expecting %q, got %q", name, want, got)
		}
	}
}

func TestTableRowLookup(t *testing.T) {
	row := &TableRow{
		Table:    "Order Items",
		Current:  map[string]string{"sku": "A1", "uuid": "u-1"},
		Pending:  map[string]string{"sku": "A2", "qty": "3"},
		Existing: map[string]string{"qty": "1", "note": "fragile"},
		Counter:  2,
		Total:    3,
	}
	tests := []struct {
		name     string
		expected string
		ok       bool
	}{
		{"sku", "A1", true},
		{"row.SKU", "A1", true},
		{"order_items.sku", "A1", true},
		{"Order Items.sku", "A1", true},
		{"id", "u-1", true},
		{"row.ID", "u-1", true},
		{"qty", "3", true},
		{"note", "fragile", true},
		{"lastrow", "", true},
		{"missing", "", false},
		{"orders.sku", "", false},
	}
	for _, test := range tests {
		got, ok := row.Lookup(test.name)
		if got != test.expected || ok != test.ok {
			t.Errorf("%s: expecting %q, %t, got %q, %t", test.name, test.expected, test.ok, got, ok)
		}
	}
	row.Counter = 3
	if v, _ := row.Lookup("lastrow"); v != "yes" {
		t.Fatalf("expecting lastrow %q, got %q", "yes", v)
	}
}

func TestNewSystem(t *testing.T) {
	now := time.Date(2024, time.March, 1, 15, 4, 5, 250000000, time.UTC)
	r := httptest.NewRequest("POST", "https://example.com:8443/shop/cart?item=3", nil)
	r.TLS = &tls.ConnectionState{}
	r.RemoteAddr = "192.0.2.1:1234"
	r.Header.Set("Referer", "https://search.example.org/find?q=pens")
	r.Header.Set("User-Agent", "test-agent")
	s := NewSystem(r, now)
	expected := map[string]string{
		"domain":          "example.com",
		"host":            "example.com:8443",
		"http_host":       "http://example.com:8443",
		"https_host":      "https://example.com:8443",
		"url":             "https://example.com:8443/shop/cart?item=3",
		"path":            "/shop/cart",
		"query":           "item=3",
		"referrer":        "https://search.example.org/find?q=pens",
		"referrer_domain": "search.example.org",
		"referrer_path":   "/find",
		"referrer_query":  "q=pens",
		"timestamp":       "1709305445",
		"microtime":       "1709305445.250000",
		"timestamp_float": "1709305445.250000",
		"date":            "2024-03-01",
		"time":            "15:04:05",
		"datetime":        "2024-03-01 15:04:05",
		"iso8601":         "2024-03-01T15:04:05Z",
		"year":            "2024",
		"month":           "03",
		"month_name":      "March",
		"month_short":     "Mar",
		"day":             "01",
		"weekday":         "Friday",
		"weekday_short":   "Fri",
		"hour":            "15",
		"minute":          "04",
		"second":          "05",
		"ip":              "192.0.2.1",
		"method":          "POST",
		"user_agent":      "test-agent",
	}
	for key, want := range expected {
		if got, ok := s.Lookup(key); got != want || !ok {
			t.Errorf("%s: expecting %q, got %q", key, want, got)
		}
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := NewSystem(r, now)["ip"]; ip != "203.0.113.7" {
		t.Errorf("expecting forwarded ip, got %q", ip)
	}
	if s := NewSystem(nil, now); s["year"] != "2024" || s["host"] != "" {
		t.Errorf("unexpected system metadata without request: %v", s)
	}
}
