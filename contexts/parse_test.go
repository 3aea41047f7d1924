// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var parseTests = []struct {
	expr     string
	base     string
	pipeline Pipeline
}{
	{``, ``, nil},
	{`a`, `a`, nil},
	{`  a  `, `a`, nil},
	{`a as html`, `a`, Pipeline{Simple{"html"}}},
	{`a AS HTML`, `a`, Pipeline{Simple{"html"}}},
	{`a::html`, `a`, Pipeline{Simple{"html"}}},
	{`a as html as url`, `a`, Pipeline{Simple{"url"}, Simple{"html"}}},
	{`user.name::html as url`, `user.name`, Pipeline{Simple{"url"}, Simple{"html"}}},
	{`a as html as html`, `a`, Pipeline{Simple{"html"}, Simple{"html"}}},
	{"a\n\tas\ndollars", `a`, Pipeline{Simple{"dollars"}}},
	{`a as url-html`, `a`, Pipeline{Simple{"url-html"}}},

	// date formats
	{`d as date "MM DD, Y"`, `d`, Pipeline{DateFormat{Date, "MM DD, Y"}}},
	{`d as pdate 'Y-m-d'`, `d`, Pipeline{DateFormat{NativeDate, "Y-m-d"}}},
	{`d as phpdate "D, d M Y"`, `d`, Pipeline{DateFormat{NativeDate, "D, d M Y"}}},
	{`d as time "h:mm"`, `d`, Pipeline{DateFormat{TimeSpan, "h:mm"}}},
	{`d as date "x as y" as html`, `d`, Pipeline{Simple{"html"}, DateFormat{Date, "x as y"}}},
	{`d as date "say \"hi\""`, `d`, Pipeline{DateFormat{Date, `say "hi"`}}},
	{`d as date`, `d`, Pipeline{Simple{"date"}}},
	{`d as date +1 days`, `d`, Pipeline{Simple{"date"}}},

	// timestamp adjustments
	{`t as timestamp +1 months`, `t`, Pipeline{TimestampAdjust{1, Months}}},
	{`t as timestamp - 2 weeks`, `t`, Pipeline{TimestampAdjust{-2, Weeks}}},
	{`t as timestamp -2 work-days`, `t`, Pipeline{TimestampAdjust{-16, Hours}}},
	{`t as timestamp +3`, `t`, Pipeline{TimestampAdjust{3, Seconds}}},
	{`t as timestamp +1.5 hours`, `t`, Pipeline{TimestampAdjust{1.5, Hours}}},
	{`t as timestamp +1 decade`, `t`, Pipeline{TimestampAdjust{1, Decades}}},
	{`t as timestamp +2 Centuries`, `t`, Pipeline{TimestampAdjust{2, Centuries}}},
	{`t as timestamp +1 millennium`, `t`, Pipeline{TimestampAdjust{1, Millennia}}},
	{`t as timestamp +1 month-end`, `t`, Pipeline{TimestampAdjust{1, MonthEnd}}},
	{`t as timestamp -1 first-of-month`, `t`, Pipeline{TimestampAdjust{-1, FirstOfMonth}}},
	{`t as timestamp +5 fortnights`, `t`, Pipeline{TimestampAdjust{5, Seconds}}},
	{`t as timestamp`, `t`, Pipeline{Simple{"timestamp"}}},
	{`t as timestamp "soon"`, `t`, Pipeline{Simple{"timestamp"}}},
	{`t as timestamp +1 days as date "M/D/Y"`, `t`, Pipeline{DateFormat{Date, "M/D/Y"}, TimestampAdjust{1, Days}}},

	// hashes
	{`p as hash`, `p`, Pipeline{Hash{Algorithm: "sha256"}}},
	{`p as hash using "md5"`, `p`, Pipeline{Hash{Algorithm: "md5"}}},
	{`p as hash using SHA1`, `p`, Pipeline{Hash{Algorithm: "sha1"}}},
	{`p as hash using "sha1" salted by "pepper"`, `p`, Pipeline{Hash{Algorithm: "sha1", Salt: "pepper"}}},
	{`p as hash using "sha1" salted by pepper`, `p`, Pipeline{Hash{Algorithm: "sha1", SaltVar: "pepper"}}},
	{`p as hash salted by session.salt using "sha512"`, `p`, Pipeline{Hash{Algorithm: "sha512", SaltVar: "session.salt"}}},
	{`p as hash salted by 'x y'`, `p`, Pipeline{Hash{Algorithm: "sha256", Salt: "x y"}}},
	{`p as hash salted by salt_var as html`, `p`, Pipeline{Simple{"html"}, Hash{Algorithm: "sha256", SaltVar: "salt_var"}}},
	{`p as hash salted by "<# s #>"`, `p`, Pipeline{Hash{Algorithm: "sha256", Salt: "<# s #>"}}},
	{`p as hash "x"`, `p`, Pipeline{Simple{"hash"}}},

	// malformed suffixes
	{`a as html foo`, `a as html foo`, nil},
	{`a as`, `a as`, nil},
	{`as html`, `as html`, nil},
	{`a as date "unterminated`, `a`, Pipeline{Simple{"date"}}},
	{`a as pdate 'Y-m-d\`, `a`, Pipeline{Simple{"pdate"}}},
	{`a as hash salted by`, `a`, Pipeline{Simple{"hash"}}},
	{`a as hash using "md5`, `a`, Pipeline{Simple{"hash"}}},
	{`a as hash using as html`, `a`, Pipeline{Simple{"html"}, Simple{"hash"}}},
	{`a as b as date "x`, `a`, Pipeline{Simple{"date"}, Simple{"b"}}},
	{`cookie.<# f as html #>`, `cookie.<# f as html #>`, nil},
	{`cookie.<# f as hash using "md5" #>`, `cookie.<# f as hash using "md5" #>`, nil},
	{`a as 1html`, `a as 1html`, nil},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		base, pipeline := Parse(test.expr)
		if base != test.base {
			t.Errorf("expression %q: expecting base %q, got %q", test.expr, test.base, base)
		}
		if diff := cmp.Diff(test.pipeline, pipeline); diff != "" {
			t.Errorf("expression %q: unexpected pipeline (-want +got):\n%s", test.expr, diff)
		}
	}
}

func TestParseIsTotal(t *testing.T) {
	exprs := []string{
		strings.Repeat(" as html", 200),
		strings.Repeat("::", 100),
		`"`, `'`, `\`, `as as as as`, "a as timestamp +",
		`a as hash using`, `a as hash salted by`, `a :: html`, "a\x00as\x00html",
	}
	for _, expr := range exprs {
		base, p := Parse(expr)
		if len(base) > len(expr) {
			t.Errorf("expression %q: base %q is longer than the expression", expr, base)
		}
		// A second parse of the base must not find other contexts.
		if _, again := Parse(base); len(again) != 0 {
			t.Errorf("expression %q: base %q still has contexts %v (pipeline %v)", expr, base, again, p)
		}
	}
}

func TestPipelineOrdered(t *testing.T) {
	_, p := Parse(`a as html as url as html as dollars`)
	want := []Context{Simple{"html"}, Simple{"url"}, Simple{"dollars"}}
	if diff := cmp.Diff(want, p.Ordered()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if got := p.String(); got != " as html as url as html as dollars" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestContextString(t *testing.T) {
	tests := []struct {
		c    Context
		want string
	}{
		{Simple{"html"}, "html"},
		{TimestampAdjust{1, Months}, "timestamp +1 months"},
		{TimestampAdjust{-2.5, Hours}, "timestamp -2.5 hours"},
		{DateFormat{Date, "M/D/Y"}, `date "M/D/Y"`},
		{DateFormat{TimeSpan, "h:mm"}, `time "h:mm"`},
		{Hash{Algorithm: "md5"}, `hash using "md5"`},
		{Hash{Algorithm: "md5", Salt: "s"}, `hash using "md5" salted by "s"`},
		{Hash{Algorithm: "md5", SaltVar: "v"}, `hash using "md5" salted by v`},
	}
	for _, test := range tests {
		if got := test.c.String(); got != test.want {
			t.Errorf("expecting %q, got %q", test.want, got)
		}
		// The string form must parse back to the same context.
		if _, p := Parse("x as " + test.c.String()); len(p) != 1 || p[0] != test.c {
			t.Errorf("context %q does not parse back, got %v", test.want, p)
		}
	}
}
