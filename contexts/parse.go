// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	quotedPattern = `"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`
	wordPattern   = `[a-z_][a-z0-9_\-]*`
	varPattern    = `[a-z0-9_][a-z0-9_.\-]*`
	algPattern    = `[a-z0-9][a-z0-9\-/]*`

	// brokenPattern matches the malformed parameters: an unterminated
	// quoted string or an incomplete hash clause.
	brokenPattern = `"(?:[^"\\]|\\.)*\\?|'(?:[^'\\]|\\.)*\\?|\b(?:using|salted)\b[^<>]*`
)

// suffix matches the last context of an expression. The leading group is
// greedy so the match splits the expression at the right-most separator
// followed by a complete context.
var suffix = regexp.MustCompile(`(?is)^(?P<base>.*)(?:::|\s+as\s+)(?P<word>` + wordPattern + `)` +
	`(?:` +
	`\s+using\s+(?P<alg1>` + quotedPattern + `|` + algPattern + `)(?:\s+salted\s+by\s+(?P<salt1>` + quotedPattern + `|` + varPattern + `))?` +
	`|\s+salted\s+by\s+(?P<salt2>` + quotedPattern + `|` + varPattern + `)(?:\s+using\s+(?P<alg2>` + quotedPattern + `|` + algPattern + `))?` +
	`|\s*(?P<amount>[+-]\s*\d+(?:\.\d+)?)(?:\s*(?P<unit>[a-z][a-z\-]*))?` +
	`|\s*(?P<quoted>` + quotedPattern + `)` +
	`)?\s*$`)

// brokenSuffix matches a last context with malformed parameters. It is
// tried only when suffix does not match.
var brokenSuffix = regexp.MustCompile(`(?is)^(.*)(?:::|\s+as\s+)(` + wordPattern + `)\s*(?:` + brokenPattern + `)\s*$`)

var (
	baseIndex   = suffix.SubexpIndex("base")
	wordIndex   = suffix.SubexpIndex("word")
	alg1Index   = suffix.SubexpIndex("alg1")
	salt1Index  = suffix.SubexpIndex("salt1")
	salt2Index  = suffix.SubexpIndex("salt2")
	alg2Index   = suffix.SubexpIndex("alg2")
	amountIndex = suffix.SubexpIndex("amount")
	unitIndex   = suffix.SubexpIndex("unit")
	quotedIndex = suffix.SubexpIndex("quoted")
)

// units maps the unit words of a timestamp context to a unit and a
// multiplier of the amount.
var units = map[string]struct {
	unit Unit
	mult float64
}{
	"s": {Seconds, 1}, "sec": {Seconds, 1}, "secs": {Seconds, 1}, "second": {Seconds, 1}, "seconds": {Seconds, 1},
	"min": {Minutes, 1}, "mins": {Minutes, 1}, "minute": {Minutes, 1}, "minutes": {Minutes, 1},
	"h": {Hours, 1}, "hr": {Hours, 1}, "hrs": {Hours, 1}, "hour": {Hours, 1}, "hours": {Hours, 1},
	"day": {Days, 1}, "days": {Days, 1},
	"work-day": {Hours, 8}, "work-days": {Hours, 8}, "workday": {Hours, 8}, "workdays": {Hours, 8},
	"week": {Weeks, 1}, "weeks": {Weeks, 1},
	"month": {Months, 1}, "months": {Months, 1},
	"month-end": {MonthEnd, 1}, "monthend": {MonthEnd, 1}, "end-of-month": {MonthEnd, 1}, "months-end": {MonthEnd, 1},
	"first-of-month": {FirstOfMonth, 1}, "firstofmonth": {FirstOfMonth, 1}, "month-start": {FirstOfMonth, 1}, "start-of-month": {FirstOfMonth, 1},
	"year": {Years, 1}, "years": {Years, 1},
	"decade": {Decades, 1}, "decades": {Decades, 1},
	"century": {Centuries, 1}, "centuries": {Centuries, 1},
	"millennium": {Millennia, 1}, "millennia": {Millennia, 1}, "millenniums": {Millennia, 1},
}

// Parse splits expr into its base name and its pipeline of contexts.
//
// Contexts are peeled off the end of expr one at a time, so the returned
// pipeline holds the last written context first. A suffix with malformed
// parameters becomes a Simple context with the same keyword, and text that
// does not form a suffix is left in the base. Parse never fails.
//
// A suffix with an unterminated quoted string or an incomplete "using" or
// "salted by" clause also becomes a Simple context.
func Parse(expr string) (string, Pipeline) {
	var p Pipeline
	base := strings.TrimSpace(expr)
	for {
		m := suffix.FindStringSubmatchIndex(base)
		if m == nil {
			b := brokenSuffix.FindStringSubmatchIndex(base)
			if b == nil {
				return base, p
			}
			p = append(p, Simple{Name: strings.ToLower(base[b[4]:b[5]])})
			base = strings.TrimSpace(base[b[2]:b[3]])
			continue
		}
		p = append(p, classify(base, m))
		base = strings.TrimSpace(base[m[2*baseIndex]:m[2*baseIndex+1]])
	}
}

// classify returns the context described by the suffix match m of expr.
func classify(expr string, m []int) Context {
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return expr[m[2*i]:m[2*i+1]]
	}
	word := strings.ToLower(group(wordIndex))
	switch word {
	case "timestamp":
		amount := group(amountIndex)
		if amount == "" {
			break
		}
		n, err := strconv.ParseFloat(strings.Join(strings.Fields(amount), ""), 64)
		if err != nil {
			break
		}
		c := TimestampAdjust{Amount: n, Unit: Seconds}
		if u, ok := units[strings.ToLower(group(unitIndex))]; ok {
			c.Unit = u.unit
			c.Amount *= u.mult
		}
		return c
	case "date", "pdate", "phpdate", "time":
		q := group(quotedIndex)
		if q == "" {
			break
		}
		c := DateFormat{Kind: Date, Format: unquote(q)}
		switch word {
		case "pdate", "phpdate":
			c.Kind = NativeDate
		case "time":
			c.Kind = TimeSpan
		}
		return c
	case "hash":
		if group(quotedIndex) != "" || group(amountIndex) != "" {
			break
		}
		c := Hash{Algorithm: DefaultHashAlgorithm}
		alg, salt := group(alg1Index), group(salt1Index)
		if alg == "" {
			alg, salt = group(alg2Index), group(salt2Index)
		}
		if alg != "" {
			c.Algorithm = strings.ToLower(unquote(alg))
		}
		if salt != "" {
			if isQuoted(salt) {
				c.Salt = unquote(salt)
			} else {
				c.SaltVar = salt
			}
		}
		return c
	}
	return Simple{Name: word}
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

// unquote removes the quotes of s, if quoted, and resolves its backslash
// escapes: a backslash followed by any character is that character.
func unquote(s string) string {
	if !isQuoted(s) {
		return s
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
