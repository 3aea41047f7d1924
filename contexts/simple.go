// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// simpleContexts maps the keywords of the Simple contexts to their
// transformations.
var simpleContexts = map[string]func(env *Env, s string) string{
	"html":       func(_ *Env, s string) string { return HTMLEscape(s) },
	"htmlbr":     func(_ *Env, s string) string { return htmlBreaks(s) },
	"nl2br":      func(_ *Env, s string) string { return htmlBreaks(s) },
	"text":       func(_ *Env, s string) string { return htmlBreaks(s) },
	"url":        func(_ *Env, s string) string { return URLEscape(s) },
	"urlhtml":    func(_ *Env, s string) string { return HTMLEscape(URLEscape(s)) },
	"url-html":   func(_ *Env, s string) string { return HTMLEscape(URLEscape(s)) },
	"attribute":  func(_ *Env, s string) string { return HTMLEscape(URLEscape(s)) },
	"number":     func(_ *Env, s string) string { return Numeric(s) },
	"numeric":    func(_ *Env, s string) string { return Numeric(s) },
	"integer":    func(_ *Env, s string) string { return Integer(s) },
	"int":        func(_ *Env, s string) string { return Integer(s) },
	"timespan":   func(_ *Env, s string) string { return timeSpanSeconds(s) },
	"duration":   func(_ *Env, s string) string { return timeSpanSeconds(s) },
	"timestamp":  func(env *Env, s string) string { return toTimestamp(s, env.location()) },
	"date":       func(env *Env, s string) string { return formatDate(s, DateFormat{Date, defaultDateFormat}, env.location()) },
	"pdate":      func(env *Env, s string) string { return formatDate(s, DateFormat{NativeDate, defaultNativeFormat}, env.location()) },
	"phpdate":    func(env *Env, s string) string { return formatDate(s, DateFormat{NativeDate, defaultNativeFormat}, env.location()) },
	"time":       func(env *Env, s string) string { return formatDate(s, DateFormat{TimeSpan, defaultSpanFormat}, env.location()) },
	"upper":      func(_ *Env, s string) string { return strings.ToUpper(s) },
	"lower":      func(_ *Env, s string) string { return strings.ToLower(s) },
	"trim":       func(_ *Env, s string) string { return strings.TrimSpace(s) },
	"json":       func(_ *Env, s string) string { return jsonString(s) },
	"hash":       defaultDigest,
	"markdown":   markdownToHTML,
	"dollars":    currencyFunc("usd"),
	"usd":        currencyFunc("usd"),
	"euros":      currencyFunc("eur"),
	"eur":        currencyFunc("eur"),
	"pounds":     currencyFunc("gbp"),
	"gbp":        currencyFunc("gbp"),
	"francs":     currencyFunc("chf"),
	"chf":        currencyFunc("chf"),
	"yen":        currencyFunc("jpy"),
	"jpy":        currencyFunc("jpy"),
}

// Keywords returns the keywords of the contexts, sorted. It includes the
// keywords of the parametrized contexts "timestamp", "date", "pdate",
// "phpdate", "time" and "hash".
func Keywords() []string {
	words := make([]string, 0, len(simpleContexts))
	for w := range simpleContexts {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// IsKeyword reports whether word is the keyword of a context.
func IsKeyword(word string) bool {
	word = strings.ToLower(word)
	_, ok := simpleContexts[word]
	return ok
}

// defaultDigest returns the digest of s with the default algorithm. It is
// applied by a hash context whose parameters could not be parsed.
func defaultDigest(_ *Env, s string) string {
	d, _ := Digest(DefaultHashAlgorithm, s)
	return d
}

// applySimple applies the Simple context name to s. Unknown contexts leave
// s unchanged.
func applySimple(env *Env, name string, s string) string {
	if f, ok := simpleContexts[name]; ok {
		return f(env, s)
	}
	return s
}

// stripNumber returns s without the characters that are not digits, '.' or
// '-'.
func stripNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if '0' <= r && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// Numeric removes from s the characters that are not digits, '.' or '-'.
// It returns "0" if nothing is left.
func Numeric(s string) string {
	s = stripNumber(s)
	if s == "" {
		return "0"
	}
	return s
}

// Integer returns the integer part of the number in s, after removing the
// characters that are not digits, '.' or '-'. It returns "0" if s does not
// contain a number.
func Integer(s string) string {
	s = stripNumber(s)
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "0"
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(strings.TrimPrefix(s, "-"), "0")
	if s == "" {
		return "0"
	}
	if neg {
		s = "-" + s
	}
	return s
}

// timeSpanSeconds converts a colon-separated time span, "[[[d:]h:]m:]s", to
// seconds. A value that is not a time span is returned unchanged.
func timeSpanSeconds(s string) string {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 4 {
		return s
	}
	weights := [...]float64{1, 60, 3600, 86400}
	var total float64
	for i := range parts {
		p := strings.TrimSpace(parts[len(parts)-1-i])
		if p == "" {
			return s
		}
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return s
		}
		total += n * weights[i]
	}
	return formatNumber(total)
}

// formatNumber formats n without exponent and without trailing zeros.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b)
}

func markdownToHTML(env *Env, s string) string {
	var b bytes.Buffer
	if err := env.markdown().Convert([]byte(s), &b); err != nil {
		return s
	}
	return b.String()
}
