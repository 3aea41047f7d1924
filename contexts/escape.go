// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"net/url"
	"strings"
)

// HTMLEscape escapes s, replacing the characters <, >, &, " and ' and returns
// the escaped string.
//
// Use HTMLEscape to put a trusted or untrusted string into an HTML element
// content or in a quoted attribute value.
func HTMLEscape(s string) string {
	n := 0
	j := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '&':
			n += 4
		case '<', '>':
			n += 3
		default:
			continue
		}
		if n <= 4 {
			j = i
		}
	}
	if n == 0 {
		return s
	}
	b := make([]byte, len(s)+n)
	if j > 0 {
		copy(b[:j], s[:j])
	}
	for i := j; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			copy(b[j:], "&#34;")
			j += 5
		case '\'':
			copy(b[j:], "&#39;")
			j += 5
		case '&':
			copy(b[j:], "&amp;")
			j += 5
		case '<':
			copy(b[j:], "&lt;")
			j += 4
		case '>':
			copy(b[j:], "&gt;")
			j += 4
		default:
			b[j] = c
			j++
			continue
		}
		if j == i+1+n {
			copy(b[j:], s[i+1:])
			break
		}
	}
	return string(b)
}

// htmlBreaks escapes s as HTMLEscape and inserts a <br /> element before
// each line break.
func htmlBreaks(s string) string {
	s = HTMLEscape(s)
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\r':
			b.WriteString("<br />\r")
			if i+1 < len(s) && s[i+1] == '\n' {
				b.WriteByte('\n')
				i++
			}
		case '\n':
			b.WriteString("<br />\n")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// URLEscape escapes s so it can be placed inside a URL query.
func URLEscape(s string) string {
	return url.QueryEscape(s)
}
