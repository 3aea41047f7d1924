// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner finds the delimited tags of a document and replaces them
// with their resolved values.
package scanner

import (
	"strings"
	"unicode/utf8"
)

// Default delimiters.
const (
	DefaultStart = "<#"
	DefaultEnd   = "#>"
)

// Kind is the kind of a tag.
type Kind int

const (
	Plain  Kind = iota // <# expr #>
	Global             // <#[ expr ]#>
	System             // <# system.name #>
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Global:
		return "global"
	case System:
		return "system"
	}
	return "unknown"
}

// Tag is a tag found in a document. Start and End are the byte offsets of
// the tag, delimiters included, and Expr is the trimmed inner expression.
type Tag struct {
	Start int
	End   int
	Expr  string
	Kind  Kind
}

// Scanner scans documents for tags delimited by a start and an end
// delimiter. Delimiters are matched case-insensitively.
type Scanner struct {
	start string
	end   string
}

// New returns a scanner for the given delimiters. Empty delimiters are
// replaced with the default ones.
func New(start, end string) *Scanner {
	if start == "" {
		start = DefaultStart
	}
	if end == "" {
		end = DefaultEnd
	}
	return &Scanner{start: start, end: end}
}

// Delimiters returns the start and end delimiters.
func (s *Scanner) Delimiters() (string, string) {
	return s.start, s.end
}

// Scan returns the tags of doc in document order. Nested tags are part of
// the expression of the enclosing tag and are not returned.
func (s *Scanner) Scan(doc string) []Tag {
	return s.scan(doc, -1)
}

// Replace returns a copy of doc with every tag replaced by the value
// returned by resolve. If resolve returns an error, Replace stops and
// returns it.
func (s *Scanner) Replace(doc string, resolve func(tag Tag) (string, error)) (string, error) {
	tags := s.Scan(doc)
	if tags == nil {
		return doc, nil
	}
	var b strings.Builder
	b.Grow(len(doc))
	p := 0
	for _, tag := range tags {
		b.WriteString(doc[p:tag.Start])
		v, err := resolve(tag)
		if err != nil {
			return "", err
		}
		b.WriteString(v)
		p = tag.End
	}
	b.WriteString(doc[p:])
	return b.String(), nil
}

// Contains reports whether doc contains at least one complete tag.
func (s *Scanner) Contains(doc string) bool {
	return len(s.scan(doc, 1)) > 0
}

// scan returns the first n tags of doc, or all the tags if n < 0, in a
// single pass. A start delimiter that is never closed is literal text, and
// the tags after it are scanned as if it were not there.
func (s *Scanner) scan(doc string, n int) []Tag {
	var tags []Tag
	var open []int    // offsets of the start delimiters not yet closed.
	var pending []Tag // tags closed inside start delimiters not yet closed.
	for p := 0; p < len(doc); {
		if len(open) > 0 && hasPrefixFold(doc[p:], s.end) {
			i := open[len(open)-1]
			open = open[:len(open)-1]
			tag := newTag(doc[i+len(s.start):p], i, p+len(s.end))
			p = tag.End
			if len(open) == 0 {
				pending = pending[:0]
				tags = append(tags, tag)
				if len(tags) == n {
					return tags
				}
				continue
			}
			// Drop the pending tags nested in this one.
			k := len(pending)
			for k > 0 && pending[k-1].Start > i {
				k--
			}
			pending = append(pending[:k], tag)
			continue
		}
		if hasPrefixFold(doc[p:], s.start) {
			open = append(open, p)
			p += len(s.start)
			continue
		}
		if len(open) == 0 {
			p++
			continue
		}
		_, size := utf8.DecodeRuneInString(doc[p:])
		p += size
	}
	for _, tag := range pending {
		tags = append(tags, tag)
		if len(tags) == n {
			break
		}
	}
	return tags
}

func newTag(inner string, start, end int) Tag {
	tag := Tag{Start: start, End: end, Expr: strings.TrimSpace(inner), Kind: Plain}
	if n := len(tag.Expr); n >= 2 && tag.Expr[0] == '[' && tag.Expr[n-1] == ']' {
		tag.Expr = strings.TrimSpace(tag.Expr[1 : n-1])
		tag.Kind = Global
		return tag
	}
	if isSystemName(tag.Expr) {
		tag.Kind = System
	}
	return tag
}

// isSystemName reports whether expr is a bare "system.name" reference.
func isSystemName(expr string) bool {
	const prefix = "system."
	if len(expr) <= len(prefix) || !strings.EqualFold(expr[:len(prefix)], prefix) {
		return false
	}
	for _, c := range expr[len(prefix):] {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
