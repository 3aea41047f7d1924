// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package contexts implements the contexts of a tag expression: the
// trailing "as X" and "::X" suffixes that transform a resolved value before
// it is substituted in the document.
//
// An expression such as
//
//	order.total as number as dollars
//
// is split by Parse into the base name "order.total" and a pipeline of two
// contexts. Apply runs the pipeline in the order the contexts are written,
// first "number" and then "dollars".
//
// Contexts are Simple keywords, TimestampAdjust, DateFormat and Hash
// descriptors. Two descriptors are identical if they are equal with the ==
// operator.
package contexts

import (
	"strconv"
	"strings"
)

// Context is a context descriptor. It is implemented by Simple,
// TimestampAdjust, DateFormat and Hash.
type Context interface {
	String() string
	isContext()
}

// Simple is a context identified only by its keyword, as "html" or
// "dollars".
type Simple struct {
	Name string // lower-cased keyword.
}

func (c Simple) String() string { return c.Name }

// Unit is the unit of a TimestampAdjust amount.
type Unit int

const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Weeks
	Months
	MonthEnd
	FirstOfMonth
	Years
	Decades
	Centuries
	Millennia
)

var unitNames = [...]string{
	Seconds:      "seconds",
	Minutes:      "minutes",
	Hours:        "hours",
	Days:         "days",
	Weeks:        "weeks",
	Months:       "months",
	MonthEnd:     "month-end",
	FirstOfMonth: "first-of-month",
	Years:        "years",
	Decades:      "decades",
	Centuries:    "centuries",
	Millennia:    "millennia",
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "unit(" + strconv.Itoa(int(u)) + ")"
	}
	return unitNames[u]
}

// TimestampAdjust adds Amount units to a timestamp.
type TimestampAdjust struct {
	Amount float64
	Unit   Unit
}

func (c TimestampAdjust) String() string {
	amount := strconv.FormatFloat(c.Amount, 'f', -1, 64)
	if c.Amount >= 0 {
		amount = "+" + amount
	}
	return "timestamp " + amount + " " + c.Unit.String()
}

// DateKind is the kind of a DateFormat context.
type DateKind int

const (
	Date       DateKind = iota // private token table.
	NativeDate                 // PHP date() letters.
	TimeSpan                   // elapsed seconds.
)

func (k DateKind) String() string {
	switch k {
	case Date:
		return "date"
	case NativeDate:
		return "pdate"
	case TimeSpan:
		return "time"
	}
	return "datekind(" + strconv.Itoa(int(k)) + ")"
}

// DateFormat formats a timestamp, or an elapsed time for the TimeSpan
// kind, according to Format.
type DateFormat struct {
	Kind   DateKind
	Format string
}

func (c DateFormat) String() string {
	return c.Kind.String() + " " + strconv.Quote(c.Format)
}

// DefaultHashAlgorithm is the algorithm of a Hash context that does not
// name one.
const DefaultHashAlgorithm = "sha256"

// Hash replaces a value with the hexadecimal digest of the salt followed by
// the value. The salt is either the literal Salt or the value of the
// variable SaltVar; at most one of the two is set.
type Hash struct {
	Algorithm string
	Salt      string
	SaltVar   string
}

func (c Hash) String() string {
	var b strings.Builder
	b.WriteString("hash using ")
	b.WriteString(strconv.Quote(c.Algorithm))
	switch {
	case c.SaltVar != "":
		b.WriteString(" salted by ")
		b.WriteString(c.SaltVar)
	case c.Salt != "":
		b.WriteString(" salted by ")
		b.WriteString(strconv.Quote(c.Salt))
	}
	return b.String()
}

func (Simple) isContext()          {}
func (TimestampAdjust) isContext() {}
func (DateFormat) isContext()      {}
func (Hash) isContext()            {}

// Pipeline is a sequence of contexts in the order they are peeled off the
// end of an expression: the last context written is the first element.
// Use Ordered to get the contexts in application order.
type Pipeline []Context

// Ordered returns the distinct contexts of p in application order, that is
// the order in which they are written in the expression. When a context
// occurs more than once only its first occurrence is kept.
func (p Pipeline) Ordered() []Context {
	ordered := make([]Context, 0, len(p))
Contexts:
	for i := len(p) - 1; i >= 0; i-- {
		for _, c := range ordered {
			if c == p[i] {
				continue Contexts
			}
		}
		ordered = append(ordered, p[i])
	}
	return ordered
}

// String returns the pipeline as it would be written in an expression.
func (p Pipeline) String() string {
	var b strings.Builder
	for i := len(p) - 1; i >= 0; i-- {
		b.WriteString(" as ")
		b.WriteString(p[i].String())
	}
	return b.String()
}
