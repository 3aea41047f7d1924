// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"math"
	"strconv"
	"strings"
)

// Currency describes how amounts of a currency are written.
type Currency struct {
	Symbol    string
	Thousands string // thousands separator.
	Decimal   string // decimal separator.
	Decimals  int
}

// Currencies are the currencies of the currency contexts, keyed by ISO
// 4217 code in lower case.
var Currencies = map[string]Currency{
	"usd": {Symbol: "$", Thousands: ",", Decimal: ".", Decimals: 2},
	"eur": {Symbol: "€", Thousands: ".", Decimal: ",", Decimals: 2},
	"gbp": {Symbol: "£", Thousands: ",", Decimal: ".", Decimals: 2},
	"chf": {Symbol: "CHF", Thousands: "'", Decimal: ".", Decimals: 2},
	"jpy": {Symbol: "¥", Thousands: ",", Decimal: ".", Decimals: 0},
}

func currencyFunc(code string) func(*Env, string) string {
	return func(_ *Env, s string) string {
		return Currencies[code].Format(s)
	}
}

// Format formats the amount in s. Characters other than digits, '.' and
// '-' are ignored, and an amount that cannot be parsed is formatted as zero.
//
// For example, the USD currency formats "1234.5" as "$ 1,234.50" and "-50"
// as "$ -50.00".
func (c Currency) Format(s string) string {
	n, err := strconv.ParseFloat(stripNumber(s), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		n = 0
	}
	p := math.Pow(10, float64(c.Decimals))
	n = math.Round(n*p) / p
	neg := n < 0
	digits := strconv.FormatFloat(math.Abs(n), 'f', c.Decimals, 64)
	integer, fraction, _ := strings.Cut(digits, ".")
	var b strings.Builder
	b.WriteString(c.Symbol)
	b.WriteByte(' ')
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(integer); i++ {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteString(c.Thousands)
		}
		b.WriteByte(integer[i])
	}
	if c.Decimals > 0 {
		b.WriteString(c.Decimal)
		b.WriteString(fraction)
	}
	return b.String()
}
