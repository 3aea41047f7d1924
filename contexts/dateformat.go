// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Default formats of the "date", "pdate" and "time" contexts without a
// format.
const (
	defaultDateFormat   = "M/D/Y"
	defaultNativeFormat = "m/d/Y"
	defaultSpanFormat   = "h:mm:ss"
)

// formatDate applies the DateFormat context c to s. If s cannot be read as
// a time, or as a span for the TimeSpan kind, it is returned unchanged.
func formatDate(s string, c DateFormat, loc *time.Location) string {
	if c.Kind == TimeSpan {
		v := strings.TrimSpace(s)
		if strings.Contains(v, ":") {
			v = timeSpanSeconds(v)
		}
		if !plainNumber.MatchString(v) {
			return s
		}
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s
		}
		return FormatSpan(secs, c.Format)
	}
	t, ok := readTime(s, loc)
	if !ok {
		return s
	}
	if c.Kind == NativeDate {
		return FormatNative(t, c.Format)
	}
	return Format(t, c.Format)
}

// Format formats t according to format, where
//
//	MM   full month name, "January"
//	M    month, "1"
//	DD   day with ordinal suffix, "1st"
//	D    day, "1"
//	Y    year, "2006"; YY is the two-digit year
//	hh   12-hour hour, "03"; h is "3"
//	HH   24-hour hour, "15"; H is "15"
//	mm   minutes, "04"; m is "4"
//	ss   seconds, "05"; s is "5"
//	A    "AM" or "PM"
//
// A backslash writes the following character as is. Any other character is
// written as is.
func Format(t time.Time, format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		n := 1
		for i+n < len(format) && format[i+n] == c {
			n++
		}
		switch c {
		case '\\':
			if i+1 < len(format) {
				_, size := utf8.DecodeRuneInString(format[i+1:])
				b.WriteString(format[i+1 : i+1+size])
				i += size
			}
			continue
		case 'M':
			if n >= 2 {
				b.WriteString(t.Month().String())
				n = 2
			} else {
				b.WriteString(strconv.Itoa(int(t.Month())))
			}
		case 'D':
			if n >= 2 {
				b.WriteString(strconv.Itoa(t.Day()))
				b.WriteString(ordinal(t.Day()))
				n = 2
			} else {
				b.WriteString(strconv.Itoa(t.Day()))
			}
		case 'Y':
			if n == 2 {
				b.WriteString(pad(t.Year() % 100))
			} else {
				b.WriteString(strconv.Itoa(t.Year()))
			}
		case 'h':
			n = writeNumber(&b, hour12(t.Hour()), n)
		case 'H':
			n = writeNumber(&b, t.Hour(), n)
		case 'm':
			n = writeNumber(&b, t.Minute(), n)
		case 's':
			n = writeNumber(&b, t.Second(), n)
		case 'A':
			b.WriteString(meridiem(t.Hour()))
			n = 1
		default:
			b.WriteByte(c)
			n = 1
		}
		i += n - 1
	}
	return b.String()
}

// writeNumber writes v, zero padded if n is at least 2, and returns the
// number of format characters consumed.
func writeNumber(b *strings.Builder, v, n int) int {
	if n >= 2 {
		b.WriteString(pad(v))
		return 2
	}
	b.WriteString(strconv.Itoa(v))
	return 1
}

// FormatNative formats t according to format, written with the letters of
// the PHP date function. A backslash writes the following character as is.
func FormatNative(t time.Time, format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '\\':
			if i+1 < len(format) {
				_, size := utf8.DecodeRuneInString(format[i+1:])
				b.WriteString(format[i+1 : i+1+size])
				i += size
			}
		case 'd':
			b.WriteString(pad(t.Day()))
		case 'D':
			b.WriteString(t.Weekday().String()[:3])
		case 'j':
			b.WriteString(strconv.Itoa(t.Day()))
		case 'l':
			b.WriteString(t.Weekday().String())
		case 'N':
			wd := int(t.Weekday())
			if wd == 0 {
				wd = 7
			}
			b.WriteString(strconv.Itoa(wd))
		case 'S':
			b.WriteString(ordinal(t.Day()))
		case 'w':
			b.WriteString(strconv.Itoa(int(t.Weekday())))
		case 'z':
			b.WriteString(strconv.Itoa(t.YearDay() - 1))
		case 'W':
			_, week := t.ISOWeek()
			b.WriteString(pad(week))
		case 'F':
			b.WriteString(t.Month().String())
		case 'm':
			b.WriteString(pad(int(t.Month())))
		case 'M':
			b.WriteString(t.Month().String()[:3])
		case 'n':
			b.WriteString(strconv.Itoa(int(t.Month())))
		case 't':
			b.WriteString(strconv.Itoa(daysIn(t.Year(), t.Month())))
		case 'L':
			if daysIn(t.Year(), time.February) == 29 {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		case 'o':
			year, _ := t.ISOWeek()
			b.WriteString(strconv.Itoa(year))
		case 'Y':
			b.WriteString(strconv.Itoa(t.Year()))
		case 'y':
			b.WriteString(pad(t.Year() % 100))
		case 'a':
			b.WriteString(strings.ToLower(meridiem(t.Hour())))
		case 'A':
			b.WriteString(meridiem(t.Hour()))
		case 'g':
			b.WriteString(strconv.Itoa(hour12(t.Hour())))
		case 'G':
			b.WriteString(strconv.Itoa(t.Hour()))
		case 'h':
			b.WriteString(pad(hour12(t.Hour())))
		case 'H':
			b.WriteString(pad(t.Hour()))
		case 'i':
			b.WriteString(pad(t.Minute()))
		case 's':
			b.WriteString(pad(t.Second()))
		case 'u':
			b.WriteString(fmt.Sprintf("%06d", t.Nanosecond()/1e3))
		case 'v':
			b.WriteString(fmt.Sprintf("%03d", t.Nanosecond()/1e6))
		case 'e':
			b.WriteString(t.Location().String())
		case 'T':
			b.WriteString(t.Format("MST"))
		case 'P':
			b.WriteString(t.Format("-07:00"))
		case 'p':
			if _, offset := t.Zone(); offset == 0 {
				b.WriteByte('Z')
			} else {
				b.WriteString(t.Format("-07:00"))
			}
		case 'O':
			b.WriteString(t.Format("-0700"))
		case 'Z':
			_, offset := t.Zone()
			b.WriteString(strconv.Itoa(offset))
		case 'c':
			b.WriteString(t.Format("2006-01-02T15:04:05-07:00"))
		case 'r':
			b.WriteString(t.Format("Mon, 02 Jan 2006 15:04:05 -0700"))
		case 'U':
			b.WriteString(strconv.FormatInt(t.Unix(), 10))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatSpan formats the elapsed seconds secs according to format, where
// "d" are the days, "h" and "hh" the hours, "m" and "mm" the minutes and "s"
// and "ss" the seconds, doubled letters being zero padded. The largest unit
// present in format takes the remainder of the larger units that are not.
// A backslash writes the following character as is.
func FormatSpan(secs float64, format string) string {
	total := int64(math.Trunc(secs))
	neg := total < 0
	if neg {
		total = -total
	}
	has := map[byte]bool{}
	eachSpanToken(format, func(c byte, _ int, _ string) {
		has[c] = true
	})
	var days, hours, minutes int64
	if has['d'] {
		days, total = total/86400, total%86400
	}
	if has['h'] {
		hours, total = total/3600, total%3600
	}
	if has['m'] {
		minutes, total = total/60, total%60
	}
	values := map[byte]int64{'d': days, 'h': hours, 'm': minutes, 's': total}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	eachSpanToken(format, func(c byte, width int, lit string) {
		if c == 0 {
			b.WriteString(lit)
			return
		}
		v := strconv.FormatInt(values[c], 10)
		if width == 2 && len(v) < 2 {
			b.WriteByte('0')
		}
		b.WriteString(v)
	})
	return b.String()
}

// eachSpanToken calls f for each token of a span format. For the 'd', 'h',
// 'm' and 's' tokens c is the letter and width is 1 or 2; for literal text c
// is zero and lit is the text.
func eachSpanToken(format string, f func(c byte, width int, lit string)) {
	for i := 0; i < len(format); i++ {
		switch c := format[i]; c {
		case '\\':
			if i+1 < len(format) {
				_, size := utf8.DecodeRuneInString(format[i+1:])
				f(0, 0, format[i+1:i+1+size])
				i += size
			}
		case 'd':
			f(c, 1, "")
		case 'h', 'm', 's':
			if i+1 < len(format) && format[i+1] == c {
				f(c, 2, "")
				i++
			} else {
				f(c, 1, "")
			}
		default:
			f(0, 0, format[i:i+1])
		}
	}
}

func pad(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func hour12(h int) int {
	h %= 12
	if h == 0 {
		return 12
	}
	return h
}

func meridiem(h int) string {
	if h < 12 {
		return "AM"
	}
	return "PM"
}

// ordinal returns the English ordinal suffix of the day d.
func ordinal(d int) string {
	if d%100 >= 11 && d%100 <= 13 {
		return "th"
	}
	switch d % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
