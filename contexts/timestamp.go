// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// plainNumber matches values that are taken as Unix timestamps as they are.
var plainNumber = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

var (
	usDate  = regexp.MustCompile(`(?i)^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?\s*(am|pm)?)?$`)
	isoDate = regexp.MustCompile(`(?i)^(\d{4})-(\d{1,2})-(\d{1,2})(?:(?:\s+|T)(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?\s*(am|pm)?)?$`)
)

// layouts are the additional layouts recognized by the "timestamp" context.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"January 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/06",
}

// parseDate parses a date written as "MM/DD/YYYY" or "YYYY-MM-DD" with an
// optional time "h[:mm[:ss]] [AM|PM]".
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	var year, month, day string
	var m []string
	if m = usDate.FindStringSubmatch(s); m != nil {
		month, day, year = m[1], m[2], m[3]
	} else if m = isoDate.FindStringSubmatch(s); m != nil {
		year, month, day = m[1], m[2], m[3]
	} else {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 || d > daysIn(y, time.Month(mo)) {
		return time.Time{}, false
	}
	var h, mi, sec int
	if m[4] != "" {
		h, _ = strconv.Atoi(m[4])
		mi, _ = strconv.Atoi(m[5])
		sec, _ = strconv.Atoi(m[6])
		switch strings.ToLower(m[7]) {
		case "am", "pm":
			if h < 1 || h > 12 {
				return time.Time{}, false
			}
			h %= 12
			if strings.EqualFold(m[7], "pm") {
				h += 12
			}
		default:
			if h > 23 {
				return time.Time{}, false
			}
		}
		if mi > 59 || sec > 59 {
			return time.Time{}, false
		}
	}
	return time.Date(y, time.Month(mo), d, h, mi, sec, 0, loc), true
}

// readTime reads the time in s. s can be a Unix timestamp, a date accepted
// by parseDate or a date in one of the layouts.
func readTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if plainNumber.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		if !fitsInt64(n) {
			return time.Time{}, false
		}
		sec, frac := math.Modf(n)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).In(loc), true
	}
	if t, ok := parseDate(s, loc); ok {
		return t, true
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toTimestamp returns the Unix timestamp of the time in s. If s is already
// a plain number it is returned as is, and if it cannot be read it is
// returned unchanged.
func toTimestamp(s string, loc *time.Location) string {
	if plainNumber.MatchString(strings.TrimSpace(s)) {
		return s
	}
	t, ok := readTime(s, loc)
	if !ok {
		return s
	}
	return strconv.FormatInt(t.Unix(), 10)
}

// unitSeconds are the seconds of the fixed-length units.
var unitSeconds = map[Unit]float64{
	Seconds: 1,
	Minutes: 60,
	Hours:   3600,
	Days:    86400,
	Weeks:   7 * 86400,
}

// maxDayClamps is the number of times the day of a shifted date is
// decremented looking for a valid date.
const maxDayClamps = 5

// adjustTimestamp applies the TimestampAdjust context c to s.
func adjustTimestamp(s string, c TimestampAdjust, loc *time.Location) string {
	v := strings.TrimSpace(s)
	var ts float64
	if plainNumber.MatchString(v) {
		ts, _ = strconv.ParseFloat(v, 64)
	} else if t, ok := parseDate(v, loc); ok {
		ts = float64(t.Unix())
	} else {
		return s
	}
	if !fitsInt64(ts) {
		return s
	}
	if secs, ok := unitSeconds[c.Unit]; ok {
		ts += c.Amount * secs
		if !fitsInt64(ts) {
			return s
		}
	} else {
		sec, frac := math.Modf(ts)
		t, ok := shiftDate(time.Unix(int64(sec), 0).In(loc), c)
		if !ok {
			return s
		}
		ts = float64(t.Unix()) + frac
	}
	if ts == math.Trunc(ts) {
		return strconv.FormatInt(int64(ts), 10)
	}
	return formatNumber(ts)
}

// fitsInt64 reports whether the integer part of f is representable as an
// int64.
func fitsInt64(f float64) bool {
	return math.Abs(f) < math.MaxInt64
}

// shiftDate shifts t by the calendar unit of c. The day of the month is
// clamped backward at most maxDayClamps times; if the date is still not
// valid shiftDate returns false.
func shiftDate(t time.Time, c TimestampAdjust) (time.Time, bool) {
	n := int(c.Amount)
	var years, months int
	switch c.Unit {
	case Months, MonthEnd, FirstOfMonth:
		months = n
	case Years:
		years = n
	case Decades:
		years = n * 10
	case Centuries:
		years = n * 100
	case Millennia:
		years = n * 1000
	}
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	m := int(month) - 1 + months
	year += years + floorDiv(m, 12)
	month = time.Month(m - floorDiv(m, 12)*12 + 1)
	switch c.Unit {
	case MonthEnd:
		day = daysIn(year, month)
	case FirstOfMonth:
		day = 1
	default:
		for i := 0; day > daysIn(year, month); i++ {
			if i == maxDayClamps {
				return time.Time{}, false
			}
			day--
		}
	}
	return time.Date(year, month, day, hour, minute, sec, 0, t.Location()), true
}

// daysIn returns the number of days of month in year.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
