package util

import (
	"strconv"
	"time"
)

// MonthLayout is the "YYYY-MM" key used across series and horizons.
const MonthLayout = "2006-01"

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	MonthLayout,
}

// ParseTime tries the common date layouts, then unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts a month start by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// MonthsBetween counts calendar months from a to b (negative when b is earlier).
func MonthsBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// ParseMonthKey parses "YYYY-MM".
func ParseMonthKey(s string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
