// Package calendar provides helpers for calendar dates (no time-of-day component).
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire and export format for calendar dates.
const Layout = "2006-01-02"

// Parse parses a YYYY-MM-DD string into a UTC midnight time.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Day drops the time-of-day of t, keeping the calendar date as seen in t's location.
// The result is UTC midnight so that dates compare equal regardless of origin.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a calendar date.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
