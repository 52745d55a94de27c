// Package calendar maps instants onto the calendar days summaries are keyed by.
package calendar

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Day returns the calendar day t falls on in loc, encoded as midnight UTC.
// Every stored date uses this encoding, so days compare with Equal.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Parse(s string) (time.Time, error) {
	day, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day [%s], use YYYY-MM-DD: %w", s, err)
	}
	return day, nil
}

func Format(day time.Time) string {
	return day.Format(Layout)
}

// LoadLocation falls back to UTC for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
