package domain

import "time"

// Location resolves a timezone label. Unknown labels fall back to the
// default zone, then to UTC.
func Location(label string) *time.Location {
	if label == "" {
		label = DefaultTimezone
	}
	if loc, err := time.LoadLocation(label); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// DateOnly returns the calendar day of t as UTC midnight
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc as UTC midnight
func Today(now time.Time, loc *time.Location) time.Time {
	return DateOnly(now.In(loc))
}
