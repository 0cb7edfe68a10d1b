// Package timewindow holds pure helpers for "at least N hours before" rules.
package timewindow

import "time"

// HoursUntil returns the (possibly negative) number of hours from now to target
func HoursUntil(target, now time.Time) float64 {
	return float64(target.Sub(now)) / float64(time.Hour)
}

// IsWithinWindow reports whether target is at least minHours away from now
func IsWithinWindow(target, now time.Time, minHours float64) bool {
	return HoursUntil(target, now) >= minHours
}
