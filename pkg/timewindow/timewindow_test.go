package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoursUntil(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 24.0, HoursUntil(now.Add(24*time.Hour), now))
	assert.Equal(t, 1.5, HoursUntil(now.Add(90*time.Minute), now))
	assert.Equal(t, -2.0, HoursUntil(now.Add(-2*time.Hour), now))
}

func TestIsWithinWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
		min    float64
		want   bool
	}{
		{name: "exactly on the boundary", target: now.Add(24 * time.Hour), min: 24, want: true},
		{name: "one minute short", target: now.Add(23*time.Hour + 59*time.Minute), min: 24, want: false},
		{name: "well ahead", target: now.Add(72 * time.Hour), min: 48, want: true},
		{name: "in the past", target: now.Add(-time.Hour), min: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinWindow(tt.target, now, tt.min))
		})
	}
}
