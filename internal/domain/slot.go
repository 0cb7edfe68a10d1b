package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot is a candidate start time on the 30-minute grid
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}

// ConflictMode selects how a requested slot is compared with existing appointments
type ConflictMode string

const (
	// ConflictModeOverlap any interval overlap is a conflict
	ConflictModeOverlap ConflictMode = "overlap"
	// ConflictModeExact only the same date and start time is a conflict
	ConflictModeExact ConflictMode = "exact"
)

// IsValid reports whether m is a known mode
func (m ConflictMode) IsValid() bool {
	return m == ConflictModeOverlap || m == ConflictModeExact
}

// Overlaps reports whether the half-open ranges [s1,e1) and [s2,e2) intersect
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// FindOverlapping returns the first active appointment whose interval
// overlaps [start, start+durationMinutes). The appointment with excludeID is skipped.
func FindOverlapping(start types.TimeString, durationMinutes int, existing []*Appointment, excludeID string) (*Appointment, error) {
	s1, err := start.Minutes()
	if err != nil {
		return nil, err
	}
	e1 := s1 + durationMinutes

	for _, appt := range existing {
		if appt == nil || !appt.IsActive() {
			continue
		}
		if excludeID != "" && appt.AppointmentID == excludeID {
			continue
		}
		s2, e2, err := appt.Interval()
		if err != nil {
			// запись с битым временем не может занимать слот
			continue
		}
		if Overlaps(s1, e1, s2, e2) {
			return appt, nil
		}
	}
	return nil, nil
}

// WithinBusinessHours reports whether [start, start+durationMinutes) fits 09:00-18:00
func WithinBusinessHours(start types.TimeString, durationMinutes int) bool {
	s, err := start.Minutes()
	if err != nil {
		return false
	}
	open, _ := BusinessOpen.Minutes()
	closing, _ := BusinessClose.Minutes()
	return s >= open && s+durationMinutes <= closing
}

// IsValidServiceDuration reports whether minutes is within [30, 480]
func IsValidServiceDuration(minutes int) bool {
	return minutes >= MinServiceDurationMinutes && minutes <= MaxServiceDurationMinutes
}
