package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Business hours and slot grid
const (
	BusinessOpen    types.TimeString = "09:00"
	BusinessClose   types.TimeString = "18:00"
	SlotStepMinutes                  = 30
)

// Service duration bounds, minutes
const (
	MinServiceDurationMinutes = 30
	MaxServiceDurationMinutes = 480
)

// Lifecycle windows, hours before the appointment start
const (
	CancelWindowHours     = 24
	RescheduleWindowHours = 48
)

// Defaults
const (
	DefaultTimezone             = "Europe/Paris"
	DefaultAdvanceBookingMonths = 3
	DefaultCancelReason         = "Cancelled by client"
	DefaultSource               = "website"
	DataRetentionYears          = 3
	DepositRate                 = 0.3
)

// Input limits
const (
	MinRating                = 1
	MaxRating                = 5
	MaxFeedbackCommentLength = 500
	MaxReasonLength          = 200
	MaxInternalNoteLength    = 2000
	MaxClientMessageLength   = 1000
	MaxCompanyLength         = 100
	DefaultPageLimit         = 20
	MaxPageLimit             = 100
	DefaultStatsPeriodDays   = 30
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses that occupy a slot
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
