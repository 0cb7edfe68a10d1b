package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// IsValid reports whether s is a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// ServiceSnapshot is a copy of the catalog entry taken at booking time
type ServiceSnapshot struct {
	ID              string
	Name            string
	Category        string
	DurationMinutes int
	Price           float64
}

// DateTime is the booked slot. Date is a calendar day (UTC midnight),
// times are wall-clock in Timezone.
type DateTime struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Timezone  string
}

// Start returns the start instant of the slot
func (d DateTime) Start() (time.Time, error) {
	return d.StartTime.On(d.Date, Location(d.Timezone))
}

// End returns the end instant of the slot
func (d DateTime) End() (time.Time, error) {
	return d.EndTime.On(d.Date, Location(d.Timezone))
}

// GeoLocation optional client address used to plan travel
type GeoLocation struct {
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// Client contact details
type Client struct {
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Company     *string      `json:"company,omitempty"`
	ProjectType *string      `json:"projectType,omitempty"`
	Budget      *string      `json:"budget,omitempty"`
	Message     *string      `json:"message,omitempty"`
	Location    *GeoLocation `json:"location,omitempty"`
}

// FullName returns "First Last"
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// NotificationType kind of email sent to the client
type NotificationType string

const (
	NotificationConfirmation NotificationType = "confirmation"
	NotificationReminder     NotificationType = "reminder"
	NotificationCancellation NotificationType = "cancellation"
	NotificationFollowUp     NotificationType = "followup"
)

// IsValid reports whether t is a known notification type
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationConfirmation, NotificationReminder, NotificationCancellation, NotificationFollowUp:
		return true
	}
	return false
}

// NotificationStatus delivery status reported by the mailer
type NotificationStatus string

const (
	NotificationSent      NotificationStatus = "sent"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationFailed    NotificationStatus = "failed"
)

// IsValid reports whether s is a known delivery status
func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationSent, NotificationDelivered, NotificationFailed:
		return true
	}
	return false
}

// NotificationRecord one delivery report
type NotificationRecord struct {
	Type   NotificationType   `json:"type"`
	SentAt time.Time          `json:"sentAt"`
	Status NotificationStatus `json:"status"`
}

// Notifications flags and delivery history
type Notifications struct {
	ConfirmationSent bool                 `json:"confirmationSent"`
	ReminderSent     bool                 `json:"reminderSent"`
	FollowUpSent     bool                 `json:"followUpSent"`
	EmailsSent       []NotificationRecord `json:"emailsSent"`
}

// Record appends a delivery report and raises the matching flag on success
func (n *Notifications) Record(t NotificationType, status NotificationStatus, at time.Time) {
	n.EmailsSent = append(n.EmailsSent, NotificationRecord{Type: t, SentAt: at, Status: status})

	if status == NotificationFailed {
		return
	}
	switch t {
	case NotificationConfirmation:
		n.ConfirmationSent = true
	case NotificationReminder:
		n.ReminderSent = true
	case NotificationFollowUp:
		n.FollowUpSent = true
	}
}

// ModificationType kind of audit record
type ModificationType string

const (
	ModificationReschedule ModificationType = "reschedule"
	ModificationCancel     ModificationType = "cancel"
	ModificationModify     ModificationType = "modify"
)

// ModifiedBy actor of a modification
type ModifiedBy string

const (
	ModifiedByClient ModifiedBy = "client"
	ModifiedByAdmin  ModifiedBy = "admin"
)

// Modification is an audit record. Once appended it is never changed.
type Modification struct {
	Type        ModificationType `json:"type"`
	Reason      string           `json:"reason,omitempty"`
	OldDateTime *time.Time       `json:"oldDateTime,omitempty"`
	NewDateTime *time.Time       `json:"newDateTime,omitempty"`
	ModifiedAt  time.Time        `json:"modifiedAt"`
	ModifiedBy  ModifiedBy       `json:"modifiedBy"`
}

// Feedback left by the client after a completed appointment
type Feedback struct {
	Rating         int       `json:"rating"`
	Comment        *string   `json:"comment,omitempty"`
	Satisfaction   *int      `json:"satisfaction,omitempty"`
	WouldRecommend *bool     `json:"wouldRecommend,omitempty"`
	FollowUpNeeded *bool     `json:"followUpNeeded,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Metadata provenance and consent
type Metadata struct {
	Source             string    `json:"source,omitempty"`
	UserAgent          string    `json:"userAgent,omitempty"`
	IPAddress          string    `json:"ipAddress,omitempty"`
	Referrer           string    `json:"referrer,omitempty"`
	ConversionSource   string    `json:"conversionSource,omitempty"`
	CampaignID         string    `json:"campaignId,omitempty"`
	RGPDConsent        bool      `json:"rgpdConsent"`
	ConsentDate        time.Time `json:"consentDate"`
	DataRetentionUntil time.Time `json:"dataRetentionUntil"`
}

// InternalNote admin-only note
type InternalNote struct {
	Note      string    `json:"note"`
	AddedBy   string    `json:"addedBy"`
	AddedAt   time.Time `json:"addedAt"`
	IsPrivate bool      `json:"isPrivate"`
}

// Appointment is the aggregate root of a booking
type Appointment struct {
	ID            int64
	AppointmentID string
	Service       ServiceSnapshot
	DateTime      DateTime
	Client        Client
	Status        AppointmentStatus
	Payment       Payment
	Notifications Notifications
	Modifications []Modification
	Feedback      *Feedback
	Metadata      Metadata
	InternalNotes []InternalNote

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled confirmed and at least 24h before the start
func (a *Appointment) CanBeCancelled(now time.Time) bool {
	if a.Status != StatusConfirmed {
		return false
	}
	start, err := a.DateTime.Start()
	if err != nil {
		return false
	}
	return timewindow.IsWithinWindow(start, now, CancelWindowHours)
}

// CanBeRescheduled pending or confirmed and at least 48h before the start
func (a *Appointment) CanBeRescheduled(now time.Time) bool {
	if !a.IsActive() {
		return false
	}
	start, err := a.DateTime.Start()
	if err != nil {
		return false
	}
	return timewindow.IsWithinWindow(start, now, RescheduleWindowHours)
}

// HasStarted reports whether the start instant is not after now
func (a *Appointment) HasStarted(now time.Time) bool {
	start, err := a.DateTime.Start()
	if err != nil {
		return false
	}
	return !start.After(now)
}

// Normalize recomputes the derived fields: end time and payment amount.
// Must be called before every write.
func (a *Appointment) Normalize() error {
	end, err := a.DateTime.StartTime.AddMinutes(a.Service.DurationMinutes)
	if err != nil {
		return fmt.Errorf("appointment %s: compute end time: %w", a.AppointmentID, err)
	}
	a.DateTime.EndTime = end
	a.Payment.Amount = CalculatePaymentAmount(a.Payment.Option, a.Service.Price)
	if a.Payment.State == nil {
		a.Payment.State = PaymentPending{}
	}
	return nil
}

// AppendModification adds an audit record
func (a *Appointment) AppendModification(m Modification) {
	a.Modifications = append(a.Modifications, m)
}

// AddInternalNote adds an admin note
func (a *Appointment) AddInternalNote(n InternalNote) {
	a.InternalNotes = append(a.InternalNotes, n)
}

// Interval returns the occupied range in minutes since midnight
func (a *Appointment) Interval() (start int, end int, err error) {
	start, err = a.DateTime.StartTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return start, start + a.Service.DurationMinutes, nil
}

// RetentionDeadline returns created + 3 years
func RetentionDeadline(createdAt time.Time) time.Time {
	return createdAt.AddDate(DataRetentionYears, 0, 0)
}
