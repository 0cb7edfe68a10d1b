package appointment

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const tableName = "appointments"

// activeSlotIndex частичный уникальный индекс (booking_date, start_time) для pending/confirmed
const activeSlotIndex = "appointments_active_slot_idx"

const appointmentIDKey = "appointments_appointment_id_key"

var appointmentColumns = []string{
	"id",
	"appointment_id",
	"service_id",
	"service_name",
	"service_category",
	"service_duration",
	"service_price",
	"booking_date",
	"start_time",
	"end_time",
	"timezone",
	"client",
	"status",
	"payment_option",
	"payment_amount",
	"payment_status",
	"payment_reference",
	"paid_at",
	"refunded_at",
	"notifications",
	"modifications",
	"feedback",
	"metadata",
	"internal_notes",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAppointment читает строку в порядке appointmentColumns
func scanAppointment(s rowScanner) (*domain.Appointment, error) {
	var (
		a                domain.Appointment
		bookingDate      time.Time
		startTime        types.TimeString
		endTime          types.TimeString
		status           string
		paymentOption    string
		paymentStatus    string
		paymentReference sql.NullString
		paidAt           sql.NullTime
		refundedAt       sql.NullTime
		client           []byte
		notifications    []byte
		modifications    []byte
		feedback         []byte
		metadata         []byte
		internalNotes    []byte
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	err := s.Scan(
		&a.ID,
		&a.AppointmentID,
		&a.Service.ID,
		&a.Service.Name,
		&a.Service.Category,
		&a.Service.DurationMinutes,
		&a.Service.Price,
		&bookingDate,
		&startTime,
		&endTime,
		&a.DateTime.Timezone,
		&client,
		&status,
		&paymentOption,
		&a.Payment.Amount,
		&paymentStatus,
		&paymentReference,
		&paidAt,
		&refundedAt,
		&notifications,
		&modifications,
		&feedback,
		&metadata,
		&internalNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.DateTime.Date = domain.DateOnly(bookingDate)
	a.DateTime.StartTime = startTime
	a.DateTime.EndTime = endTime
	a.Status = domain.AppointmentStatus(status)
	a.Payment.Option = domain.PaymentOption(paymentOption)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	a.Payment.State, err = domain.RestorePaymentState(
		domain.PaymentStatus(paymentStatus),
		nullStringPtr(paymentReference),
		nullTimePtr(paidAt),
		nullTimePtr(refundedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", a.AppointmentID, err)
	}

	if err := decodeJSON(client, &a.Client); err != nil {
		return nil, fmt.Errorf("appointment %s: client: %w", a.AppointmentID, err)
	}
	if err := decodeJSON(notifications, &a.Notifications); err != nil {
		return nil, fmt.Errorf("appointment %s: notifications: %w", a.AppointmentID, err)
	}
	if err := decodeJSON(modifications, &a.Modifications); err != nil {
		return nil, fmt.Errorf("appointment %s: modifications: %w", a.AppointmentID, err)
	}
	if err := decodeJSON(metadata, &a.Metadata); err != nil {
		return nil, fmt.Errorf("appointment %s: metadata: %w", a.AppointmentID, err)
	}
	if err := decodeJSON(internalNotes, &a.InternalNotes); err != nil {
		return nil, fmt.Errorf("appointment %s: internal notes: %w", a.AppointmentID, err)
	}
	if len(feedback) > 0 {
		a.Feedback = &domain.Feedback{}
		if err := decodeJSON(feedback, a.Feedback); err != nil {
			return nil, fmt.Errorf("appointment %s: feedback: %w", a.AppointmentID, err)
		}
	}

	return &a, nil
}

// writeValues колонки для INSERT/UPDATE. Производные поля должны быть пересчитаны заранее.
func writeValues(a *domain.Appointment) (map[string]any, error) {
	client, err := json.Marshal(a.Client)
	if err != nil {
		return nil, err
	}
	notifications := a.Notifications
	if notifications.EmailsSent == nil {
		notifications.EmailsSent = []domain.NotificationRecord{}
	}
	notificationsJSON, err := json.Marshal(notifications)
	if err != nil {
		return nil, err
	}
	modifications, err := json.Marshal(nonNil(a.Modifications))
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, err
	}
	internalNotes, err := json.Marshal(nonNil(a.InternalNotes))
	if err != nil {
		return nil, err
	}

	var feedback any
	var feedbackRating any
	if a.Feedback != nil {
		raw, err := json.Marshal(a.Feedback)
		if err != nil {
			return nil, err
		}
		feedback = raw
		feedbackRating = a.Feedback.Rating
	}

	return map[string]any{
		"appointment_id":    a.AppointmentID,
		"service_id":        a.Service.ID,
		"service_name":      a.Service.Name,
		"service_category":  a.Service.Category,
		"service_duration":  a.Service.DurationMinutes,
		"service_price":     a.Service.Price,
		"booking_date":      a.DateTime.Date.Format(domain.DateFormat),
		"start_time":        a.DateTime.StartTime,
		"end_time":          a.DateTime.EndTime,
		"timezone":          a.DateTime.Timezone,
		"client_first_name": a.Client.FirstName,
		"client_last_name":  a.Client.LastName,
		"client_email":      a.Client.Email,
		"client":            client,
		"status":            string(a.Status),
		"payment_option":    string(a.Payment.Option),
		"payment_amount":    a.Payment.Amount,
		"payment_status":    string(a.Payment.Status()),
		"payment_reference": a.Payment.Reference(),
		"paid_at":           a.Payment.PaidAt(),
		"refunded_at":       a.Payment.RefundedAt(),
		"notifications":     notificationsJSON,
		"modifications":     modifications,
		"feedback":          feedback,
		"feedback_rating":   feedbackRating,
		"metadata":          metadata,
		"internal_notes":    internalNotes,
		"updated_at":        a.UpdatedAt,
	}, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}
