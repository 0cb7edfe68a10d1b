package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newTestAppointment(status AppointmentStatus, date time.Time, start types.TimeString) *Appointment {
	return &Appointment{
		AppointmentID: "APT-1-TEST",
		Service:       ServiceSnapshot{ID: "consultation", Name: "Consultation", DurationMinutes: 60, Price: 150},
		DateTime:      DateTime{Date: date, StartTime: start, Timezone: "UTC"},
		Status:        status,
		Payment:       NewPayment(PaymentDeposit, 150),
	}
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status AppointmentStatus
		now    time.Time
		want   bool
	}{
		{"exactly 24h", StatusConfirmed, start.Add(-24 * time.Hour), true},
		{"23h59m", StatusConfirmed, start.Add(-(23*time.Hour + 59*time.Minute)), false},
		{"pending", StatusPending, start.Add(-72 * time.Hour), false},
		{"cancelled", StatusCancelled, start.Add(-72 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAppointment(tt.status, date, "10:00")
			assert.Equal(t, tt.want, a.CanBeCancelled(tt.now))
		})
	}
}

func TestAppointment_CanBeRescheduled(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status AppointmentStatus
		now    time.Time
		want   bool
	}{
		{"pending exactly 48h", StatusPending, start.Add(-48 * time.Hour), true},
		{"confirmed 72h", StatusConfirmed, start.Add(-72 * time.Hour), true},
		{"confirmed 47h", StatusConfirmed, start.Add(-47 * time.Hour), false},
		{"completed", StatusCompleted, start.Add(-72 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAppointment(tt.status, date, "10:00")
			assert.Equal(t, tt.want, a.CanBeRescheduled(tt.now))
		})
	}
}

func TestAppointment_Normalize(t *testing.T) {
	a := newTestAppointment(StatusPending, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "10:30")
	a.Payment.Amount = 999

	require.NoError(t, a.Normalize())
	assert.Equal(t, types.TimeString("11:30"), a.DateTime.EndTime)
	assert.Equal(t, 45.0, a.Payment.Amount)

	a.Payment.Option = PaymentFull
	require.NoError(t, a.Normalize())
	assert.Equal(t, 150.0, a.Payment.Amount)
}

func TestAppointment_NormalizePastMidnight(t *testing.T) {
	a := newTestAppointment(StatusPending, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "23:30")
	assert.Error(t, a.Normalize())
}

func TestNotifications_Record(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var n Notifications

	n.Record(NotificationReminder, NotificationFailed, at)
	assert.False(t, n.ReminderSent)

	n.Record(NotificationReminder, NotificationDelivered, at)
	assert.True(t, n.ReminderSent)
	assert.Len(t, n.EmailsSent, 2)
}

func TestAppointment_ICS(t *testing.T) {
	a := newTestAppointment(StatusPending, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "10:00")
	a.Client = Client{FirstName: "Jean", LastName: "Dupont"}
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	ics, err := a.ICS(now, "example.com")
	require.NoError(t, err)

	assert.Contains(t, ics, "UID:APT-1-TEST@example.com\r\n")
	assert.Contains(t, ics, "DTSTART:20240610T100000Z\r\n")
	assert.Contains(t, ics, "DTEND:20240610T110000Z\r\n")
	assert.Contains(t, ics, "DTSTAMP:20240601T080000Z\r\n")
	assert.Contains(t, ics, "Client: Jean Dupont")
}
