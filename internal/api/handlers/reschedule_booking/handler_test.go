package reschedule_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeUseCase struct {
	req *rescheduleBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *rescheduleBooking.Request) (*rescheduleBooking.Response, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	a := &domain.Appointment{
		AppointmentID: req.AppointmentID,
		Service:       domain.ServiceSnapshot{ID: "consultation", Name: "Consultation", DurationMinutes: 60, Price: 150},
		DateTime:      domain.DateTime{Date: req.NewDate, StartTime: req.NewStartTime, Timezone: "UTC"},
		Status:        domain.StatusConfirmed,
		Payment:       domain.NewPayment(domain.PaymentOnsite, 150),
	}
	_ = a.Normalize()
	return &rescheduleBooking.Response{Appointment: a, ICS: "BEGIN:VCALENDAR"}, nil
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/APT-1/reschedule", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": "APT-1"})
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Reschedule(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, `{"newDate":"2024-06-12","newStartTime":"14:00","reason":"travel"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "APT-1", uc.req.AppointmentID)
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), uc.req.NewDate)
	assert.Equal(t, types.TimeString("14:00"), uc.req.NewStartTime)
	assert.Equal(t, "travel", uc.req.Reason)

	var body RescheduleBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-06-12", body.Appointment.DateTime.Date)
	assert.Equal(t, "15:00", body.Appointment.DateTime.EndTime)
	assert.Equal(t, "BEGIN:VCALENDAR", body.ICS)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "broken json", body: "{"},
		{name: "empty body", body: ""},
		{name: "bad date", body: `{"newDate":"12/06/2024","newStartTime":"14:00"}`},
		{name: "bad time", body: `{"newDate":"2024-06-12","newStartTime":"2pm"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.req)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: rescheduleBooking.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "invalid input", err: rescheduleBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "within 48h", err: rescheduleBooking.ErrCannotReschedule, status: http.StatusBadRequest},
		{name: "past", err: rescheduleBooking.ErrDateInPast, status: http.StatusBadRequest},
		{name: "too far", err: rescheduleBooking.ErrDateTooFarInFuture, status: http.StatusBadRequest},
		{name: "outside hours", err: rescheduleBooking.ErrOutsideBusinessHours, status: http.StatusBadRequest},
		{name: "being booked", err: rescheduleBooking.ErrSlotBeingBooked, status: http.StatusConflict},
		{name: "taken", err: rescheduleBooking.ErrSlotNotAvailable, status: http.StatusConflict},
		{name: "internal", err: rescheduleBooking.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, `{"newDate":"2024-06-12","newStartTime":"14:00"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
