package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeUseCase struct {
	req  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.req = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, query string) *httptest.ResponseRecorder {
	h := NewHandler(uc, "UTC", logger.Nop())
	h.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/appointments/available-slots?"+query, nil))
	return rec
}

func TestHandle_Slots(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:            time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Timezone:        "UTC",
		DurationMinutes: 60,
		Slots: []domain.Slot{
			{StartTime: types.TimeString("09:00"), EndTime: types.TimeString("10:00"), Available: true},
			{StartTime: types.TimeString("09:30"), EndTime: types.TimeString("10:30"), Available: false},
		},
	}}

	rec := serve(uc, "date=2024-06-10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, uc.req.DurationMinutes)

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2024-06-10", body.Date)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, AvailableSlot{StartTime: "09:30", EndTime: "10:30", Available: false}, body.Slots[1])
}

func TestHandle_ServiceDuration(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{}}

	serve(uc, "date=2024-06-10&serviceId=audit")
	require.NotNil(t, uc.req)
	assert.Equal(t, "audit", uc.req.ServiceID)
	assert.Zero(t, uc.req.DurationMinutes)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{name: "missing date", query: "", status: http.StatusBadRequest},
		{name: "bad date", query: "date=10-06-2024", status: http.StatusBadRequest},
		{name: "bad duration", query: "date=2024-06-10&duration=abc", status: http.StatusBadRequest},
		{name: "past date", query: "date=2024-05-31", status: http.StatusBadRequest},
		{name: "unknown service", query: "date=2024-06-10&serviceId=x", err: getAvailableSlots.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "duration range", query: "date=2024-06-10&duration=10", err: getAvailableSlots.ErrInvalidDuration, status: http.StatusBadRequest},
		{name: "internal", query: "date=2024-06-10", err: getAvailableSlots.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.query)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_TodayAllowed(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{}}
	rec := serve(uc, "date=2024-06-01")
	assert.Equal(t, http.StatusOK, rec.Code)
}
