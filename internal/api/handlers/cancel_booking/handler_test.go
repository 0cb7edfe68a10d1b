package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	id  string
	req *models.CancelRequest
	err error
}

func (f *fakeService) Cancel(_ context.Context, appointmentID string, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	f.id, f.req = appointmentID, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{AppointmentID: appointmentID, Status: "cancelled"}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/APT-1/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": "APT-1"})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Cancel(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"reason": "sick"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APT-1", svc.id)
	assert.Equal(t, "sick", svc.req.Reason)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.req.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "broken body", body: "{", status: http.StatusBadRequest},
		{name: "not found", body: "{}", err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "too late", body: "{}", err: appointments.ErrCannotCancel, status: http.StatusBadRequest},
		{name: "long reason", body: "{}", err: appointments.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", body: "{}", err: appointments.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
