package record_notification

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
	req *models.NotificationRequest
	err error
}

func (f *fakeService) RecordNotification(_ context.Context, appointmentID string, req *models.NotificationRequest) (*models.AppointmentResponse, error) {
	f.id, f.req = appointmentID, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{AppointmentID: appointmentID, Status: "pending"}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/appointments/APT-1/notifications", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": "APT-1"})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_RecordNotification(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"type":"confirmation","status":"sent"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APT-1", svc.id)
	assert.Equal(t, "confirmation", svc.req.Type)
	assert.Equal(t, "sent", svc.req.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "empty body", body: "", status: http.StatusBadRequest},
		{name: "bad type", body: `{"type":"sms","status":"sent"}`, err: appointments.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "not found", body: `{"type":"reminder","status":"sent"}`, err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "internal", body: `{"type":"reminder","status":"sent"}`, err: appointments.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
