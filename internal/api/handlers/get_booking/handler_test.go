package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
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
	err error
}

func (f *fakeService) GetByID(_ context.Context, appointmentID string) (*models.AppointmentResponse, error) {
	f.id = appointmentID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{AppointmentID: appointmentID, Status: "pending"}, nil
}

func serve(svc *fakeService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Get(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "APT-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APT-1", svc.id)
	assert.Contains(t, rec.Body.String(), `"appointmentId":"APT-1"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{name: "missing id", id: "", status: http.StatusBadRequest},
		{name: "not found", id: "APT-2", err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "internal", id: "APT-2", err: errors.New("db down"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
