package add_internal_note

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const secret = "test-secret"

type fakeService struct {
	req *models.InternalNoteRequest
	err error
}

func (f *fakeService) AddInternalNote(_ context.Context, appointmentID string, req *models.InternalNoteRequest) (*models.AppointmentResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{AppointmentID: appointmentID}, nil
}

func adminToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Role: middleware.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func serve(t *testing.T, svc *fakeService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	admin := router.PathPrefix("/api/v1/admin").Subrouter()
	admin.Use(middleware.AdminAuth(secret))
	admin.HandleFunc("/appointments/{appointmentId}/notes", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/appointments/APT-1/notes", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "marie"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_AuthorFromToken(t *testing.T) {
	svc := &fakeService{}

	rec := serve(t, svc, `{"note": "called back", "isPrivate": true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "marie", svc.req.AddedBy)
	assert.True(t, svc.req.IsPrivate)
}

func TestHandle_ExplicitAuthor(t *testing.T) {
	svc := &fakeService{}

	rec := serve(t, svc, `{"note": "ok", "addedBy": "paul"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "paul", svc.req.AddedBy)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(t, &fakeService{err: appointments.ErrInvalidInput}, `{"note": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, &fakeService{err: appointments.ErrAppointmentNotFound}, `{"note": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
