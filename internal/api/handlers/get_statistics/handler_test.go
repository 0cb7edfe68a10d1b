package get_statistics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/statistics"
	"github.com/m04kA/SMC-AppointmentService/internal/service/statistics/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	req *models.PeriodRequest
	err error
}

func (f *fakeService) Get(_ context.Context, req *models.PeriodRequest) (*models.StatsResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.StatsResponse{
		ByService: []models.ServiceStatsResponse{},
		Daily:     []models.DailyStatsResponse{},
	}, nil
}

func serve(svc *fakeService, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments/stats?"+query, nil)
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Period(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "startDate=2024-06-01&endDate=2024-06-30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *svc.req.StartDate)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), *svc.req.EndDate)
}

func TestHandle_DefaultPeriod(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.req.StartDate)
	assert.Nil(t, svc.req.EndDate)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "startDate=june").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: statistics.ErrInvalidPeriod}, "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: statistics.ErrInternal}, "").Code)
}
