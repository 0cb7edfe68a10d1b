package get_statistics

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/statistics"
)

const (
	msgInvalidDate   = "invalid date format, expected YYYY-MM-DD"
	msgInvalidPeriod = "startDate must not be after endDate"
)

type Handler struct {
	service StatisticsService
	logger  Logger
}

func NewHandler(service StatisticsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments/stats
// Query params: startDate, endDate (по умолчанию последние 30 дней)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceReq, err := ToServiceRequest(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /admin/appointments/stats - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Get(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, statistics.ErrInvalidPeriod) {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		h.logger.Error("GET /admin/appointments/stats - Failed to get statistics: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/appointments/stats - Statistics retrieved successfully: period=%s..%s, total=%d",
		result.Period.StartDate, result.Period.EndDate, result.Overview.TotalAppointments)
	handlers.RespondJSON(w, http.StatusOK, result)
}
