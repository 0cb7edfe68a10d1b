package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate     = "date is required"
	msgInvalidDate     = "invalid date format, expected YYYY-MM-DD"
	msgInvalidDuration = "invalid duration"
	msgDateInPast      = "cannot get slots for past dates"
	msgServiceNotFound = "service not found"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, timezone string, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: domain.Location(timezone),
		now:      time.Now,
		logger:   logger,
	}
}

// Handle GET /api/v1/appointments/available-slots
// Query params: date (required, YYYY-MM-DD), duration (minutes) или serviceId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /appointments/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, query.Get("duration"), query.Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /appointments/available-slots - Invalid parameters: %v", err)
		if _, dateErr := time.Parse(domain.DateFormat, dateStr); dateErr != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDuration)
		}
		return
	}

	// Прошедшие даты отклоняются здесь, use case их не проверяет
	if useCaseReq.Date.Before(domain.Today(h.now(), h.location)) {
		h.logger.Warn("GET /appointments/available-slots - Past date: %s", dateStr)
		handlers.RespondBadRequest(w, msgDateInPast)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /appointments/available-slots - Service not found: service_id=%s", useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDuration):
			h.logger.Warn("GET /appointments/available-slots - Invalid duration: %d", useCaseReq.DurationMinutes)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgMissingDate)

		default:
			h.logger.Error("GET /appointments/available-slots - Failed to get slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /appointments/available-slots - Slots retrieved successfully: date=%s, slots_count=%d",
		dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
