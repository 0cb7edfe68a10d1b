package add_feedback

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidRating      = "rating must be between 1 and 5"
	msgInvalidInput       = "invalid input data"
	msgNotFound           = "appointment not found"
	msgNotAllowed         = "feedback only allowed for completed appointments"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/feedback
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	var req models.FeedbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/feedback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddFeedback(r.Context(), appointmentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidRating):
			handlers.RespondBadRequest(w, msgInvalidRating)

		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondValidationError(w, msgInvalidInput, err)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/feedback - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrFeedbackNotAllowed):
			h.logger.Warn("POST /appointments/{id}/feedback - Not completed: appointment_id=%s", appointmentID)
			handlers.RespondBadRequest(w, msgNotAllowed)

		default:
			h.logger.Error("POST /appointments/{id}/feedback - Failed to add feedback: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/feedback - Feedback saved: appointment_id=%s, rating=%d",
		appointmentID, req.Rating)
	handlers.RespondJSON(w, http.StatusOK, result)
}
