package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or start time, expected YYYY-MM-DD and HH:MM"
	msgInvalidInput       = "invalid input data"
	msgNotFound           = "appointment not found"
	msgCannotReschedule   = "appointment cannot be rescheduled (48h minimum notice)"
	msgDateInPast         = "cannot reschedule to the past"
	msgDateTooFar         = "date is too far in the future"
	msgOutsideHours       = "slot is outside business hours"
	msgSlotNotAvailable   = "new slot not available"
	msgSlotBeingBooked    = "slot is being booked, please retry"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID := mux.Vars(r)["appointmentId"]

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			handlers.RespondValidationError(w, msgInvalidInput, err)

		case errors.Is(err, rescheduleBooking.ErrCannotReschedule):
			h.logger.Warn("POST /appointments/{id}/reschedule - Cannot reschedule: appointment_id=%s", appointmentID)
			handlers.RespondBadRequest(w, msgCannotReschedule)

		case errors.Is(err, rescheduleBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, rescheduleBooking.ErrOutsideBusinessHours):
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, rescheduleBooking.ErrSlotBeingBooked):
			h.logger.Warn("POST /appointments/{id}/reschedule - Slot locked: date=%s", req.NewDate)
			handlers.RespondConflict(w, msgSlotBeingBooked)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Slot not available: date=%s, time=%s",
				req.NewDate, req.NewStartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Appointment rescheduled successfully: appointment_id=%s, date=%s, time=%s",
		appointmentID, req.NewDate, req.NewStartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
