package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or start time, expected YYYY-MM-DD and HH:MM"
	msgConsentRequired    = "RGPD consent is required"
	msgInvalidInput       = "invalid input data"
	msgInvalidPayment     = "invalid payment option"
	msgServiceNotFound    = "service not found"
	msgDateInPast         = "cannot book in the past"
	msgDateTooFar         = "date is too far in the future"
	msgOutsideHours       = "slot is outside business hours"
	msgInvalidDuration    = "invalid service duration"
	msgSlotNotAvailable   = "slot no longer available"
	msgSlotBeingBooked    = "slot is being booked, please retry"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(r)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrConsentRequired):
			handlers.RespondBadRequest(w, msgConsentRequired)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondValidationError(w, msgInvalidInput, err)

		case errors.Is(err, createBooking.ErrInvalidPaymentOption):
			handlers.RespondBadRequest(w, msgInvalidPayment)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrOutsideBusinessHours):
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrInvalidDuration):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createBooking.ErrSlotBeingBooked):
			h.logger.Warn("POST /appointments - Slot locked: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotBeingBooked)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /appointments - Slot not available: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: service_id=%s, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s",
		result.Appointment.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
