package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewDate      string `json:"newDate"`      // "2024-06-12"
	NewStartTime string `json:"newStartTime"` // "14:00"
	Reason       string `json:"reason,omitempty"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	ICS         string                      `json:"ics"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (req *RescheduleBookingRequest) ToUseCaseRequest(appointmentID string) (*rescheduleBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, req.NewDate)
	if err != nil {
		return nil, fmt.Errorf("parse new date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(req.NewStartTime)
	if err != nil {
		return nil, fmt.Errorf("parse new start time: %w", err)
	}

	return &rescheduleBooking.Request{
		AppointmentID: appointmentID,
		NewDate:       date,
		NewStartTime:  startTime,
		Reason:        req.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		Appointment: models.FromDomainAppointment(resp.Appointment, false),
		ICS:         resp.ICS,
	}
}
