package cancel_booking

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest() *models.CancelRequest {
	return &models.CancelRequest{
		Reason: r.Reason,
	}
}
