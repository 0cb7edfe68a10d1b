package confirm_booking

import (
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ConfirmBookingRequest HTTP request model, тело может отсутствовать
type ConfirmBookingRequest struct {
	PaymentReference string `json:"paymentReference,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ConfirmBookingRequest) ToServiceRequest() *models.ConfirmRequest {
	req := &models.ConfirmRequest{}
	if ref := strings.TrimSpace(r.PaymentReference); ref != "" {
		req.PaymentReference = &ref
	}
	return req
}
