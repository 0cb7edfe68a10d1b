package get_available_slots

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// validateDuration проверяет длительность услуги
func validateDuration(minutes int) error {
	if !domain.IsValidServiceDuration(minutes) {
		return ErrInvalidDuration
	}
	return nil
}
