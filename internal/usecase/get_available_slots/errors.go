package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidDate возвращается, когда дата не указана
	ErrInvalidDate = fmt.Errorf("%w: get_available_slots: date is required", domain.ErrValidation)

	// ErrInvalidDuration возвращается при длительности вне [30, 480]
	ErrInvalidDuration = fmt.Errorf("%w: get_available_slots: duration must be between %d and %d minutes",
		domain.ErrInvalidRequest, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = fmt.Errorf("%w: get_available_slots: service not found", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
