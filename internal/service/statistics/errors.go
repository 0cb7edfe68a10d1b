package statistics

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = fmt.Errorf("%w: start date must not be after end date", domain.ErrInvalidRequest)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("statistics: internal error")
)
