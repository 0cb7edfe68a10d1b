package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInvalidRating возвращается, когда оценка вне диапазона 1..5
	ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = fmt.Errorf("%w: invalid appointment status", domain.ErrValidation)

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = fmt.Errorf("%w: start date must not be after end date", domain.ErrInvalidRequest)

	// ErrCannotConfirm возвращается при подтверждении записи не в статусе pending
	ErrCannotConfirm = fmt.Errorf("%w: only pending appointments can be confirmed", domain.ErrInvalidState)

	// ErrCannotCancel возвращается, когда запись не подтверждена или до начала меньше 24 часов
	ErrCannotCancel = fmt.Errorf("%w: appointment cannot be cancelled (24h minimum notice)", domain.ErrInvalidState)

	// ErrFeedbackNotAllowed возвращается при отзыве на незавершенную запись
	ErrFeedbackNotAllowed = fmt.Errorf("%w: feedback only allowed for completed appointments", domain.ErrInvalidState)

	// ErrInvalidTransition возвращается при недопустимом ручном переходе статуса
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", domain.ErrInvalidState)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
