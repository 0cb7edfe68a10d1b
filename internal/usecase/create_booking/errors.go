package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrConsentRequired возвращается без согласия на обработку персональных данных
	ErrConsentRequired = fmt.Errorf("%w: create_booking: RGPD consent is required", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrValidation)

	// ErrInvalidPaymentOption возвращается при неизвестном способе оплаты
	ErrInvalidPaymentOption = fmt.Errorf("%w: create_booking: invalid payment option", domain.ErrValidation)

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = fmt.Errorf("%w: create_booking: service not found", domain.ErrNotFound)

	// ErrInvalidDuration возвращается, когда длительность услуги вне [30, 480]
	ErrInvalidDuration = fmt.Errorf("%w: create_booking: invalid service duration", domain.ErrInvalidRequest)

	// ErrDateInPast возвращается при попытке записи на прошедшую дату
	ErrDateInPast = fmt.Errorf("%w: create_booking: cannot book in the past", domain.ErrInvalidRequest)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advance_booking_months
	ErrDateTooFarInFuture = fmt.Errorf("%w: create_booking: date is too far in the future", domain.ErrInvalidRequest)

	// ErrOutsideBusinessHours возвращается, когда слот выходит за 09:00-18:00
	ErrOutsideBusinessHours = fmt.Errorf("%w: create_booking: slot is outside business hours", domain.ErrInvalidRequest)

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = fmt.Errorf("%w: create_booking: slot no longer available", domain.ErrConflict)

	// ErrSlotBeingBooked возвращается, когда этот день сейчас бронирует другой запрос
	ErrSlotBeingBooked = fmt.Errorf("%w: create_booking: slot is being booked, retry later", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
