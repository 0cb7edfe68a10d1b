package reschedule_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: reschedule_booking: invalid input data", domain.ErrValidation)

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: reschedule_booking: appointment not found", domain.ErrNotFound)

	// ErrCannotReschedule возвращается для неактивной записи или менее чем за 48 часов до начала
	ErrCannotReschedule = fmt.Errorf("%w: reschedule_booking: appointment cannot be rescheduled (48h minimum notice)", domain.ErrInvalidState)

	// ErrDateInPast возвращается при переносе на прошедшую дату
	ErrDateInPast = fmt.Errorf("%w: reschedule_booking: cannot reschedule to the past", domain.ErrInvalidRequest)

	// ErrDateTooFarInFuture возвращается, когда новая дата дальше горизонта записи
	ErrDateTooFarInFuture = fmt.Errorf("%w: reschedule_booking: date is too far in the future", domain.ErrInvalidRequest)

	// ErrOutsideBusinessHours возвращается, когда новый слот выходит за 09:00-18:00
	ErrOutsideBusinessHours = fmt.Errorf("%w: reschedule_booking: slot is outside business hours", domain.ErrInvalidRequest)

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = fmt.Errorf("%w: reschedule_booking: new slot not available", domain.ErrConflict)

	// ErrSlotBeingBooked возвращается, когда день сейчас бронирует другой запрос
	ErrSlotBeingBooked = fmt.Errorf("%w: reschedule_booking: slot is being booked, retry later", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
