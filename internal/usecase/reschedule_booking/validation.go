package reschedule_booking

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// rescheduleInput правила проверки полей запроса
type rescheduleInput struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	NewStartTime  string `json:"newStartTime" validate:"required,hhmm"`
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	input := rescheduleInput{
		AppointmentID: req.AppointmentID,
		NewStartTime:  req.NewStartTime.String(),
	}
	if err := validation.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}

// validateNewSlot проверяет новую дату и время в часовом поясе записи
func validateNewSlot(date time.Time, startTime types.TimeString, duration int, loc *time.Location, now time.Time, advanceBookingMonths int) error {
	today := domain.Today(now, loc)
	if date.Before(today) {
		return ErrDateInPast
	}

	if advanceBookingMonths > 0 && date.After(today.AddDate(0, advanceBookingMonths, 0)) {
		return fmt.Errorf("%w: can only book %d months in advance", ErrDateTooFarInFuture, advanceBookingMonths)
	}

	if !domain.WithinBusinessHours(startTime, duration) {
		return fmt.Errorf("%w: %s + %d minutes", ErrOutsideBusinessHours, startTime, duration)
	}

	start, err := startTime.On(date, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: start time %s has already passed", ErrDateInPast, startTime)
	}

	return nil
}

// checkConflict проверяет занятость нового слота без учета самой переносимой записи
func (uc *UseCase) checkConflict(ctx context.Context, appointment *domain.Appointment, date time.Time, startTime types.TimeString) error {
	if uc.options.ConflictMode == domain.ConflictModeExact {
		taken, err := uc.appointmentRepo.ExistsActiveAt(ctx, date, startTime, appointment.AppointmentID)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %w", ErrInternal, err)
		}
		if taken {
			return ErrSlotNotAvailable
		}
		return nil
	}

	existing, err := uc.appointmentRepo.GetActiveByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	conflict, err := domain.FindOverlapping(startTime, appointment.Service.DurationMinutes, existing, appointment.AppointmentID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if conflict != nil {
		return fmt.Errorf("%w: overlaps %s", ErrSlotNotAvailable, conflict.AppointmentID)
	}

	return nil
}
