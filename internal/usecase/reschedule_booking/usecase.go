package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
)

// UseCase use case для переноса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	locker          SlotLocker
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	locker SlotLocker,
	options Options,
	logger Logger,
) *UseCase {
	if !options.ConflictMode.IsValid() {
		options.ConflictMode = domain.ConflictModeOverlap
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		locker:          locker,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит запись на новую дату и время.
// Статус записи не меняется, в журнал добавляется запись reschedule.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: id=%s, newDate=%s, newTime=%s",
		req.AppointmentID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	// 1. Валидация входных данных
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	newDate := domain.DateOnly(req.NewDate)

	// 2. Перенос под блокировкой нового дня
	var (
		result *domain.Appointment
		ics    string
	)
	err := uc.locker.WithLock(ctx, newDate.Format(domain.DateFormat), func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
					return ErrAppointmentNotFound
				}
				return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
			}

			if !appointment.CanBeRescheduled(now) {
				return fmt.Errorf("%w: status=%s", ErrCannotReschedule, appointment.Status)
			}

			loc := domain.Location(appointment.DateTime.Timezone)
			if err := validateNewSlot(newDate, req.NewStartTime, appointment.Service.DurationMinutes,
				loc, now, uc.options.AdvanceBookingMonths); err != nil {
				return err
			}

			if err := uc.checkConflict(txCtx, appointment, newDate, req.NewStartTime); err != nil {
				return err
			}

			oldStart, err := appointment.DateTime.Start()
			if err != nil {
				return fmt.Errorf("%w: old start: %v", ErrInternal, err)
			}

			appointment.DateTime.Date = newDate
			appointment.DateTime.StartTime = req.NewStartTime
			if err := appointment.Normalize(); err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}

			newStart, err := appointment.DateTime.Start()
			if err != nil {
				return fmt.Errorf("%w: new start: %v", ErrInternal, err)
			}

			appointment.AppendModification(domain.Modification{
				Type:        domain.ModificationReschedule,
				Reason:      req.Reason,
				OldDateTime: &oldStart,
				NewDateTime: &newStart,
				ModifiedAt:  now,
				ModifiedBy:  domain.ModifiedByClient,
			})
			appointment.UpdatedAt = now

			// Календарное событие до сохранения: ошибка откатывает перенос
			rendered, err := appointment.ICS(now, uc.options.ICSDomain)
			if err != nil {
				return fmt.Errorf("%w: render ICS: %v", ErrInternal, err)
			}

			if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotTaken) {
					return ErrSlotNotAvailable
				}
				return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
			}

			result = appointment
			ics = rendered
			return nil
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, slotlock.ErrLockNotAcquired):
			uc.logger.Warn("RescheduleBooking: date=%s is locked by another request", newDate.Format(domain.DateFormat))
			return nil, ErrSlotBeingBooked
		case errors.Is(err, ErrInternal):
			uc.logger.Error("RescheduleBooking: id=%s: %v", req.AppointmentID, err)
			return nil, err
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidState),
			errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrConflict),
			errors.Is(err, domain.ErrValidation):
			uc.logger.Warn("RescheduleBooking: id=%s rejected: %v", req.AppointmentID, err)
			return nil, err
		default:
			uc.logger.Error("RescheduleBooking: transaction failed for id=%s: %v", req.AppointmentID, err)
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}

	uc.logger.Info("RescheduleBooking: successfully moved id=%s to %s %s",
		result.AppointmentID, newDate.Format(domain.DateFormat), req.NewStartTime)

	return &Response{
		Appointment: result,
		ICS:         ics,
	}, nil
}
