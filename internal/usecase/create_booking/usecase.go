package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         ServiceCatalog
	txManager       TransactionManager
	locker          SlotLocker
	idGenerator     IDGenerator
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog ServiceCatalog,
	txManager TransactionManager,
	locker SlotLocker,
	idGenerator IDGenerator,
	options Options,
	logger Logger,
) *UseCase {
	if !options.ConflictMode.IsValid() {
		options.ConflictMode = domain.ConflictModeOverlap
	}
	if options.Timezone == "" {
		options.Timezone = domain.DefaultTimezone
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		txManager:       txManager,
		locker:          locker,
		idGenerator:     idGenerator,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка слота и запись выполняются под блокировкой дня в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%s, date=%s, time=%s, payment=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.PaymentOption)

	// 1. Валидация входных данных
	req.Client = normalizeClient(req.Client)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalog.Get(req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !domain.IsValidServiceDuration(service.DurationMinutes) {
		uc.logger.Warn("CreateBooking: service id=%s has invalid duration=%d", service.ID, service.DurationMinutes)
		return nil, ErrInvalidDuration
	}

	// 4. Проверяем дату и время
	timezone := req.Timezone
	if timezone == "" {
		timezone = uc.options.Timezone
	}
	loc := domain.Location(timezone)
	date := domain.DateOnly(req.Date)
	today := domain.Today(now, loc)

	if err := validateDate(date, today, uc.options.AdvanceBookingMonths); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	if err := validateStartTime(date, req.StartTime, service.DurationMinutes, loc, now); err != nil {
		uc.logger.Warn("CreateBooking: start time validation failed: %v", err)
		return nil, err
	}

	// 5. Собираем запись
	appointment := &domain.Appointment{
		AppointmentID: uc.idGenerator.NewAppointmentID(now),
		Service:       service.Snapshot(),
		DateTime: domain.DateTime{
			Date:      date,
			StartTime: req.StartTime,
			Timezone:  timezone,
		},
		Client:  req.Client,
		Status:  domain.StatusPending,
		Payment: domain.NewPayment(req.PaymentOption, service.Price),
		Metadata: domain.Metadata{
			Source:             req.Metadata.Source,
			UserAgent:          req.Metadata.UserAgent,
			IPAddress:          req.Metadata.IPAddress,
			Referrer:           req.Metadata.Referrer,
			ConversionSource:   req.Metadata.ConversionSource,
			CampaignID:         req.Metadata.CampaignID,
			RGPDConsent:        true,
			ConsentDate:        now,
			DataRetentionUntil: domain.RetentionDeadline(now),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if appointment.Metadata.Source == "" {
		appointment.Metadata.Source = domain.DefaultSource
	}

	if err := appointment.Normalize(); err != nil {
		uc.logger.Error("CreateBooking: failed to normalize appointment: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 6. Календарное событие строим до записи в базу
	ics, err := appointment.ICS(now, uc.options.ICSDomain)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to render ICS for id=%s: %v", appointment.AppointmentID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 7. Проверяем слот и сохраняем
	var result *domain.Appointment
	err = uc.locker.WithLock(ctx, date.Format(domain.DateFormat), func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			if err := uc.checkConflict(txCtx, date, req.StartTime, service.DurationMinutes); err != nil {
				return err
			}

			created, err := uc.appointmentRepo.Create(txCtx, appointment)
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotTaken) {
					return ErrSlotNotAvailable
				}
				return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, slotlock.ErrLockNotAcquired):
			uc.logger.Warn("CreateBooking: date=%s is locked by another request", date.Format(domain.DateFormat))
			return nil, ErrSlotBeingBooked
		case errors.Is(err, domain.ErrConflict):
			uc.logger.Warn("CreateBooking: slot date=%s time=%s not available: %v",
				date.Format(domain.DateFormat), req.StartTime, err)
			return nil, err
		case errors.Is(err, domain.ErrValidation):
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%s", result.AppointmentID)

	return &Response{
		Appointment: result,
		ICS:         ics,
	}, nil
}
