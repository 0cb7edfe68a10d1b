package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// UseCase use case для получения слотов дня
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         ServiceCatalog
	timezone        string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog ServiceCatalog,
	timezone string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		timezone:        timezone,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Прошедшие даты здесь не отклоняются, это делает вызывающая сторона.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, duration=%d, service=%s",
		req.Date.Format(domain.DateFormat), req.DurationMinutes, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Длительность берется из услуги, если она указана
	duration := req.DurationMinutes
	if req.ServiceID != "" {
		service, err := uc.catalog.Get(req.ServiceID)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		duration = service.DurationMinutes
	}

	if err := validateDuration(duration); err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid duration=%d", duration)
		return nil, err
	}

	date := domain.DateOnly(req.Date)

	// 3. Получаем активные записи на дату
	existing, err := uc.appointmentRepo.GetActiveByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for date=%s: %v",
			date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	// 4. Строим слоты
	slots := slices.Collect(Slots(duration, existing))

	uc.logger.Info("GetAvailableSlots: date=%s, generated %d slots, %d existing appointments",
		date.Format(domain.DateFormat), len(slots), len(existing))

	return &Response{
		Date:            date,
		Timezone:        uc.timezone,
		DurationMinutes: duration,
		Slots:           slots,
	}, nil
}
