package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	ExistsActiveAt(ctx context.Context, date time.Time, startTime types.TimeString, excludeID string) (bool, error)
	GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
}

// ServiceCatalog каталог услуг
type ServiceCatalog interface {
	Get(id string) (catalog.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker распределенная блокировка дня на время проверки и записи
type SlotLocker interface {
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// IDGenerator генератор публичных идентификаторов записи
type IDGenerator interface {
	NewAppointmentID(now time.Time) string
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
