package statistics

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// StatisticsRepository агрегаты по записям за период
type StatisticsRepository interface {
	Overview(ctx context.Context, start, end time.Time) (*domain.Overview, error)
	ByService(ctx context.Context, start, end time.Time) ([]domain.ServiceStats, error)
	Daily(ctx context.Context, start, end time.Time) ([]domain.DailyStats, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
