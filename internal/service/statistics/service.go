package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/statistics/models"
)

// Service сервис статистики записей. Только чтение, без кеширования.
type Service struct {
	statsRepo    StatisticsRepository
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса статистики
func NewService(
	statsRepo StatisticsRepository,
	txManager TransactionManager,
	timezone string,
	logger Logger,
) *Service {
	return &Service{
		statsRepo:    statsRepo,
		txManager:    txManager,
		location:     domain.Location(timezone),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Get возвращает все агрегаты периода в одной read-only транзакции
func (s *Service) Get(ctx context.Context, req *models.PeriodRequest) (*models.StatsResponse, error) {
	period, err := s.resolvePeriod(req)
	if err != nil {
		s.logger.Warn("Get: invalid period: %v", err)
		return nil, err
	}

	s.logger.Info("Get: statistics for %s..%s",
		period.Start.Format(domain.DateFormat), period.End.Format(domain.DateFormat))

	var (
		overview  *domain.Overview
		byService []domain.ServiceStats
		daily     []domain.DailyStats
	)
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if overview, err = s.statsRepo.Overview(txCtx, period.Start, period.End); err != nil {
			return fmt.Errorf("overview: %w", err)
		}
		if byService, err = s.statsRepo.ByService(txCtx, period.Start, period.End); err != nil {
			return fmt.Errorf("by service: %w", err)
		}
		if daily, err = s.statsRepo.Daily(txCtx, period.Start, period.End); err != nil {
			return fmt.Errorf("daily: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return &models.StatsResponse{
		Period:    periodResponse(period),
		Overview:  models.FromDomainOverview(overview),
		ByService: models.FromDomainServiceStats(byService),
		Daily:     models.FromDomainDailyStats(daily),
	}, nil
}

// Overview общие показатели за период.
// Выручка считается только по оплаченным записям.
func (s *Service) Overview(ctx context.Context, req *models.PeriodRequest) (*models.OverviewResponse, error) {
	period, err := s.resolvePeriod(req)
	if err != nil {
		s.logger.Warn("Overview: invalid period: %v", err)
		return nil, err
	}

	overview, err := s.statsRepo.Overview(ctx, period.Start, period.End)
	if err != nil {
		s.logger.Error("Overview: repository error: %v", err)
		return nil, fmt.Errorf("%w: Overview - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainOverview(overview)
	return &resp, nil
}

// ByService показатели по услугам, по убыванию количества записей
func (s *Service) ByService(ctx context.Context, req *models.PeriodRequest) ([]models.ServiceStatsResponse, error) {
	period, err := s.resolvePeriod(req)
	if err != nil {
		s.logger.Warn("ByService: invalid period: %v", err)
		return nil, err
	}

	stats, err := s.statsRepo.ByService(ctx, period.Start, period.End)
	if err != nil {
		s.logger.Error("ByService: repository error: %v", err)
		return nil, fmt.Errorf("%w: ByService - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceStats(stats), nil
}

// Daily показатели по дням, в хронологическом порядке
func (s *Service) Daily(ctx context.Context, req *models.PeriodRequest) ([]models.DailyStatsResponse, error) {
	period, err := s.resolvePeriod(req)
	if err != nil {
		s.logger.Warn("Daily: invalid period: %v", err)
		return nil, err
	}

	stats, err := s.statsRepo.Daily(ctx, period.Start, period.End)
	if err != nil {
		s.logger.Error("Daily: repository error: %v", err)
		return nil, fmt.Errorf("%w: Daily - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDailyStats(stats), nil
}

// resolvePeriod подставляет последние 30 дней вместо пустых границ
func (s *Service) resolvePeriod(req *models.PeriodRequest) (domain.DateRange, error) {
	today := domain.Today(s.timeProvider.Now(), s.location)

	period := domain.DateRange{
		Start: today.AddDate(0, 0, -domain.DefaultStatsPeriodDays),
		End:   today,
	}
	if req != nil && req.StartDate != nil {
		period.Start = domain.DateOnly(*req.StartDate)
	}
	if req != nil && req.EndDate != nil {
		period.End = domain.DateOnly(*req.EndDate)
	}

	if period.Start.After(period.End) {
		return period, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod,
			period.Start.Format(domain.DateFormat), period.End.Format(domain.DateFormat))
	}

	return period, nil
}

func periodResponse(p domain.DateRange) models.PeriodResponse {
	return models.PeriodResponse{
		StartDate: p.Start.Format(domain.DateFormat),
		EndDate:   p.End.Format(domain.DateFormat),
	}
}
