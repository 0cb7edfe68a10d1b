package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

func periodCondition(start, end time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"booking_date": start.Format(domain.DateFormat)},
		squirrel.LtOrEq{"booking_date": end.Format(domain.DateFormat)},
	}
}

// Overview считает общие показатели за период.
// Выручка учитывает только оплаченные записи.
func (r *Repository) Overview(ctx context.Context, start, end time.Time) (*domain.Overview, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'confirmed')",
		"COUNT(*) FILTER (WHERE status = 'cancelled')",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COALESCE(SUM(payment_amount) FILTER (WHERE payment_status = 'paid'), 0)",
		"AVG(feedback_rating)",
	).
		From(tableName).
		Where(periodCondition(start, end)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Overview - build query: %v", ErrBuildQuery, err)
	}

	var (
		o         domain.Overview
		avgRating sql.NullFloat64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.Total,
		&o.Confirmed,
		&o.Cancelled,
		&o.Completed,
		&o.Revenue,
		&avgRating,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Overview - scan: %w", ErrScanRow, err)
	}

	if avgRating.Valid {
		o.AverageRating = &avgRating.Float64
	}

	return &o, nil
}

// ByService группирует записи периода по названию услуги, по убыванию количества
func (r *Repository) ByService(ctx context.Context, start, end time.Time) ([]domain.ServiceStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"service_name",
		"COUNT(*) AS cnt",
		"COALESCE(SUM(payment_amount), 0)",
		"AVG(feedback_rating)",
	).
		From(tableName).
		Where(periodCondition(start, end)).
		GroupBy("service_name").
		OrderBy("cnt DESC", "service_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ByService - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ByService - execute: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]domain.ServiceStats, 0)
	for rows.Next() {
		var (
			s         domain.ServiceStats
			avgRating sql.NullFloat64
		)
		if err := rows.Scan(&s.ServiceName, &s.Count, &s.Revenue, &avgRating); err != nil {
			return nil, fmt.Errorf("%w: ByService - scan: %w", ErrScanRow, err)
		}
		if avgRating.Valid {
			rating := avgRating.Float64
			s.AverageRating = &rating
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ByService - rows iteration: %w", ErrExecQuery, err)
	}

	return stats, nil
}

// Daily группирует записи периода по дням, в хронологическом порядке
func (r *Repository) Daily(ctx context.Context, start, end time.Time) ([]domain.DailyStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"booking_date",
		"COUNT(*)",
		"COALESCE(SUM(payment_amount), 0)",
	).
		From(tableName).
		Where(periodCondition(start, end)).
		GroupBy("booking_date").
		OrderBy("booking_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Daily - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Daily - execute: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]domain.DailyStats, 0)
	for rows.Next() {
		var d domain.DailyStats
		if err := rows.Scan(&d.Date, &d.Count, &d.Revenue); err != nil {
			return nil, fmt.Errorf("%w: Daily - scan: %w", ErrScanRow, err)
		}
		d.Date = domain.DateOnly(d.Date)
		stats = append(stats, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Daily - rows iteration: %w", ErrExecQuery, err)
	}

	return stats, nil
}
