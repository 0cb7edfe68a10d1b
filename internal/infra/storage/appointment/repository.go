package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const codeUniqueViolation = "23505"

// Repository репозиторий записей на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись.
// Нарушение уникального индекса активного слота возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values, err := writeValues(a)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %w", ErrEncode, err)
	}
	values["created_at"] = a.CreatedAt

	query, args, err := psqlbuilder.Insert(tableName).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return nil, mapWriteError("Create", err)
	}

	return a, nil
}

// GetByID получает запись по публичному идентификатору.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From(tableName).
		Where(squirrel.Eq{"appointment_id": appointmentID})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAppointmentNotFound, appointmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// Update перезаписывает документ целиком по appointment_id
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values, err := writeValues(a)
	if err != nil {
		return fmt.Errorf("%w: Update: %w", ErrEncode, err)
	}
	delete(values, "appointment_id")

	query, args, err := psqlbuilder.Update(tableName).
		SetMap(values).
		Where(squirrel.Eq{"appointment_id": a.AppointmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("Update", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrAppointmentNotFound, a.AppointmentID)
	}

	return nil
}

// ExistsActiveAt проверяет, занят ли слот (дата, время начала) записью pending/confirmed.
// excludeID позволяет не учитывать переносимую запись.
func (r *Repository) ExistsActiveAt(ctx context.Context, date time.Time, startTime types.TimeString, excludeID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{
			"booking_date": date.Format(domain.DateFormat),
			"start_time":   startTime,
			"status":       activeStatuses(),
		}).
		Limit(1)

	if excludeID != "" {
		builder = builder.Where(squirrel.NotEq{"appointment_id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveAt - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveAt - scan: %w", ErrScanRow, err)
	}

	return true, nil
}

// GetActiveByDate возвращает записи pending/confirmed на дату, по времени начала.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetActiveByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From(tableName).
		Where(squirrel.Eq{
			"booking_date": date.Format(domain.DateFormat),
			"status":       activeStatuses(),
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryAppointments(ctx, executor, "GetActiveByDate", query, args)
}

// List возвращает страницу записей по фильтру и общее количество
func (r *Repository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Appointment, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	conditions := listConditions(filter)

	countBuilder := psqlbuilder.Select("COUNT(*)").From(tableName)
	selectBuilder := psqlbuilder.Select(appointmentColumns...).From(tableName)
	if len(conditions) > 0 {
		countBuilder = countBuilder.Where(conditions)
		selectBuilder = selectBuilder.Where(conditions)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count: %w", ErrScanRow, err)
	}

	query, args, err := selectBuilder.
		OrderBy("booking_date DESC", "start_time DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	appointments, err := r.queryAppointments(ctx, executor, "List", query, args)
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

func (r *Repository) queryAppointments(ctx context.Context, executor DBExecutor, op, query string, args []any) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan: %w", ErrScanRow, op, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrExecQuery, op, err)
	}

	return appointments, nil
}

func listConditions(filter domain.ListFilter) squirrel.And {
	conditions := squirrel.And{}

	if filter.Status != nil {
		conditions = append(conditions, squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.StartDate != nil {
		conditions = append(conditions, squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		conditions = append(conditions, squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		conditions = append(conditions, squirrel.Or{
			squirrel.ILike{"client_first_name": pattern},
			squirrel.ILike{"client_last_name": pattern},
			squirrel.ILike{"client_email": pattern},
			squirrel.ILike{"appointment_id": pattern},
		})
	}

	return conditions
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// mapWriteError переводит нарушения уникальности в доменные ошибки репозитория.
// Исходная ошибка сохраняется в цепочке, чтобы менеджер транзакций видел код SQLSTATE.
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
		switch pqErr.Constraint {
		case activeSlotIndex:
			return fmt.Errorf("%w: %s", ErrSlotTaken, op)
		case appointmentIDKey:
			return fmt.Errorf("%w: %s", ErrDuplicateID, op)
		}
	}
	return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
}
