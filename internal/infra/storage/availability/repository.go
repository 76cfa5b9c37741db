package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/psqlbuilder"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

var weeklyColumns = []string{
	"business_id",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_duration",
	"buffer_time",
	"is_available",
	"created_at",
	"updated_at",
}

var exceptionColumns = []string{
	"business_id",
	"date",
	"is_available",
	"start_time",
	"end_time",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания и исключений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeekly получает расписание бизнеса на день недели
func (r *Repository) GetWeekly(ctx context.Context, businessID string, dayOfWeek int) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From("weekly_availability").
		Where(squirrel.Eq{"business_id": businessID, "day_of_week": dayOfWeek}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - build select query: %v", ErrBuildQuery, err)
	}

	w, err := scanWeekly(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWeeklyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeekly - scan row: %v", ErrScanRow, err)
	}

	return w, nil
}

// ListWeekly получает все сохраненные дни недели бизнеса, отсортированные по dayOfWeek
func (r *Repository) ListWeekly(ctx context.Context, businessID string) ([]*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From("weekly_availability").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklyAvailability, 0, domain.DaysInWeek)
	for rows.Next() {
		w, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWeekly - scan row: %v", ErrScanRow, err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertWeekly создает или заменяет расписание на день недели
func (r *Repository) UpsertWeekly(ctx context.Context, w *domain.WeeklyAvailability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekly_availability").
		Columns("business_id", "day_of_week", "start_time", "end_time", "slot_duration", "buffer_time", "is_available").
		Values(w.BusinessID, w.DayOfWeek, w.StartTime, w.EndTime, w.SlotDurationMinutes, w.BufferMinutes, w.IsAvailable).
		Suffix(`ON CONFLICT (business_id, day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration = EXCLUDED.slot_duration,
			buffer_time = EXCLUDED.buffer_time,
			is_available = EXCLUDED.is_available,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.CreatedAt, &w.UpdatedAt); err != nil {
		return fmt.Errorf("%w: UpsertWeekly - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetException получает исключение на дату
func (r *Repository) GetException(ctx context.Context, businessID string, date time.Time) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("availability_exceptions").
		Where(squirrel.Eq{"business_id": businessID, "date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetException - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanException(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetException - scan row: %v", ErrScanRow, err)
	}

	return e, nil
}

// ListExceptions получает исключения бизнеса, начиная с from (если указано)
func (r *Repository) ListExceptions(ctx context.Context, businessID string, from *time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(exceptionColumns...).
		From("availability_exceptions").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("date ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.AvailabilityException, 0)
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExceptions - scan row: %v", ErrScanRow, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertException создает или заменяет исключение на дату
func (r *Repository) UpsertException(ctx context.Context, e *domain.AvailabilityException) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_exceptions").
		Columns("business_id", "date", "is_available", "start_time", "end_time", "reason").
		Values(e.BusinessID, e.Date.Format(domain.DateFormat), e.IsAvailable, nullableTime(e.StartTime), nullableTime(e.EndTime), e.Reason).
		Suffix(`ON CONFLICT (business_id, date) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			reason = EXCLUDED.reason,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertException - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("%w: UpsertException - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteException удаляет исключение на дату
func (r *Repository) DeleteException(ctx context.Context, businessID string, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_exceptions").
		Where(squirrel.Eq{"business_id": businessID, "date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWeekly(row rowScanner) (*domain.WeeklyAvailability, error) {
	var w domain.WeeklyAvailability
	err := row.Scan(
		&w.BusinessID,
		&w.DayOfWeek,
		&w.StartTime,
		&w.EndTime,
		&w.SlotDurationMinutes,
		&w.BufferMinutes,
		&w.IsAvailable,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func scanException(row rowScanner) (*domain.AvailabilityException, error) {
	var (
		e          domain.AvailabilityException
		start, end sql.NullString
		reason     sql.NullString
	)

	err := row.Scan(
		&e.BusinessID,
		&e.Date,
		&e.IsAvailable,
		&start,
		&end,
		&reason,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if e.StartTime, err = timeFromNull(start); err != nil {
		return nil, err
	}
	if e.EndTime, err = timeFromNull(end); err != nil {
		return nil, err
	}
	if reason.Valid {
		e.Reason = &reason.String
	}

	return &e, nil
}

func timeFromNull(v sql.NullString) (*types.TimeString, error) {
	if !v.Valid {
		return nil, nil
	}
	var ts types.TimeString
	if err := ts.Scan(v.String); err != nil {
		return nil, err
	}
	return &ts, nil
}

func nullableTime(t *types.TimeString) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}
