package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"business_id",
	"customer_id",
	"service_type",
	"appointment_date",
	"appointment_time",
	"duration",
	"status",
	"notes",
	"owner_notes",
	"rejection_reason",
	"confirmed_at",
	"completed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockBusinessDate берет транзакционную advisory-блокировку на пару (бизнес, дата).
// Блокировка снимается при завершении транзакции, поэтому вызывать только внутри неё.
func (r *Repository) LockBusinessDate(ctx context.Context, businessID string, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := businessID + ":" + date.Format(domain.DateFormat)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("%w: LockBusinessDate - acquire lock: %v", ErrExecQuery, err)
	}
	return nil
}

// Create сохраняет бронирование вместе с его историей статусов.
// Нарушение уникального индекса активных бронирований возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"business_id",
			"customer_id",
			"service_type",
			"appointment_date",
			"appointment_time",
			"duration",
			"status",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ID,
			booking.BusinessID,
			booking.CustomerID,
			booking.ServiceType,
			booking.AppointmentDate.Format(domain.DateFormat),
			booking.AppointmentTime,
			booking.DurationMinutes,
			booking.Status,
			booking.Notes,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if dbmetrics.IsUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	for _, entry := range booking.StatusHistory {
		if err := r.insertHistory(ctx, executor, booking.ID, entry); err != nil {
			return nil, err
		}
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с историей.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	// id в таблице UUID: строка другого формата не может существовать
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || dbmetrics.IsInvalidTextRepresentation(err) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.attachHistory(ctx, executor, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByCustomerID получает бронирования клиента. Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("appointment_date DESC, appointment_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetByCustomerID", query, args)
}

// GetByBusinessWithFilter получает бронирования бизнеса с фильтрацией.
//
// Если указана конкретная дата и вызов идет внутри транзакции, строки блокируются (FOR UPDATE):
// так создание бронирования видит стабильный набор занятых интервалов.
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.Date != nil {
		builder = builder.Where(squirrel.Eq{"appointment_date": filter.Date.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	if filter.Date != nil {
		builder = builder.OrderBy("appointment_time ASC")
	} else {
		builder = builder.OrderBy("appointment_date DESC, appointment_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetByBusinessWithFilter", query, args)
}

// UpdateStatus сохраняет результат перехода: статус, временные метки, заметки
// и последнюю запись истории
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("owner_notes", booking.OwnerNotes).
		Set("rejection_reason", booking.RejectionReason).
		Set("confirmed_at", booking.ConfirmedAt).
		Set("completed_at", booking.CompletedAt).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	if n := len(booking.StatusHistory); n > 0 {
		return r.insertHistory(ctx, executor, booking.ID, booking.StatusHistory[n-1])
	}
	return nil
}

func (r *Repository) insertHistory(ctx context.Context, executor DBExecutor, bookingID string, entry domain.StatusHistoryEntry) error {
	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns("booking_id", "status", "changed_at").
		Values(bookingID, entry.Status, entry.Timestamp).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertHistory - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) queryBookings(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	bookings, err := scanBookings(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.attachHistory(ctx, executor, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// attachHistory загружает историю статусов одним запросом для всех бронирований
func (r *Repository) attachHistory(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Booking, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select("booking_id", "status", "changed_at").
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("changed_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID string
			entry     domain.StatusHistoryEntry
		)
		if err := rows.Scan(&bookingID, &entry.Status, &entry.Timestamp); err != nil {
			return fmt.Errorf("%w: attachHistory - scan row: %v", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.StatusHistory = append(b.StatusHistory, entry)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachHistory - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                                     domain.Booking
		notes, ownerNotes, rejectionReason    sql.NullString
		confirmedAt, completedAt, cancelledAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.BusinessID,
		&b.CustomerID,
		&b.ServiceType,
		&b.AppointmentDate,
		&b.AppointmentTime,
		&b.DurationMinutes,
		&b.Status,
		&notes,
		&ownerNotes,
		&rejectionReason,
		&confirmedAt,
		&completedAt,
		&cancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Notes = stringPtr(notes)
	b.OwnerNotes = stringPtr(ownerNotes)
	b.RejectionReason = stringPtr(rejectionReason)
	b.ConfirmedAt = timePtr(confirmedAt)
	b.CompletedAt = timePtr(completedAt)
	b.CancelledAt = timePtr(cancelledAt)
	b.StatusHistory = make([]domain.StatusHistoryEntry, 0, 1)

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
