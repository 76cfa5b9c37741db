package audit

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/psqlbuilder"
)

// Repository журнал аудита (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Add добавляет запись в журнал
func (r *Repository) Add(ctx context.Context, entry *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	details := []byte(entry.Details)
	if len(details) == 0 {
		details = []byte("{}")
	}

	query, args, err := psqlbuilder.Insert("audit_log").
		Columns("id", "actor_id", "action", "entity_type", "entity_id", "details", "created_at").
		Values(entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, details, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Add - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// ListByEntity возвращает записи по сущности в хронологическом порядке
func (r *Repository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "actor_id", "action", "entity_type", "entity_id", "details", "created_at").
		From("audit_log").
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		var (
			e       domain.AuditEntry
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByEntity - scan row: %v", ErrScanRow, err)
		}
		e.Details = details
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
