package availability

import (
	"context"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	ListWeekly(ctx context.Context, businessID string) ([]*domain.WeeklyAvailability, error)
	UpsertWeekly(ctx context.Context, w *domain.WeeklyAvailability) error
	ListExceptions(ctx context.Context, businessID string, from *time.Time) ([]*domain.AvailabilityException, error)
	UpsertException(ctx context.Context, e *domain.AvailabilityException) error
	DeleteException(ctx context.Context, businessID string, date time.Time) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Add(ctx context.Context, entry *domain.AuditEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
