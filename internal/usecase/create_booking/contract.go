package create_booking

import (
	"context"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockBusinessDate(ctx context.Context, businessID string, date time.Time) error
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetWeekly(ctx context.Context, businessID string, dayOfWeek int) (*domain.WeeklyAvailability, error)
	GetException(ctx context.Context, businessID string, date time.Time) (*domain.AvailabilityException, error)
}

// OutboxRepository интерфейс для записи событий уведомлений
type OutboxRepository interface {
	Add(ctx context.Context, event *domain.OutboxEvent) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Add(ctx context.Context, entry *domain.AuditEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики бронирований
type Metrics interface {
	IncBookingCreated()
	IncBookingConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// IDGenerator генерирует идентификаторы новых записей
type IDGenerator func() string

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
