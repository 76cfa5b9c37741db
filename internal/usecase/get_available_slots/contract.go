package get_available_slots

import (
	"context"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
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

// Metrics счетчики поиска слотов
type Metrics interface {
	IncSlotLookup(isOpen bool)
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
