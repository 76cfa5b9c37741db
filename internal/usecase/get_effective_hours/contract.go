package get_effective_hours

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
	GetWeekly(ctx context.Context, businessID string, dayOfWeek int) (*domain.WeeklyAvailability, error)
	GetException(ctx context.Context, businessID string, date time.Time) (*domain.AvailabilityException, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
