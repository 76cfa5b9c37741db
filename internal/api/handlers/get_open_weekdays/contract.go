package get_open_weekdays

import (
	"context"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

type AvailabilityService interface {
	GetOpenWeekdays(ctx context.Context, businessID string) (*models.OpenWeekdaysResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
