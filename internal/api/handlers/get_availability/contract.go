package get_availability

import (
	"context"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

type AvailabilityService interface {
	GetWeeklySchedule(ctx context.Context, businessID string) (*models.WeeklyScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
