package update_availability

import (
	"context"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

type AvailabilityService interface {
	UpdateWeeklySchedule(ctx context.Context, req *models.UpdateWeeklyScheduleRequest) (*models.WeeklyScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
