package list_exceptions

import (
	"context"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

type AvailabilityService interface {
	ListExceptions(ctx context.Context, businessID string, from *time.Time) (*models.ExceptionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
