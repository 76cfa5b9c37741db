package delete_exception

import (
	"context"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

type AvailabilityService interface {
	DeleteException(ctx context.Context, req *models.DeleteExceptionRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
