package get_effective_hours

import (
	"context"

	getEffectiveHours "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_effective_hours"
)

type GetEffectiveHoursUseCase interface {
	Execute(ctx context.Context, req *getEffectiveHours.Request) (*getEffectiveHours.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
