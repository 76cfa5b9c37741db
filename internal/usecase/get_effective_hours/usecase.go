package get_effective_hours

import (
	"context"
	"errors"
	"fmt"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	availabilityRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/availability"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
)

// UseCase use case для вычисления часов работы бизнеса на дату
type UseCase struct {
	businessRepo     BusinessRepository
	availabilityRepo AvailabilityRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	availabilityRepo AvailabilityRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:     businessRepo,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
}

// Execute выполняет use case. Закрытый день - это нормальный результат, а не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.BusinessID == "" {
		return nil, fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	uc.logger.Info("GetEffectiveHours: business=%s, date=%s", req.BusinessID, req.Date.Format(domain.DateFormat))

	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetEffectiveHours: business=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetEffectiveHours: failed to get business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	weekly, err := uc.availabilityRepo.GetWeekly(ctx, req.BusinessID, int(req.Date.Weekday()))
	if err != nil && !errors.Is(err, availabilityRepo.ErrWeeklyNotFound) {
		uc.logger.Error("GetEffectiveHours: failed to get weekly schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
	}

	exception, err := uc.availabilityRepo.GetException(ctx, req.BusinessID, req.Date)
	if err != nil && !errors.Is(err, availabilityRepo.ErrExceptionNotFound) {
		uc.logger.Error("GetEffectiveHours: failed to get exception: %v", err)
		return nil, fmt.Errorf("%w: failed to get exception: %v", ErrInternal, err)
	}

	hours := scheduling.ResolveEffectiveHours(req.Date, weekly, exception)

	uc.logger.Info("GetEffectiveHours: business=%s, date=%s, open=%t", req.BusinessID, req.Date.Format(domain.DateFormat), hours.IsOpen)
	return &Response{Hours: hours}, nil
}
