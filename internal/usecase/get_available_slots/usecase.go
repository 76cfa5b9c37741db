package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	availabilityRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/availability"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	bookingRepo      BookingRepository
	businessRepo     BusinessRepository
	availabilityRepo AvailabilityRepository
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	availabilityRepo AvailabilityRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		businessRepo:     businessRepo,
		availabilityRepo: availabilityRepo,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%s, date=%s, duration=%d",
		req.BusinessID, req.Date.Format(domain.DateFormat), req.ServiceDuration)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 3. Бизнес существует
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Часы работы на дату
	hours, err := uc.loadEffectiveHours(ctx, req)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Date:       req.Date,
		BusinessID: req.BusinessID,
		IsOpen:     hours.IsOpen,
		Message:    hours.Message,
		Slots:      []domain.Slot{},
	}

	if !hours.IsOpen {
		uc.metrics.IncSlotLookup(false)
		uc.logger.Info("GetAvailableSlots: business=%s closed on %s: %s",
			req.BusinessID, req.Date.Format(domain.DateFormat), hours.Message)
		return response, nil
	}

	// 5. Активные бронирования на дату
	date := req.Date
	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(ctx, domain.BookingsFilter{
		BusinessID: req.BusinessID,
		Date:       &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Генерация кандидатов и отсечение прошедших (только для сегодняшней даты)
	slots, err := scheduling.GenerateSlots(hours, req.ServiceDuration, scheduling.BookedRanges(bookings))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	response.Slots = scheduling.DropPastSlots(slots, req.Date, now)

	uc.metrics.IncSlotLookup(true)
	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%s, date=%s",
		len(response.Slots), req.BusinessID, req.Date.Format(domain.DateFormat))

	return response, nil
}

func (uc *UseCase) loadEffectiveHours(ctx context.Context, req *Request) (domain.EffectiveHours, error) {
	weekly, err := uc.availabilityRepo.GetWeekly(ctx, req.BusinessID, int(req.Date.Weekday()))
	if err != nil && !errors.Is(err, availabilityRepo.ErrWeeklyNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get weekly schedule: %v", err)
		return domain.EffectiveHours{}, fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
	}

	exception, err := uc.availabilityRepo.GetException(ctx, req.BusinessID, req.Date)
	if err != nil && !errors.Is(err, availabilityRepo.ErrExceptionNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get exception: %v", err)
		return domain.EffectiveHours{}, fmt.Errorf("%w: failed to get exception: %v", ErrInternal, err)
	}

	return scheduling.ResolveEffectiveHours(req.Date, weekly, exception), nil
}
