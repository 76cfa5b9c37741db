package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	availabilityRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/availability"
	bookingRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/booking"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	businessRepo     BusinessRepository
	availabilityRepo AvailabilityRepository
	outboxRepo       OutboxRepository
	auditRepo        AuditRepository
	txManager        TransactionManager
	metrics          Metrics
	timeProvider     TimeProvider
	newID            IDGenerator
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	availabilityRepo AvailabilityRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		businessRepo:     businessRepo,
		availabilityRepo: availabilityRepo,
		outboxRepo:       outboxRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		newID:            uuid.NewString,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithIDGenerator подменяет генератор идентификаторов
func (uc *UseCase) WithIDGenerator(gen IDGenerator) *UseCase {
	uc.newID = gen
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка слота и вставка выполняются в сериализуемой транзакции
// под advisory lock на пару бизнес+дата.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%s, business=%s, date=%s, time=%s, duration=%d",
		req.CustomerID, req.BusinessID, req.Date.Format(domain.DateFormat), req.Time, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Время записи должно быть в будущем
	now := uc.timeProvider.Now()
	if err := validateAppointmentTime(req, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Владелец не может записаться к себе
	if business.IsOwner(req.CustomerID) {
		uc.logger.Warn("CreateBooking: owner=%s tried to book own business=%s", req.CustomerID, req.BusinessID)
		return nil, ErrSelfBooking
	}

	var result *domain.Booking

	// 5. Проверка слота и вставка в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Сериализуем конкурирующие записи на ту же дату
		if err := uc.bookingRepo.LockBusinessDate(txCtx, req.BusinessID, req.Date); err != nil {
			uc.logger.Error("CreateBooking: failed to lock business date: %v", err)
			return fmt.Errorf("%w: failed to lock business date: %v", ErrInternal, err)
		}

		// 5.2. Часы работы на дату
		hours, err := uc.loadEffectiveHours(txCtx, req)
		if err != nil {
			return err
		}
		if !hours.IsOpen {
			uc.logger.Warn("CreateBooking: business=%s is closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
			return fmt.Errorf("%w: %s", ErrBusinessClosed, hours.Message)
		}

		// 5.3. Активные бронирования на дату (FOR UPDATE внутри транзакции)
		date := req.Date
		existing, err := uc.bookingRepo.GetByBusinessWithFilter(txCtx, domain.BookingsFilter{
			BusinessID: req.BusinessID,
			Date:       &date,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get existing bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 5.4. Слот должен быть среди кандидатов и свободен
		slots, err := scheduling.GenerateSlots(hours, req.DurationMinutes, scheduling.BookedRanges(existing))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to generate slots: %v", err)
			return fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		slot, ok := scheduling.FindSlot(slots, req.Time)
		if !ok {
			uc.logger.Warn("CreateBooking: time %s is not a slot of business=%s on %s",
				req.Time, req.BusinessID, req.Date.Format(domain.DateFormat))
			return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, req.Time)
		}
		if !slot.Available {
			uc.logger.Warn("CreateBooking: slot %s on %s is already taken", req.Time, req.Date.Format(domain.DateFormat))
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, slot.Reason)
		}

		// 5.5. Создаем бронирование
		booking := domain.NewPendingBooking(
			uc.newID(),
			req.BusinessID,
			req.CustomerID,
			strings.TrimSpace(req.ServiceType),
			scheduling.DateOnly(req.Date),
			req.Time,
			req.DurationMinutes,
			req.Notes,
			now,
		)

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot %s on %s taken concurrently", req.Time, req.Date.Format(domain.DateFormat))
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.6. Аудит и событие для уведомлений
		if err := uc.recordSideEffects(txCtx, created, now); err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncBookingConflict()
		}
		return nil, err
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{Booking: result}, nil
}

func (uc *UseCase) loadEffectiveHours(ctx context.Context, req *Request) (domain.EffectiveHours, error) {
	weekly, err := uc.availabilityRepo.GetWeekly(ctx, req.BusinessID, int(req.Date.Weekday()))
	if err != nil && !errors.Is(err, availabilityRepo.ErrWeeklyNotFound) {
		uc.logger.Error("CreateBooking: failed to get weekly schedule: %v", err)
		return domain.EffectiveHours{}, fmt.Errorf("%w: failed to get weekly schedule: %v", ErrInternal, err)
	}

	exception, err := uc.availabilityRepo.GetException(ctx, req.BusinessID, req.Date)
	if err != nil && !errors.Is(err, availabilityRepo.ErrExceptionNotFound) {
		uc.logger.Error("CreateBooking: failed to get exception: %v", err)
		return domain.EffectiveHours{}, fmt.Errorf("%w: failed to get exception: %v", ErrInternal, err)
	}

	return scheduling.ResolveEffectiveHours(req.Date, weekly, exception), nil
}

func (uc *UseCase) recordSideEffects(ctx context.Context, booking *domain.Booking, now time.Time) error {
	event, err := domain.NewBookingEvent(uc.newID(), booking, booking.CustomerID, "", now)
	if err != nil {
		return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
	}
	if err := uc.outboxRepo.Add(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to add outbox event: %v", err)
		return fmt.Errorf("%w: failed to add outbox event: %v", ErrInternal, err)
	}

	entry, err := domain.NewAuditEntry(uc.newID(), booking.CustomerID, domain.AuditBookingCreated,
		domain.AggregateBooking, booking.ID, map[string]interface{}{
			"businessId":      booking.BusinessID,
			"appointmentDate": booking.AppointmentDate.Format(domain.DateFormat),
			"appointmentTime": booking.AppointmentTime,
			"durationMinutes": booking.DurationMinutes,
		}, now)
	if err != nil {
		return fmt.Errorf("%w: failed to build audit entry: %v", ErrInternal, err)
	}
	if err := uc.auditRepo.Add(ctx, entry); err != nil {
		uc.logger.Error("CreateBooking: failed to add audit entry: %v", err)
		return fmt.Errorf("%w: failed to add audit entry: %v", ErrInternal, err)
	}

	return nil
}
