package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	bookingRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/booking"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
)

// UseCase use case для смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	newID        IDGenerator
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		newID:        uuid.NewString,
		logger:       logger,
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

// Execute выполняет переход статуса.
// Порядок проверок: допустимость перехода по таблице, затем права пользователя.
// Строка бронирования блокируется (FOR UPDATE) до конца транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%s, actor=%s, status=%s", req.BookingID, req.ActorID, req.Status)

	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		result   *domain.Booking
		previous domain.BookingStatus
	)

	// 2. Чтение, проверки и запись в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("TransitionBooking: booking=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("TransitionBooking: failed to get booking=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2.1. Переход должен быть разрешен таблицей независимо от пользователя
		if !booking.Status.CanTransitionTo(target) {
			uc.logger.Warn("TransitionBooking: illegal transition %s -> %s for booking=%s",
				booking.Status, target, booking.ID)
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, booking.Status, target)
		}

		// 2.2. Владелец определяется по бизнесу
		business, err := uc.businessRepo.GetByID(txCtx, booking.BusinessID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrBusinessNotFound) {
				uc.logger.Error("TransitionBooking: business=%s of booking=%s not found", booking.BusinessID, booking.ID)
				return ErrBusinessNotFound
			}
			uc.logger.Error("TransitionBooking: failed to get business=%s: %v", booking.BusinessID, err)
			return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}

		if err := authorize(req.ActorID, target, booking, business); err != nil {
			uc.logger.Warn("TransitionBooking: actor=%s denied for booking=%s: %v", req.ActorID, booking.ID, err)
			return err
		}

		// 2.3. Применяем переход
		now := uc.timeProvider.Now()
		previous = booking.Status
		if err := booking.Transition(target, now, req.OwnerNotes, req.RejectionReason); err != nil {
			if errors.Is(err, domain.ErrIllegalTransition) {
				return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
			}
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("TransitionBooking: failed to update booking=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		// 2.4. Аудит и событие для уведомлений
		if err := uc.recordSideEffects(txCtx, booking, req.ActorID, previous); err != nil {
			return err
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingTransition(string(previous), string(result.Status))
	uc.logger.Info("TransitionBooking: booking=%s moved %s -> %s by actor=%s",
		result.ID, previous, result.Status, req.ActorID)

	return &Response{Booking: result, PreviousStatus: previous}, nil
}

func (uc *UseCase) recordSideEffects(ctx context.Context, booking *domain.Booking, actorID string, previous domain.BookingStatus) error {
	at := booking.UpdatedAt

	event, err := domain.NewBookingEvent(uc.newID(), booking, actorID, previous, at)
	if err != nil {
		return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
	}
	if err := uc.outboxRepo.Add(ctx, event); err != nil {
		uc.logger.Error("TransitionBooking: failed to add outbox event: %v", err)
		return fmt.Errorf("%w: failed to add outbox event: %v", ErrInternal, err)
	}

	details := map[string]interface{}{
		"from": previous,
		"to":   booking.Status,
	}
	if booking.Status == domain.StatusRejected && booking.RejectionReason != nil {
		details["rejectionReason"] = *booking.RejectionReason
	}

	entry, err := domain.NewAuditEntry(uc.newID(), actorID, domain.AuditBookingStatusChanged,
		domain.AggregateBooking, booking.ID, details, at)
	if err != nil {
		return fmt.Errorf("%w: failed to build audit entry: %v", ErrInternal, err)
	}
	if err := uc.auditRepo.Add(ctx, entry); err != nil {
		uc.logger.Error("TransitionBooking: failed to add audit entry: %v", err)
		return fmt.Errorf("%w: failed to add audit entry: %v", ErrInternal, err)
	}

	return nil
}
