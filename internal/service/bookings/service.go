package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	bookingRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/booking"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	auditRepo    AuditRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	auditRepo AuditRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		auditRepo:    auditRepo,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут клиент, который его создал, и владелец бизнеса.
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getAccessibleBooking(ctx, "GetByID", id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает бронирования клиента. Клиент видит только свои бронирования.
// Опционально фильтрует по статусу.
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings of customer=%s for user=%s, status=%v",
		req.CustomerID, req.UserID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: user=%s requested bookings of customer=%s", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		parsed, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%s", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования бизнеса с фильтрацией по дате и статусу.
// По умолчанию возвращаются только активные бронирования. Доступно только владельцу.
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetBusinessBookings: fetching bookings for business=%s, user=%s", req.BusinessID, req.UserID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: fetched %d bookings for business=%s", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBookingAudit возвращает журнал аудита бронирования. Права те же, что у GetByID.
func (s *Service) GetBookingAudit(ctx context.Context, id string, userID string) (*models.AuditListResponse, error) {
	s.logger.Info("GetBookingAudit: booking id=%s for user=%s", id, userID)

	if _, err := s.getAccessibleBooking(ctx, "GetBookingAudit", id, userID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByEntity(ctx, domain.AggregateBooking, id)
	if err != nil {
		s.logger.Error("GetBookingAudit: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetBookingAudit - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAuditList(id, entries), nil
}

// Вспомогательные методы

func (s *Service) getAccessibleBooking(ctx context.Context, op, id, userID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("%s: access denied for user=%s to booking id=%s", op, userID, id)
		return nil, err
	}
	return booking, nil
}

// checkUserAccess проверяет, что пользователь - клиент бронирования или владелец бизнеса
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID string) error {
	if booking.CustomerID == userID {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, booking.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID string, userID string) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business=%s not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business=%s: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwner(userID) {
		s.logger.Warn("checkOwnerAccess: user=%s is not the owner of business=%s", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}
