package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	availabilityRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/availability"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

// Service сервис управления расписанием бизнеса
type Service struct {
	businessRepo     BusinessRepository
	availabilityRepo AvailabilityRepository
	auditRepo        AuditRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	newID            func() string
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	businessRepo BusinessRepository,
	availabilityRepo AvailabilityRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		businessRepo:     businessRepo,
		availabilityRepo: availabilityRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		timeProvider:     realTimeProvider{},
		newID:            uuid.NewString,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetWeeklySchedule возвращает расписание на все 7 дней.
// Дни без сохраненной строки заполняются закрытыми значениями по умолчанию.
func (s *Service) GetWeeklySchedule(ctx context.Context, businessID string) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("GetWeeklySchedule: business=%s", businessID)

	if _, err := s.getBusiness(ctx, "GetWeeklySchedule", businessID); err != nil {
		return nil, err
	}

	rows, err := s.availabilityRepo.ListWeekly(ctx, businessID)
	if err != nil {
		s.logger.Error("GetWeeklySchedule: repository error for business=%s: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetWeeklySchedule - repository error: %v", ErrInternal, err)
	}

	byDay := make(map[int]*domain.WeeklyAvailability, len(rows))
	for _, row := range rows {
		byDay[row.DayOfWeek] = row
	}

	resp := &models.WeeklyScheduleResponse{
		BusinessID: businessID,
		Days:       make([]models.WeeklyDayResponse, 0, domain.DaysInWeek),
	}
	for day := 0; day < domain.DaysInWeek; day++ {
		if row, ok := byDay[day]; ok {
			resp.Days = append(resp.Days, models.FromDomainWeekly(row, true))
			continue
		}
		resp.Days = append(resp.Days, models.FromDomainWeekly(domain.ClosedDay(businessID, day), false))
	}

	return resp, nil
}

// UpdateWeeklySchedule сохраняет переданные дни в одной транзакции.
// Доступно только владельцу бизнеса.
func (s *Service) UpdateWeeklySchedule(ctx context.Context, req *models.UpdateWeeklyScheduleRequest) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("UpdateWeeklySchedule: business=%s, days=%d by user=%s", req.BusinessID, len(req.Days), req.UserID)

	if err := s.checkOwnerAccess(ctx, "UpdateWeeklySchedule", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	rows, err := buildWeeklyRows(req)
	if err != nil {
		s.logger.Warn("UpdateWeeklySchedule: validation failed: %v", err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			if err := s.availabilityRepo.UpsertWeekly(txCtx, row); err != nil {
				s.logger.Error("UpdateWeeklySchedule: failed to upsert day=%d: %v", row.DayOfWeek, err)
				return fmt.Errorf("%w: UpdateWeeklySchedule - repository error: %v", ErrInternal, err)
			}
		}
		return s.audit(txCtx, req.UserID, domain.AuditWeeklyUpdated, req.BusinessID, req.Days)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateWeeklySchedule: saved %d days for business=%s", len(rows), req.BusinessID)
	return s.GetWeeklySchedule(ctx, req.BusinessID)
}

// ListExceptions возвращает исключения бизнеса, начиная с from (включительно), если он задан
func (s *Service) ListExceptions(ctx context.Context, businessID string, from *time.Time) (*models.ExceptionListResponse, error) {
	s.logger.Info("ListExceptions: business=%s", businessID)

	if _, err := s.getBusiness(ctx, "ListExceptions", businessID); err != nil {
		return nil, err
	}

	list, err := s.availabilityRepo.ListExceptions(ctx, businessID, from)
	if err != nil {
		s.logger.Error("ListExceptions: repository error for business=%s: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainExceptionList(businessID, list), nil
}

// UpsertException создает или заменяет исключение на дату.
// Доступно только владельцу бизнеса.
func (s *Service) UpsertException(ctx context.Context, req *models.UpsertExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("UpsertException: business=%s, date=%s by user=%s",
		req.BusinessID, req.Date.Format(domain.DateFormat), req.UserID)

	if err := s.checkOwnerAccess(ctx, "UpsertException", req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	exception, err := buildException(req)
	if err != nil {
		s.logger.Warn("UpsertException: validation failed: %v", err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.availabilityRepo.UpsertException(txCtx, exception); err != nil {
			s.logger.Error("UpsertException: repository error: %v", err)
			return fmt.Errorf("%w: UpsertException - repository error: %v", ErrInternal, err)
		}
		return s.audit(txCtx, req.UserID, domain.AuditExceptionUpserted, req.BusinessID, models.FromDomainException(exception))
	})
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainException(exception)
	return &resp, nil
}

// DeleteException удаляет исключение, после чего дата снова следует недельному расписанию.
// Доступно только владельцу бизнеса.
func (s *Service) DeleteException(ctx context.Context, req *models.DeleteExceptionRequest) error {
	date := req.Date.Format(domain.DateFormat)
	s.logger.Info("DeleteException: business=%s, date=%s by user=%s", req.BusinessID, date, req.UserID)

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.checkOwnerAccess(ctx, "DeleteException", req.BusinessID, req.UserID); err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.availabilityRepo.DeleteException(txCtx, req.BusinessID, req.Date); err != nil {
			if errors.Is(err, availabilityRepo.ErrExceptionNotFound) {
				s.logger.Warn("DeleteException: no exception for business=%s on %s", req.BusinessID, date)
				return ErrExceptionNotFound
			}
			s.logger.Error("DeleteException: repository error: %v", err)
			return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
		}
		return s.audit(txCtx, req.UserID, domain.AuditExceptionDeleted, req.BusinessID, map[string]string{"date": date})
	})
}

// GetOpenWeekdays возвращает отсортированные дни недели, в которые бизнес работает по расписанию
func (s *Service) GetOpenWeekdays(ctx context.Context, businessID string) (*models.OpenWeekdaysResponse, error) {
	s.logger.Info("GetOpenWeekdays: business=%s", businessID)

	if _, err := s.getBusiness(ctx, "GetOpenWeekdays", businessID); err != nil {
		return nil, err
	}

	rows, err := s.availabilityRepo.ListWeekly(ctx, businessID)
	if err != nil {
		s.logger.Error("GetOpenWeekdays: repository error for business=%s: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetOpenWeekdays - repository error: %v", ErrInternal, err)
	}

	weekdays := make([]int, 0, domain.DaysInWeek)
	for _, row := range rows {
		if row.IsAvailable {
			weekdays = append(weekdays, row.DayOfWeek)
		}
	}
	sort.Ints(weekdays)

	return &models.OpenWeekdaysResponse{BusinessID: businessID, Weekdays: weekdays}, nil
}

func (s *Service) getBusiness(ctx context.Context, op, businessID string) (*domain.Business, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business=%s not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business=%s: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}
	return business, nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, op, businessID, userID string) error {
	business, err := s.getBusiness(ctx, op, businessID)
	if err != nil {
		return err
	}
	if !business.IsOwner(userID) {
		s.logger.Warn("%s: user=%s is not the owner of business=%s", op, userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) audit(ctx context.Context, actorID, action, businessID string, details interface{}) error {
	entry, err := domain.NewAuditEntry(s.newID(), actorID, action, "business", businessID, details, s.timeProvider.Now())
	if err != nil {
		return fmt.Errorf("%w: failed to build audit entry: %v", ErrInternal, err)
	}
	if err := s.auditRepo.Add(ctx, entry); err != nil {
		s.logger.Error("audit: failed to add entry %s: %v", action, err)
		return fmt.Errorf("%w: failed to add audit entry: %v", ErrInternal, err)
	}
	return nil
}

func buildWeeklyRows(req *models.UpdateWeeklyScheduleRequest) ([]*domain.WeeklyAvailability, error) {
	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	seen := make(map[int]bool, len(req.Days))
	rows := make([]*domain.WeeklyAvailability, 0, len(req.Days))
	for _, day := range req.Days {
		if seen[day.DayOfWeek] {
			return nil, fmt.Errorf("%w: dayOfWeek %d listed twice", ErrInvalidInput, day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true

		row := domain.ClosedDay(req.BusinessID, day.DayOfWeek)
		row.IsAvailable = day.IsAvailable
		if day.StartTime != nil {
			row.StartTime = types.TimeString(*day.StartTime)
		}
		if day.EndTime != nil {
			row.EndTime = types.TimeString(*day.EndTime)
		}
		if day.SlotDuration != nil {
			row.SlotDurationMinutes = *day.SlotDuration
		}
		if day.BufferTime != nil {
			row.BufferMinutes = *day.BufferTime
		}

		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildException(req *models.UpsertExceptionRequest) (*domain.AvailabilityException, error) {
	exception := &domain.AvailabilityException{
		BusinessID:  req.BusinessID,
		Date:        req.Date,
		IsAvailable: req.IsAvailable,
	}

	if req.StartTime != nil {
		start := types.TimeString(*req.StartTime)
		exception.StartTime = &start
	}
	if req.EndTime != nil {
		end := types.TimeString(*req.EndTime)
		exception.EndTime = &end
	}

	if req.Reason != nil {
		reason := strings.TrimSpace(*req.Reason)
		if len(reason) > domain.MaxReasonLength {
			return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
		}
		if reason != "" {
			exception.Reason = &reason
		}
	}

	if !exception.IsAvailable && exception.HasOverrideHours() {
		return nil, fmt.Errorf("%w: a closed exception cannot define hours", ErrInvalidInput)
	}

	if err := exception.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return exception, nil
}
