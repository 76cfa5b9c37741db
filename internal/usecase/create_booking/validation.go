package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID == "" {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	if req.BusinessID == "" {
		return fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}

	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		return fmt.Errorf("%w: serviceType is required", ErrInvalidInput)
	}
	if len(serviceType) > domain.MaxServiceTypeLen {
		return fmt.Errorf("%w: serviceType exceeds %d characters", ErrInvalidInput, domain.MaxServiceTypeLen)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must not exceed %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateAppointmentTime проверяет, что начало записи строго позже текущего момента.
// Дата и время трактуются в зоне now, без конвертации.
func validateAppointmentTime(req *Request, now time.Time) error {
	y, m, d := req.Date.Date()
	start, err := req.Time.On(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !start.After(now) {
		return fmt.Errorf("%w: %s %s", ErrAppointmentInPast, req.Date.Format(domain.DateFormat), req.Time)
	}

	return nil
}
