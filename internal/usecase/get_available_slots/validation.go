package get_available_slots

import (
	"fmt"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID == "" {
		return fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ServiceDuration < domain.MinDurationMinutes || req.ServiceDuration > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be in [%d,%d], got %d",
			ErrInvalidDuration, domain.MinDurationMinutes, domain.MaxDurationMinutes, req.ServiceDuration)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(requestDate time.Time, now time.Time) error {
	if scheduling.IsDateInPast(requestDate, now) {
		return ErrInvalidDate
	}
	return nil
}
