package transition_booking

import (
	"fmt"
	"strings"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// validateRequest валидирует входные данные и разбирает целевой статус
func validateRequest(req *Request) (domain.BookingStatus, error) {
	if req.BookingID == "" {
		return "", fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}

	if req.ActorID == "" {
		return "", fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	target, err := domain.ParseBookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.OwnerNotes != nil && len(*req.OwnerNotes) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: ownerNotes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.RejectionReason != nil && len(*req.RejectionReason) > domain.MaxReasonLength {
		return "", fmt.Errorf("%w: rejectionReason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return target, nil
}

// authorize проверяет права: подтверждение, отклонение и завершение доступны только владельцу,
// отмена доступна владельцу и клиенту бронирования
func authorize(actorID string, target domain.BookingStatus, booking *domain.Booking, business *domain.Business) error {
	if business.IsOwner(actorID) {
		return nil
	}

	if !target.RequiresOwner() && booking.CustomerID == actorID {
		return nil
	}

	return fmt.Errorf("%w: %s -> %s", ErrForbidden, booking.Status, target)
}
