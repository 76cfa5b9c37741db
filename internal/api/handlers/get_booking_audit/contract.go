package get_booking_audit

import (
	"context"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings/models"
)

type BookingService interface {
	GetBookingAudit(ctx context.Context, id string, userID string) (*models.AuditListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
