package create_booking

import (
	"errors"

	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
	createBooking "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/create_booking"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid appointment date")
	errInvalidTime = errors.New("invalid appointment time")
)

// CreateBookingRequest HTTP request model. Клиент берется из заголовка X-User-ID
type CreateBookingRequest struct {
	BusinessID      string  `json:"businessId"`
	ServiceType     string  `json:"serviceType"`
	AppointmentDate string  `json:"appointmentDate"` // "2025-01-14"
	AppointmentTime string  `json:"appointmentTime"` // "10:00"
	Duration        int     `json:"duration"`        // минуты
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateBookingRequest) ToUseCaseRequest(customerID string) (*createBooking.Request, error) {
	date, err := scheduling.ParseDate(r.AppointmentDate)
	if err != nil {
		return nil, errInvalidDate
	}

	at, err := types.NewTimeStringFromString(r.AppointmentTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		CustomerID:      customerID,
		BusinessID:      r.BusinessID,
		ServiceType:     r.ServiceType,
		Date:            date,
		Time:            at,
		DurationMinutes: r.Duration,
		Notes:           r.Notes,
	}, nil
}
