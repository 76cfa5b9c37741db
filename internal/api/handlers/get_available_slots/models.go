package get_available_slots

import (
	"errors"
	"strconv"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
	getAvailableSlots "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_available_slots"
)

var (
	errMissingDate     = errors.New("date is required")
	errInvalidDate     = errors.New("invalid date")
	errMissingDuration = errors.New("duration is required")
	errInvalidDuration = errors.New("invalid duration")
)

// SlotResponse HTTP модель одного слота
type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string         `json:"date"`
	BusinessID string         `json:"businessId"`
	IsOpen     bool           `json:"isOpen"`
	Message    string         `json:"message,omitempty"`
	Slots      []SlotResponse `json:"slots"`
}

// ToUseCaseRequest разбирает query параметры в модель use case
func ToUseCaseRequest(businessID, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	if dateStr == "" {
		return nil, errMissingDate
	}
	date, err := scheduling.ParseDate(dateStr)
	if err != nil {
		return nil, errInvalidDate
	}

	if durationStr == "" {
		return nil, errMissingDuration
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return nil, errInvalidDuration
	}

	return &getAvailableSlots.Request{
		BusinessID:      businessID,
		Date:            date,
		ServiceDuration: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		BusinessID: resp.BusinessID,
		IsOpen:     resp.IsOpen,
		Message:    resp.Message,
		Slots:      make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			Time:      s.Time.String(),
			Available: s.Available,
			Reason:    s.Reason,
		})
	}
	return out
}
