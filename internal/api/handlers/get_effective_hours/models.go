package get_effective_hours

import (
	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	getEffectiveHours "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_effective_hours"
)

// HoursResponse HTTP response model
type HoursResponse struct {
	Date            string  `json:"date"`
	DayOfWeek       int     `json:"dayOfWeek"`
	IsOpen          bool    `json:"isOpen"`
	StartTime       string  `json:"startTime,omitempty"`
	EndTime         string  `json:"endTime,omitempty"`
	SlotDuration    int     `json:"slotDuration"`
	BufferTime      int     `json:"bufferTime"`
	Message         string  `json:"message,omitempty"`
	ExceptionReason *string `json:"exceptionReason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Для закрытого дня время не отдается.
func FromUseCaseResponse(resp *getEffectiveHours.Response) *HoursResponse {
	h := resp.Hours
	out := &HoursResponse{
		Date:            h.Date.Format(domain.DateFormat),
		DayOfWeek:       h.DayOfWeek,
		IsOpen:          h.IsOpen,
		SlotDuration:    h.SlotDurationMinutes,
		BufferTime:      h.BufferMinutes,
		Message:         h.Message,
		ExceptionReason: h.ExceptionReason,
	}
	if h.IsOpen {
		out.StartTime = h.StartTime.String()
		out.EndTime = h.EndTime.String()
	}
	return out
}
