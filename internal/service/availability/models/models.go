package models

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

// Request модели

// WeeklyDayInput расписание одного дня недели в запросе на обновление
type WeeklyDayInput struct {
	DayOfWeek    int     `json:"dayOfWeek"`
	StartTime    *string `json:"startTime,omitempty"`    // nil = 09:00
	EndTime      *string `json:"endTime,omitempty"`      // nil = 17:00
	SlotDuration *int    `json:"slotDuration,omitempty"` // nil = 30, 0 = шаг равен длительности услуги
	BufferTime   *int    `json:"bufferTime,omitempty"`   // nil = 0
	IsAvailable  bool    `json:"isAvailable"`
}

// UpdateWeeklyScheduleRequest запрос на обновление недельного расписания.
// Обновляются только переданные дни.
type UpdateWeeklyScheduleRequest struct {
	UserID     string           `json:"-"`
	BusinessID string           `json:"-"`
	Days       []WeeklyDayInput `json:"days"`
}

// UpsertExceptionRequest запрос на создание или замену исключения на дату
type UpsertExceptionRequest struct {
	UserID      string    `json:"-"`
	BusinessID  string    `json:"-"`
	Date        time.Time `json:"-"`
	IsAvailable bool      `json:"isAvailable"`
	StartTime   *string   `json:"startTime,omitempty"`
	EndTime     *string   `json:"endTime,omitempty"`
	Reason      *string   `json:"reason,omitempty"`
}

// DeleteExceptionRequest запрос на удаление исключения
type DeleteExceptionRequest struct {
	UserID     string
	BusinessID string
	Date       time.Time
}

// Response модели

// WeeklyDayResponse расписание одного дня недели
type WeeklyDayResponse struct {
	DayOfWeek    int    `json:"dayOfWeek"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	SlotDuration int    `json:"slotDuration"`
	BufferTime   int    `json:"bufferTime"`
	IsAvailable  bool   `json:"isAvailable"`
	Persisted    bool   `json:"persisted"` // false = строки нет в базе, показаны значения по умолчанию
}

// WeeklyScheduleResponse недельное расписание, всегда 7 дней начиная с воскресенья
type WeeklyScheduleResponse struct {
	BusinessID string              `json:"businessId"`
	Days       []WeeklyDayResponse `json:"days"`
}

// ExceptionResponse исключение на дату
type ExceptionResponse struct {
	Date        string     `json:"date"`
	IsAvailable bool       `json:"isAvailable"`
	StartTime   *string    `json:"startTime,omitempty"`
	EndTime     *string    `json:"endTime,omitempty"`
	Reason      *string    `json:"reason,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ExceptionListResponse список исключений
type ExceptionListResponse struct {
	BusinessID string              `json:"businessId"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// OpenWeekdaysResponse дни недели, в которые бизнес работает
type OpenWeekdaysResponse struct {
	BusinessID string `json:"businessId"`
	Weekdays   []int  `json:"weekdays"`
}

// Методы конвертации

// FromDomainWeekly конвертирует строку расписания в DTO
func FromDomainWeekly(w *domain.WeeklyAvailability, persisted bool) WeeklyDayResponse {
	return WeeklyDayResponse{
		DayOfWeek:    w.DayOfWeek,
		StartTime:    w.StartTime.String(),
		EndTime:      w.EndTime.String(),
		SlotDuration: w.SlotDurationMinutes,
		BufferTime:   w.BufferMinutes,
		IsAvailable:  w.IsAvailable,
		Persisted:    persisted,
	}
}

// FromDomainException конвертирует исключение в DTO
func FromDomainException(e *domain.AvailabilityException) ExceptionResponse {
	resp := ExceptionResponse{
		Date:        e.Date.Format(domain.DateFormat),
		IsAvailable: e.IsAvailable,
		StartTime:   timeStringPtr(e.StartTime),
		EndTime:     timeStringPtr(e.EndTime),
		Reason:      e.Reason,
	}
	if !e.UpdatedAt.IsZero() {
		updated := e.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// FromDomainExceptionList конвертирует список исключений
func FromDomainExceptionList(businessID string, list []*domain.AvailabilityException) *ExceptionListResponse {
	resp := &ExceptionListResponse{
		BusinessID: businessID,
		Exceptions: make([]ExceptionResponse, 0, len(list)),
	}
	for _, e := range list {
		resp.Exceptions = append(resp.Exceptions, FromDomainException(e))
	}
	return resp
}

func timeStringPtr(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
