package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// Request модели

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	UserID     string  `json:"-"` // Кто запрашивает
	CustomerID string  `json:"-"` // Чьи бронирования
	Status     *string `json:"status,omitempty"`
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	UserID          string     `json:"-"`
	BusinessID      string     `json:"-"`
	Date            *time.Time `json:"date,omitempty"`            // Фильтр по дате (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		BusinessID:      r.BusinessID,
		Date:            r.Date,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainBookingStatus разбирает статус без учета регистра
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	return domain.ParseBookingStatus(strings.ToUpper(strings.TrimSpace(s)))
}

// Response модели

// StatusHistoryResponse элемент истории статусов
type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string                  `json:"id"`
	BusinessID      string                  `json:"businessId"`
	CustomerID      string                  `json:"customerId"`
	ServiceType     string                  `json:"serviceType"`
	AppointmentDate string                  `json:"appointmentDate"` // "2025-01-14"
	AppointmentTime string                  `json:"appointmentTime"` // "10:00"
	Duration        int                     `json:"duration"`
	Status          string                  `json:"status"`
	StatusHistory   []StatusHistoryResponse `json:"statusHistory"`
	Notes           *string                 `json:"notes,omitempty"`
	OwnerNotes      *string                 `json:"ownerNotes,omitempty"`
	RejectionReason *string                 `json:"rejectionReason,omitempty"`
	ConfirmedAt     *time.Time              `json:"confirmedAt,omitempty"`
	CompletedAt     *time.Time              `json:"completedAt,omitempty"`
	CancelledAt     *time.Time              `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// AuditEntryResponse запись журнала аудита
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actorId"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AuditListResponse журнал аудита бронирования
type AuditListResponse struct {
	BookingID string               `json:"bookingId"`
	Entries   []AuditEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	history := make([]StatusHistoryResponse, 0, len(b.StatusHistory))
	for _, h := range b.StatusHistory {
		history = append(history, StatusHistoryResponse{Status: string(h.Status), Timestamp: h.Timestamp})
	}

	return &BookingResponse{
		ID:              b.ID,
		BusinessID:      b.BusinessID,
		CustomerID:      b.CustomerID,
		ServiceType:     b.ServiceType,
		AppointmentDate: b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime: b.AppointmentTime.String(),
		Duration:        b.DurationMinutes,
		Status:          string(b.Status),
		StatusHistory:   history,
		Notes:           b.Notes,
		OwnerNotes:      b.OwnerNotes,
		RejectionReason: b.RejectionReason,
		ConfirmedAt:     b.ConfirmedAt,
		CompletedAt:     b.CompletedAt,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainAuditList конвертирует записи аудита в DTO
func FromDomainAuditList(bookingID string, entries []*domain.AuditEntry) *AuditListResponse {
	resp := &AuditListResponse{
		BookingID: bookingID,
		Entries:   make([]AuditEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}
