package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusRejected  BookingStatus = "REJECTED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

var (
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrIllegalTransition is returned when the current status does not allow the target.
	ErrIllegalTransition = errors.New("domain: illegal status transition")
)

// transitions lists every legal target per source status. Statuses absent
// from the map are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ParseBookingStatus converts a string into a known BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is one of the known statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is legal.
// A status never transitions to itself.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsActive reports whether a booking in this status occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// RequiresOwner reports whether only the business owner may move a booking into s.
// Cancellation is the one transition the customer may also perform.
func (s BookingStatus) RequiresOwner() bool {
	return s != StatusCancelled
}

// StatusHistoryEntry records one status a booking has held.
type StatusHistoryEntry struct {
	Status    BookingStatus
	Timestamp time.Time
}

// Booking represents a customer's appointment with a business
type Booking struct {
	ID              string
	BusinessID      string
	CustomerID      string
	ServiceType     string
	AppointmentDate time.Time
	AppointmentTime types.TimeString
	DurationMinutes int
	Status          BookingStatus
	StatusHistory   []StatusHistoryEntry

	Notes           *string
	OwnerNotes      *string
	RejectionReason *string

	ConfirmedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPendingBooking builds a booking in its initial state with a single history entry.
func NewPendingBooking(id, businessID, customerID, serviceType string, date time.Time, at types.TimeString, duration int, notes *string, now time.Time) *Booking {
	return &Booking{
		ID:              id,
		BusinessID:      businessID,
		CustomerID:      customerID,
		ServiceType:     serviceType,
		AppointmentDate: date,
		AppointmentTime: at,
		DurationMinutes: duration,
		Status:          StatusPending,
		StatusHistory:   []StatusHistoryEntry{{Status: StatusPending, Timestamp: now}},
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsActive returns true if the booking blocks its time range
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// EndTime returns appointment time plus duration.
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.AppointmentTime.AddMinutes(b.DurationMinutes)
}

// Transition moves the booking to target, appending a history entry and
// setting the matching timestamp. ownerNotes is stored on any transition,
// rejectionReason only when rejecting.
func (b *Booking) Transition(target BookingStatus, at time.Time, ownerNotes, rejectionReason *string) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !b.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, b.Status, target)
	}

	b.Status = target
	b.StatusHistory = append(b.StatusHistory, StatusHistoryEntry{Status: target, Timestamp: at})
	b.UpdatedAt = at

	switch target {
	case StatusConfirmed:
		b.ConfirmedAt = &at
	case StatusCompleted:
		b.CompletedAt = &at
	case StatusCancelled:
		b.CancelledAt = &at
	case StatusRejected:
		if rejectionReason != nil {
			b.RejectionReason = rejectionReason
		}
	}

	if ownerNotes != nil {
		b.OwnerNotes = ownerNotes
	}

	return nil
}

// BookingsFilter фильтр для получения бронирований бизнеса
type BookingsFilter struct {
	BusinessID      string         // Обязательный параметр
	Date            *time.Time     // Конкретная дата (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые, отклонённые и отменённые
}
