package domain

import (
	"encoding/json"
	"time"
)

// Outbox event types
const (
	EventBookingCreated = "booking.created"
	AggregateBooking    = "booking"
)

// Audit actions
const (
	AuditBookingCreated       = "booking.created"
	AuditBookingStatusChanged = "booking.status_changed"
	AuditWeeklyUpdated        = "availability.weekly_updated"
	AuditExceptionUpserted    = "availability.exception_upserted"
	AuditExceptionDeleted     = "availability.exception_deleted"
)

// StatusEventType returns the outbox event type for a booking entering status.
func StatusEventType(status BookingStatus) string {
	switch status {
	case StatusConfirmed:
		return "booking.confirmed"
	case StatusRejected:
		return "booking.rejected"
	case StatusCompleted:
		return "booking.completed"
	case StatusCancelled:
		return "booking.cancelled"
	default:
		return EventBookingCreated
	}
}

// OutboxEvent is a notification trigger stored with the mutation that caused it
// and relayed to the broker afterwards.
type OutboxEvent struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
	Attempts      int
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// BookingEventPayload is the body of every booking outbox event.
type BookingEventPayload struct {
	BookingID       string    `json:"bookingId"`
	BusinessID      string    `json:"businessId"`
	CustomerID      string    `json:"customerId"`
	ActorID         string    `json:"actorId"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previousStatus,omitempty"`
	AppointmentDate string    `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// AuditEntry is one row of the append-only audit log.
type AuditEntry struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    json.RawMessage
	CreatedAt  time.Time
}

// NewBookingEvent builds the outbox trigger for a booking that just entered its current status.
// previous is empty for creation.
func NewBookingEvent(id string, b *Booking, actorID string, previous BookingStatus, at time.Time) (*OutboxEvent, error) {
	payload, err := json.Marshal(BookingEventPayload{
		BookingID:       b.ID,
		BusinessID:      b.BusinessID,
		CustomerID:      b.CustomerID,
		ActorID:         actorID,
		Status:          string(b.Status),
		PreviousStatus:  string(previous),
		AppointmentDate: b.AppointmentDate.Format(DateFormat),
		AppointmentTime: b.AppointmentTime.String(),
		OccurredAt:      at,
	})
	if err != nil {
		return nil, err
	}

	eventType := EventBookingCreated
	if previous != "" {
		eventType = StatusEventType(b.Status)
	}

	return &OutboxEvent{
		ID:            id,
		AggregateType: AggregateBooking,
		AggregateID:   b.ID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     at,
	}, nil
}

// NewAuditEntry builds an audit row; details is marshalled to JSON.
func NewAuditEntry(id, actorID, action, entityType, entityID string, details interface{}, at time.Time) (*AuditEntry, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return &AuditEntry{
		ID:         id,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
		CreatedAt:  at,
	}, nil
}
