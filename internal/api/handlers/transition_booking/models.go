package transition_booking

import transitionBooking "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/transition_booking"

// TransitionBookingRequest HTTP request model
type TransitionBookingRequest struct {
	Status          string  `json:"status"`
	OwnerNotes      *string `json:"ownerNotes,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionBookingRequest) ToUseCaseRequest(bookingID, actorID string) *transitionBooking.Request {
	return &transitionBooking.Request{
		BookingID:       bookingID,
		ActorID:         actorID,
		Status:          r.Status,
		OwnerNotes:      r.OwnerNotes,
		RejectionReason: r.RejectionReason,
	}
}
