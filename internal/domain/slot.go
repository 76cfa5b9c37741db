package domain

import "github.com/kameqazi1/Manaakhah-sub002/pkg/types"

// SlotReasonBooked marks a candidate overlapped by an active booking.
const SlotReasonBooked = "Already booked"

// Slot is one candidate start time for a requested service duration.
type Slot struct {
	Time      types.TimeString
	Available bool
	Reason    string
}

// BookedRange is the part of an active booking the slot generator needs.
type BookedRange struct {
	Start           types.TimeString
	DurationMinutes int
}
