package domain

import "github.com/kameqazi1/Manaakhah-sub002/pkg/types"

// Default schedule values for weekdays without a stored row
const (
	DefaultOpenTime            types.TimeString = "09:00"
	DefaultCloseTime           types.TimeString = "17:00"
	DefaultSlotDurationMinutes                  = 30
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours
	MaxBufferMinutes   = 240
	MaxNotesLength     = 500
	MaxServiceTypeLen  = 100
	MaxReasonLength    = 500
	DaysInWeek         = 7
)

// Time format constants
const (
	TimeFormat = types.TimeFormat // HH:MM
	DateFormat = "2006-01-02"     // YYYY-MM-DD
)

// MessageClosedDay is returned when a date has no opening hours and no exception reason.
const MessageClosedDay = "Business is closed on this day"

// ActiveStatuses список статусов, блокирующих слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses список статусов, не блокирующих слот
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}
