package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

// ErrInvalidSchedule is returned when availability data breaks its invariants.
var ErrInvalidSchedule = errors.New("domain: invalid schedule")

// WeeklyAvailability is the recurring schedule of a business for one weekday.
// DayOfWeek follows time.Weekday: 0 = Sunday ... 6 = Saturday.
type WeeklyAvailability struct {
	BusinessID          string
	DayOfWeek           int
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int // 0 = stride equals the requested service duration
	BufferMinutes       int
	IsAvailable         bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks ranges and that an open day has start before end.
func (w *WeeklyAvailability) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be in [0,6], got %d", ErrInvalidSchedule, w.DayOfWeek)
	}
	if w.SlotDurationMinutes != 0 &&
		(w.SlotDurationMinutes < MinDurationMinutes || w.SlotDurationMinutes > MaxDurationMinutes) {
		return fmt.Errorf("%w: slotDuration must be 0 or in [%d,%d]", ErrInvalidSchedule, MinDurationMinutes, MaxDurationMinutes)
	}
	if w.BufferMinutes < 0 || w.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: bufferTime must be in [0,%d]", ErrInvalidSchedule, MaxBufferMinutes)
	}
	if err := validateRange(w.StartTime, w.EndTime); err != nil {
		if w.IsAvailable {
			return err
		}
		// закрытый день может хранить любые часы, но в корректном формате
		if w.StartTime.Validate() != nil || w.EndTime.Validate() != nil {
			return err
		}
	}
	return nil
}

// ClosedDay returns the placeholder row used for weekdays that have no stored schedule.
func ClosedDay(businessID string, dayOfWeek int) *WeeklyAvailability {
	return &WeeklyAvailability{
		BusinessID:          businessID,
		DayOfWeek:           dayOfWeek,
		StartTime:           DefaultOpenTime,
		EndTime:             DefaultCloseTime,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		BufferMinutes:       0,
		IsAvailable:         false,
	}
}

// AvailabilityException overrides the weekly schedule for one calendar date.
type AvailabilityException struct {
	BusinessID  string
	Date        time.Time
	IsAvailable bool
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	Reason      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasOverrideHours reports whether the exception replaces the day's hours.
func (e *AvailabilityException) HasOverrideHours() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// Validate checks that override hours come in pairs and form a valid range.
func (e *AvailabilityException) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSchedule)
	}
	if (e.StartTime == nil) != (e.EndTime == nil) {
		return fmt.Errorf("%w: startTime and endTime must be provided together", ErrInvalidSchedule)
	}
	if e.HasOverrideHours() {
		return validateRange(*e.StartTime, *e.EndTime)
	}
	return nil
}

func validateRange(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidSchedule, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidSchedule, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: startTime %s must be before endTime %s", ErrInvalidSchedule, start, end)
	}
	return nil
}

// EffectiveHours is the resolved opening window for one date.
type EffectiveHours struct {
	Date                time.Time
	DayOfWeek           int
	IsOpen              bool
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	BufferMinutes       int
	Message             string
	ExceptionReason     *string
}
