package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kameqazi1/Manaakhah-sub002/pkg/ptr"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

func TestWeeklyAvailability_Validate(t *testing.T) {
	valid := WeeklyAvailability{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", SlotDurationMinutes: 30, IsAvailable: true}
	assert.NoError(t, valid.Validate())

	inverted := valid
	inverted.StartTime, inverted.EndTime = "17:00", "09:00"
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidSchedule)

	closedInverted := inverted
	closedInverted.IsAvailable = false
	assert.NoError(t, closedInverted.Validate())

	badDay := valid
	badDay.DayOfWeek = 7
	assert.ErrorIs(t, badDay.Validate(), ErrInvalidSchedule)

	badSlot := valid
	badSlot.SlotDurationMinutes = 3
	assert.ErrorIs(t, badSlot.Validate(), ErrInvalidSchedule)

	unsetSlot := valid
	unsetSlot.SlotDurationMinutes = 0
	assert.NoError(t, unsetSlot.Validate())
}

func TestAvailabilityException_Validate(t *testing.T) {
	date := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	closed := AvailabilityException{Date: date, IsAvailable: false, Reason: ptr.Ptr("Holiday")}
	assert.NoError(t, closed.Validate())

	halfHours := AvailabilityException{Date: date, IsAvailable: true, StartTime: ptr.Ptr(types.TimeString("10:00"))}
	assert.ErrorIs(t, halfHours.Validate(), ErrInvalidSchedule)

	override := AvailabilityException{
		Date:        date,
		IsAvailable: true,
		StartTime:   ptr.Ptr(types.TimeString("10:00")),
		EndTime:     ptr.Ptr(types.TimeString("14:00")),
	}
	assert.NoError(t, override.Validate())
	assert.True(t, override.HasOverrideHours())
}
