package scheduling

import (
	"errors"
	"fmt"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

// ErrInvalidDuration возвращается при недопустимой длительности услуги
var ErrInvalidDuration = errors.New("scheduling: invalid service duration")

// GenerateSlots строит все кандидаты на указанную длительность услуги.
//
// Кандидаты идут от начала рабочего дня с шагом slotDuration (или serviceDuration,
// если slotDuration не задан). Кандидат, который заканчивается позже закрытия, отбрасывается.
// Кандидат занят, если пересекается с активным бронированием, продленным на bufferTime
// (буфер действует только после существующего бронирования):
//
//	candidate.start < booking.end + buffer && candidate.end > booking.start
//
// Для закрытого дня возвращается пустой список.
func GenerateSlots(hours domain.EffectiveHours, serviceDuration int, booked []domain.BookedRange) ([]domain.Slot, error) {
	if serviceDuration <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, serviceDuration)
	}

	slots := make([]domain.Slot, 0)
	if !hours.IsOpen {
		return slots, nil
	}

	open, err := hours.StartTime.Minutes()
	if err != nil {
		return nil, err
	}
	closing, err := hours.EndTime.Minutes()
	if err != nil {
		return nil, err
	}

	stride := hours.SlotDurationMinutes
	if stride <= 0 {
		stride = serviceDuration
	}

	ranges, err := toMinuteRanges(booked, hours.BufferMinutes)
	if err != nil {
		return nil, err
	}

	for start := open; start+serviceDuration <= closing; start += stride {
		end := start + serviceDuration

		at, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}

		slot := domain.Slot{Time: at, Available: true}
		for _, r := range ranges {
			if start < r.blockedUntil && end > r.start {
				slot.Available = false
				slot.Reason = domain.SlotReasonBooked
				break
			}
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// FindSlot ищет кандидата с указанным временем начала
func FindSlot(slots []domain.Slot, at types.TimeString) (domain.Slot, bool) {
	for _, s := range slots {
		if s.Time == at {
			return s, true
		}
	}
	return domain.Slot{}, false
}

// BookedRanges извлекает интервалы активных бронирований
func BookedRanges(bookings []*domain.Booking) []domain.BookedRange {
	ranges := make([]domain.BookedRange, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		ranges = append(ranges, domain.BookedRange{Start: b.AppointmentTime, DurationMinutes: b.DurationMinutes})
	}
	return ranges
}

type minuteRange struct {
	start        int
	blockedUntil int // конец бронирования + буфер
}

func toMinuteRanges(booked []domain.BookedRange, buffer int) ([]minuteRange, error) {
	ranges := make([]minuteRange, 0, len(booked))
	for _, b := range booked {
		start, err := b.Start.Minutes()
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, minuteRange{
			start:        start,
			blockedUntil: start + b.DurationMinutes + buffer,
		})
	}
	return ranges, nil
}
