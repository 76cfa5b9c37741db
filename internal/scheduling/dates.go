package scheduling

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// DateOnly обнуляет время, сохраняя календарную дату и зону
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	return calendarDay(date).Before(calendarDay(now))
}

// calendarDay сравнивает даты без учета часового пояса
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DropPastSlots оставляет только кандидатов, которые начинаются строго позже now
// (то же правило, что и при создании бронирования). Применяется только когда date - сегодня.
func DropPastSlots(slots []domain.Slot, date, now time.Time) []domain.Slot {
	if !IsSameDay(date, now) {
		return slots
	}

	result := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		start, err := s.Time.On(now)
		if err != nil || !start.After(now) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}
