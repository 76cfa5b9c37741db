package scheduling

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// ResolveEffectiveHours вычисляет часы работы на дату.
//
// Приоритет:
//  1. Исключение на дату. Если оно закрывает день - день закрыт (сообщение = причина исключения).
//     Если задает свои часы - берутся они, а slotDuration и bufferTime наследуются от недельного расписания.
//     Иначе действует недельное расписание без изменений.
//  2. Недельное расписание на день недели. Отсутствие записи или isAvailable=false - день закрыт.
//
// weekly и exception могут быть nil.
func ResolveEffectiveHours(
	date time.Time,
	weekly *domain.WeeklyAvailability,
	exception *domain.AvailabilityException,
) domain.EffectiveHours {
	dayOfWeek := int(date.Weekday())

	hours := domain.EffectiveHours{
		Date:      DateOnly(date),
		DayOfWeek: dayOfWeek,
		IsOpen:    false,
		Message:   domain.MessageClosedDay,
	}

	if weekly != nil {
		hours.SlotDurationMinutes = weekly.SlotDurationMinutes
		hours.BufferMinutes = weekly.BufferMinutes
	}

	if exception != nil {
		hours.ExceptionReason = exception.Reason

		if !exception.IsAvailable {
			if exception.Reason != nil && *exception.Reason != "" {
				hours.Message = *exception.Reason
			}
			return hours
		}

		if exception.HasOverrideHours() {
			hours.IsOpen = true
			hours.StartTime = *exception.StartTime
			hours.EndTime = *exception.EndTime
			hours.Message = ""
			return hours
		}
	}

	if weekly == nil || !weekly.IsAvailable {
		return hours
	}

	hours.IsOpen = true
	hours.StartTime = weekly.StartTime
	hours.EndTime = weekly.EndTime
	hours.Message = ""
	return hours
}
