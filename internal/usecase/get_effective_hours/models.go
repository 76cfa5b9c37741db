package get_effective_hours

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// Request модель запроса часов работы на дату
type Request struct {
	BusinessID string
	Date       time.Time // Дата (без времени)
}

// Response модель ответа
type Response struct {
	Hours domain.EffectiveHours
}
