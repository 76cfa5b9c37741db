package get_available_slots

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID      string
	Date            time.Time // Дата (без времени)
	ServiceDuration int       // Длительность услуги в минутах
}

// Response модель ответа со списком слотов.
// Для закрытого дня IsOpen = false, Slots пустой, Message содержит причину.
type Response struct {
	Date       time.Time
	BusinessID string
	IsOpen     bool
	Message    string
	Slots      []domain.Slot
}
