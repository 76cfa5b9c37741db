package create_booking

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID      string           // ID клиента (из заголовка X-User-ID)
	BusinessID      string           // ID бизнеса
	ServiceType     string           // Название услуги
	Date            time.Time        // Дата записи (без времени)
	Time            types.TimeString // Время начала слота, например "10:00"
	DurationMinutes int              // Длительность в минутах
	Notes           *string          // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
