package transition_booking

import "github.com/kameqazi1/Manaakhah-sub002/internal/domain"

// Request модель запроса на смену статуса
type Request struct {
	BookingID       string
	ActorID         string  // ID пользователя из заголовка X-User-ID
	Status          string  // Целевой статус (CONFIRMED, REJECTED, COMPLETED, CANCELLED)
	OwnerNotes      *string // Заметки владельца (сохраняются при любом переходе)
	RejectionReason *string // Причина отклонения (только для REJECTED)
}

// Response модель ответа с обновленным бронированием
type Response struct {
	Booking        *domain.Booking
	PreviousStatus domain.BookingStatus
}
