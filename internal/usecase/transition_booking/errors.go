package transition_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrBusinessNotFound возвращается, когда бизнес бронирования не найден
	ErrBusinessNotFound = errors.New("transition_booking: business not found")

	// ErrIllegalTransition возвращается, когда переход не разрешен таблицей статусов
	ErrIllegalTransition = errors.New("transition_booking: illegal status transition")

	// ErrForbidden возвращается, когда у пользователя нет прав на переход
	ErrForbidden = errors.New("transition_booking: actor is not allowed to perform this transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
