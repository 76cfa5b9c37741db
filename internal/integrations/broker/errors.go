package broker

import "errors"

var (
	// ErrConnect возвращается, если не удалось подключиться к брокеру
	ErrConnect = errors.New("broker: failed to connect")

	// ErrPublish возвращается при ошибке отправки сообщения
	ErrPublish = errors.New("broker: failed to publish message")

	// ErrUnavailable возвращается, когда circuit breaker разомкнут и отправка не выполнялась
	ErrUnavailable = errors.New("broker: unavailable, circuit breaker is open")

	// ErrUnknownKind возвращается для неизвестного типа брокера в конфигурации
	ErrUnknownKind = errors.New("broker: unknown broker kind")
)
