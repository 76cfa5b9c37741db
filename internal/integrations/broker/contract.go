package broker

import "context"

// Publisher отправляет события во внешний брокер
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
