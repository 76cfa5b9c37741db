package healthz

import "context"

// Pinger проверяет доступность зависимости (*sql.DB, redis)
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}
