package outbox

import (
	"context"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/internal/integrations/broker"
)

// OutboxRepository интерфейс outbox-репозитория
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, limit int, maxAttempts int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// Publisher интерфейс отправки в брокер
type Publisher interface {
	Publish(ctx context.Context, msg broker.Message) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики отправки
type Metrics interface {
	IncOutboxPublished(eventType string)
	IncOutboxFailed()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
