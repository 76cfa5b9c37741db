package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/integrations/broker"
)

// Значения по умолчанию для релея
const (
	DefaultPollInterval = 2 * time.Second
	DefaultBatchSize    = 50
	DefaultMaxAttempts  = 10
)

// Config настройки релея
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	// MaxAttempts после стольких неудачных отправок событие больше не выбирается
	MaxAttempts int
}

// Relay периодически забирает неотправленные события из outbox и отправляет их в брокер.
// Событие помечается отправленным только после успешной публикации.
type Relay struct {
	repo      OutboxRepository
	publisher Publisher
	txManager TransactionManager
	metrics   Metrics
	logger    Logger
	cfg       Config
	now       func() time.Time
}

// NewRelay создает релей
func NewRelay(
	repo OutboxRepository,
	publisher Publisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Relay{
		repo:      repo,
		publisher: publisher,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run обрабатывает пачки до отмены контекста
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Outbox relay started: interval=%s, batch=%d, maxAttempts=%d",
		r.cfg.PollInterval, r.cfg.BatchSize, r.cfg.MaxAttempts)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("Outbox relay: batch failed: %v", err)
			}
		}
	}
}

// ProcessBatch отправляет одну пачку и возвращает число опубликованных событий
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	published := 0

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		events, err := r.repo.FetchUnpublished(txCtx, r.cfg.BatchSize, r.cfg.MaxAttempts)
		if err != nil {
			return fmt.Errorf("%w: fetch unpublished: %v", ErrInternal, err)
		}
		if len(events) == 0 {
			return nil
		}

		ids := make([]string, 0, len(events))
		for _, e := range events {
			err := r.publisher.Publish(txCtx, broker.Message{
				ID:         e.ID,
				Topic:      e.EventType,
				Key:        e.AggregateID,
				Payload:    e.Payload,
				OccurredAt: e.CreatedAt,
			})
			if err != nil {
				r.metrics.IncOutboxFailed()
				if errors.Is(err, broker.ErrUnavailable) {
					r.logger.Warn("Outbox relay: broker unavailable, postponing %d events", len(events)-len(ids))
					break
				}
				r.logger.Warn("Outbox relay: event id=%s (%s) failed: %v", e.ID, e.EventType, err)
				if err := r.repo.MarkFailed(txCtx, e.ID, err.Error()); err != nil {
					return fmt.Errorf("%w: mark failed: %v", ErrInternal, err)
				}
				if e.Attempts+1 >= r.cfg.MaxAttempts {
					r.logger.Error("Outbox relay: event id=%s (%s) dropped after %d attempts", e.ID, e.EventType, e.Attempts+1)
				}
				continue
			}
			ids = append(ids, e.ID)
			r.metrics.IncOutboxPublished(e.EventType)
		}

		if err := r.repo.MarkPublished(txCtx, ids, r.now()); err != nil {
			return fmt.Errorf("%w: mark published: %v", ErrInternal, err)
		}
		published = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if published > 0 {
		r.logger.Info("Outbox relay: published %d events", published)
	}
	return published, nil
}
