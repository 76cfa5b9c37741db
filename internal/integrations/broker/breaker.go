package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings параметры circuit breaker
type BreakerSettings struct {
	MaxRequests      uint32        // запросов в полуоткрытом состоянии
	Interval         time.Duration // период сброса счетчиков в закрытом состоянии
	Timeout          time.Duration // сколько держать разомкнутым
	FailureThreshold uint32        // подряд идущих ошибок до размыкания
}

// BreakerPublisher оборачивает Publisher в circuit breaker.
// Пока брокер недоступен, Publish сразу возвращает ErrUnavailable и не ждет таймаутов.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[any]
	log     Logger
}

// NewBreakerPublisher создает publisher с circuit breaker
func NewBreakerPublisher(name string, next Publisher, settings BreakerSettings, log Logger) *BreakerPublisher {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	})

	return &BreakerPublisher{next: next, breaker: breaker, log: log}
}

// Publish отправляет сообщение через circuit breaker
func (p *BreakerPublisher) Publish(ctx context.Context, msg Message) error {
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.next.Publish(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// State возвращает текущее состояние breaker'а
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}

func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}
