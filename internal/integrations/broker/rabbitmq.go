package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange topic exchange для событий бронирований
const DefaultExchange = "bookings.events"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher отправляет события в topic exchange; routing key совпадает с типом события
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	log      Logger
	mu       sync.Mutex
}

// NewRabbitMQPublisher подключается к RabbitMQ и объявляет exchange
func NewRabbitMQPublisher(url, exchange string, log Logger) (*RabbitMQPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: rabbitmq: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: rabbitmq channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	log.Info("RabbitMQ publisher connected: exchange=%s", exchange)
	return &RabbitMQPublisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

func newRabbitMQPublisherWithChannel(ch amqpChannel, exchange string, log Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{channel: ch, exchange: exchange, log: log}
}

// Publish отправляет persistent-сообщение
func (p *RabbitMQPublisher) Publish(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	timestamp := msg.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	err := p.channel.PublishWithContext(ctx, p.exchange, msg.Topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Type:         msg.Topic,
		Timestamp:    timestamp,
		Headers:      amqp.Table{"aggregate_id": msg.Key},
		Body:         msg.Payload,
	})
	if err != nil {
		return fmt.Errorf("%w: rabbitmq routing key=%s: %v", ErrPublish, msg.Topic, err)
	}

	p.log.Debug("RabbitMQ: published event id=%s routing key=%s", msg.ID, msg.Topic)
	return nil
}

// Close закрывает канал и соединение
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("RabbitMQ: error closing channel: %v", err)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
