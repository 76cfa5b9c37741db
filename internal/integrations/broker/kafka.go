package broker

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher отправляет события в Kafka. Топик совпадает с типом события,
// ключ сообщения - идентификатор агрегата, поэтому события одного бронирования идут по порядку.
type KafkaPublisher struct {
	writer kafkaWriter
	log    Logger
}

// NewKafkaPublisher создает publisher поверх kafka.Writer
func NewKafkaPublisher(brokers []string, log Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: no kafka brokers configured", ErrConnect)
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Balancer: &kafka.Hash{},
	})
	log.Info("Kafka publisher configured: brokers=%v", brokers)

	return &KafkaPublisher{writer: writer, log: log}, nil
}

func newKafkaPublisherWithWriter(writer kafkaWriter, log Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish отправляет одно сообщение
func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: msg.Topic,
		Key:   []byte(msg.Key),
		Value: msg.Payload,
		Time:  msg.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(msg.ID)},
			{Key: "event_type", Value: []byte(msg.Topic)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: kafka topic=%s: %v", ErrPublish, msg.Topic, err)
	}

	p.log.Debug("Kafka: published event id=%s topic=%s", msg.ID, msg.Topic)
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
