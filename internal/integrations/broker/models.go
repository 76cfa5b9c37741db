package broker

import (
	"strings"
	"time"
)

// Kinds of supported brokers
const (
	KindKafka    = "kafka"
	KindRabbitMQ = "rabbitmq"
	KindNone     = "none"
)

// Message событие для отправки.
// Topic используется как топик Kafka или routing key RabbitMQ, Key как ключ партиционирования.
type Message struct {
	ID         string
	Topic      string
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

// SplitBrokers разбирает список адресов "host1:9092,host2:9092"
func SplitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
