package broker

import "fmt"

// Config настройки подключения к брокеру
type Config struct {
	Kind     string // kafka | rabbitmq | none
	Brokers  string // адреса Kafka через запятую
	URL      string // amqp://...
	Exchange string
	Breaker  BreakerSettings
}

// New создает publisher по конфигурации. Реальные брокеры оборачиваются в circuit breaker.
func New(cfg Config, log Logger) (Publisher, error) {
	var (
		publisher Publisher
		err       error
	)

	switch cfg.Kind {
	case KindKafka:
		publisher, err = NewKafkaPublisher(SplitBrokers(cfg.Brokers), log)
	case KindRabbitMQ:
		publisher, err = NewRabbitMQPublisher(cfg.URL, cfg.Exchange, log)
	case KindNone, "":
		return NewNoopPublisher(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	return NewBreakerPublisher(cfg.Kind, publisher, cfg.Breaker, log), nil
}
