package broker

import "context"

// NoopPublisher только логирует события; используется, когда брокер не настроен
type NoopPublisher struct {
	log Logger
}

func NewNoopPublisher(log Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(_ context.Context, msg Message) error {
	p.log.Debug("Noop publisher: dropped event id=%s topic=%s", msg.ID, msg.Topic)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
