package repository

import (
	"context"
	"fmt"

	"Velra/internal/domain/models"
	domrepo "Velra/internal/domain/repository"
	pkgkafka "Velra/pkg/kafka"
)

// KafkaPublisher announces refreshes on a topic and doubles as the
// log collector's sink.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishRefresh(ctx context.Context, ev models.RefreshEvent) error {
	key := []byte(ev.GeneratedAt.UTC().Format("2006-01-02T15"))
	if err := p.producer.Publish(ctx, p.topic, key, ev); err != nil {
		return fmt.Errorf("publish refresh: %w", err)
	}
	return nil
}

// PublishMessage implements logger.Publisher.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRefresh(context.Context, models.RefreshEvent) error { return nil }
func (NoopPublisher) Close() error                                             { return nil }

var (
	_ domrepo.Publisher = (*KafkaPublisher)(nil)
	_ domrepo.Publisher = NoopPublisher{}
)
