package repository

import (
	"context"

	"StabTrade/internal/domain/models"
	domrepo "StabTrade/internal/domain/repository"
	pkgkafka "StabTrade/pkg/kafka"
)

type batchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaYieldPublisher publishes one JSON message per outcome keyed by date.
type KafkaYieldPublisher struct {
	producer batchPublisher
	topic    string
}

func NewKafkaYieldPublisher(producer *pkgkafka.Producer, topic string) *KafkaYieldPublisher {
	return &KafkaYieldPublisher{producer: producer, topic: topic}
}

func (p *KafkaYieldPublisher) Name() string { return "kafka" }

func (p *KafkaYieldPublisher) Write(ctx context.Context, outcomes []models.YieldOutcome) error {
	msgs := make([]pkgkafka.Message, len(outcomes))
	for i, o := range outcomes {
		msgs[i] = pkgkafka.Message{Key: []byte(o.Date), Value: o}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaYieldPublisher) Close() error { return p.producer.Close() }

var _ domrepo.YieldSink = (*KafkaYieldPublisher)(nil)
