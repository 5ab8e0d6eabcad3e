package repository

import (
	"context"
	"fmt"

	"stockview/internal/domain/models"
	pkgkafka "stockview/pkg/kafka"
)

// KafkaEventPublisher implements QuotePublisher on top of the shared
// producer, keyed by symbol so each symbol's events stay ordered.
type KafkaEventPublisher struct {
	producer    *pkgkafka.Producer
	quotesTopic string
	alertsTopic string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, quotesTopic, alertsTopic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:    producer,
		quotesTopic: quotesTopic,
		alertsTopic: alertsTopic,
	}
}

func (p *KafkaEventPublisher) PublishQuote(ctx context.Context, q *models.Quote) error {
	event := models.QuoteEvent{
		Symbol:    q.Symbol,
		LastPrice: q.LastPrice,
		T:         q.AsOf.Unix(),
	}
	if err := p.producer.Publish(ctx, p.quotesTopic, []byte(q.Symbol), event); err != nil {
		return fmt.Errorf("publish quote %s: %w", q.Symbol, err)
	}
	return nil
}

func (p *KafkaEventPublisher) PublishTrigger(ctx context.Context, t *models.AlertTrigger) error {
	if err := p.producer.Publish(ctx, p.alertsTopic, []byte(t.StockID), t); err != nil {
		return fmt.Errorf("publish trigger %s: %w", t.StockID, err)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}
