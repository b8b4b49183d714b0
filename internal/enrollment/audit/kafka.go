package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer ships one event record to the broker. Satisfied by KafkaProducer
// and by test fakes.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// KafkaProducer publishes records with franz-go.
type KafkaProducer struct {
	client *kgo.Client
}

func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaProducer{client: client}, nil
}

func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	results := p.client.ProduceSync(ctx, &kgo.Record{Key: key, Value: value})
	return results.FirstErr()
}

func (p *KafkaProducer) Close() {
	p.client.Close()
}

// OutboxSource is the slice of Outbox the relay needs.
type OutboxSource interface {
	FetchUnpublished(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, id string) error
}

// Relay drains the outbox table to the broker. Entries stay unpublished on
// produce failure and are retried on the next tick, so delivery is
// at-least-once; consumers dedupe on the event id inside the payload.
type Relay struct {
	source   OutboxSource
	producer Producer
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewRelay(source OutboxSource, producer Producer, interval time.Duration, logger *slog.Logger) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	return &Relay{source: source, producer: producer, interval: interval, batch: 100, logger: logger}
}

func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

func (r *Relay) drainOnce(ctx context.Context) error {
	entries, err := r.source.FetchUnpublished(ctx, r.batch)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := r.producer.Produce(ctx, []byte(entry.AggregateID), entry.Payload); err != nil {
			r.logger.WarnContext(ctx, "failed to publish outbox entry",
				"entry_id", entry.ID, "event_type", entry.EventType, "error", err)
			return err
		}
		if err := r.source.MarkPublished(ctx, entry.ID); err != nil {
			return err
		}
	}
	return nil
}
