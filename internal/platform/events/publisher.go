// Package events publishes domain events to Kafka. Publishing is best-effort:
// failures are logged, never surfaced to the request path.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event types emitted by the enquiry pipeline.
const (
	TypeEnquiryCreated       = "enquiry.created"
	TypeEnquiryStatusChanged = "enquiry.status_changed"
	TypeClinicClaimed        = "clinic.claimed"
)

type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type Publisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewPublisher builds a Kafka publisher. Empty brokers return a disabled
// publisher whose Publish is a no-op.
func NewPublisher(brokers []string, topic string, logger zerolog.Logger) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return &Publisher{logger: logger}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
		logger: logger,
	}
}

// Publish emits an event keyed by the aggregate ID. Marshal and write errors
// are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload interface{}) {
	if p == nil || p.writer == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Msg("marshaling event payload")
		return
	}
	value, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Msg("marshaling event envelope")
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Str("key", key).Msg("publishing event")
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
