// Package kafka publishes domain events to Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON-encoded events to "<prefix>.<event>" topics.
type Publisher struct {
	writer messageWriter
	prefix string
}

var _ portssvc.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a publisher for the given brokers. The topic is chosen
// per message, so one writer serves every event.
func NewPublisher(brokers []string, topicPrefix string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		prefix: topicPrefix,
	}
}

// Topic returns the topic an event is written to.
func (p *Publisher) Topic(event string) string {
	if p.prefix == "" {
		return event
	}
	return p.prefix + "." + event
}

// Publish writes payload keyed by key, so events for one expense or payment
// stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event string, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.Topic(event),
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
