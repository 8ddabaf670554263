// Package kafka writes audit events to Kafka topics, one topic per category.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "chatguard/pkg/platform/audit"
)

const (
	DefaultSecurityTopic   = "chatguard.audit.security"
	DefaultOperationsTopic = "chatguard.audit.operations"
)

// Producer is the subset of *kgo.Client used by the sink.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink implements audit.Sink on top of a franz-go client.
type Sink struct {
	producer Producer
	topics   map[audit.EventCategory]string
}

type Option func(*Sink)

// WithTopic overrides the topic used for a category.
func WithTopic(category audit.EventCategory, topic string) Option {
	return func(s *Sink) {
		s.topics[category] = topic
	}
}

func New(producer Producer, opts ...Option) *Sink {
	s := &Sink{
		producer: producer,
		topics: map[audit.EventCategory]string{
			audit.CategorySecurity:   DefaultSecurityTopic,
			audit.CategoryOperations: DefaultOperationsTopic,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Topics returns every topic the sink may write to.
func (s *Sink) Topics() []string {
	out := make([]string, 0, len(s.topics))
	for _, t := range s.topics {
		out = append(out, t)
	}
	return out
}

// Write produces the batch synchronously. Records are keyed by subject so all
// events about one user land on the same partition in order.
func (s *Sink) Write(ctx context.Context, events []audit.SecurityEvent) error {
	records := make([]*kgo.Record, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal audit event: %w", err)
		}
		topic, ok := s.topics[event.Category]
		if !ok {
			topic = s.topics[audit.CategoryOperations]
		}
		records = append(records, &kgo.Record{
			Topic: topic,
			Key:   []byte(event.Subject),
			Value: payload,
			Headers: []kgo.RecordHeader{
				{Key: "action", Value: []byte(event.Action)},
				{Key: "severity", Value: []byte(event.Severity)},
			},
		})
	}

	if err := s.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce audit batch: %w", err)
	}
	return nil
}
