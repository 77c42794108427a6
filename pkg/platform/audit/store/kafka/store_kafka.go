// Package kafka streams audit events to a Kafka topic so downstream consumers
// (indexers, analytics) can follow registry changes.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "flowmint/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client used by the sink.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store implements audit.Store by producing one record per event, keyed by
// wallet address so events for a wallet stay ordered within a partition.
type Store struct {
	producer Producer
	topic    string
}

// New creates a Kafka-backed audit sink.
func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

// Append produces the event synchronously.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.WalletAddress),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
