package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"flowmint/internal/platform/config"
)

// New creates a franz-go producer client for the configured brokers and
// makes sure the audit topic exists. Returns nil when no brokers are configured.
func New(ctx context.Context, cfg config.KafkaConfig) (*kgo.Client, error) {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		return nil, nil
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.DeliveryTimeout > 0 {
		// unbounded by default, which would stall the audit drain on a dead broker
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}

	if err := EnsureTopic(ctx, kadm.NewClient(client), cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// EnsureTopic creates topic with broker defaults, tolerating an existing topic.
func EnsureTopic(ctx context.Context, admin *kadm.Client, topic string) error {
	resp, err := admin.CreateTopic(ctx, -1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}
