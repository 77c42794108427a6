//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"flowmint/internal/platform/config"
	platformkafka "flowmint/internal/platform/kafka"
	"flowmint/pkg/platform/audit"
	auditkafka "flowmint/pkg/platform/audit/store/kafka"
	"flowmint/pkg/testutil/containers"
)

const topic = "wallet-registry-audit-test"

type KafkaSinkSuite struct {
	suite.Suite
	broker   string
	producer *kgo.Client
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T()).Broker

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := platformkafka.New(ctx, config.KafkaConfig{Brokers: s.broker, Topic: topic})
	s.Require().NoError(err)
	s.Require().NotNil(client)
	s.producer = client
}

func (s *KafkaSinkSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *KafkaSinkSuite) TestAppendProducesKeyedRecord() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink := auditkafka.New(s.producer, topic)
	event := audit.Event{
		Category:      audit.CategoryCompliance,
		Timestamp:     time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		Action:        string(audit.EventWalletRegistered),
		WalletAddress: "0x1",
		Role:          "buyer",
	}
	s.Require().NoError(sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollRecords(ctx, 1)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().Len(records, 1)

	s.Equal("0x1", string(records[0].Key))
	var got audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal("buyer", got.Role)
	s.Equal(string(audit.EventWalletRegistered), got.Action)
}

func (s *KafkaSinkSuite) TestEnsureTopicToleratesExisting() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := platformkafka.New(ctx, config.KafkaConfig{Brokers: s.broker, Topic: topic})
	s.Require().NoError(err)
	client.Close()
}
