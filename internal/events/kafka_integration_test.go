//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"dataproof/internal/events"
	"dataproof/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())
}

func (s *KafkaPublisherSuite) TestPublishIsKeyedByWallet() {
	ctx := context.Background()
	topic := "proof-events-test"

	pub, err := events.NewKafkaPublisher([]string{s.redpanda.Broker}, topic)
	s.Require().NoError(err)
	defer pub.Close()

	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1), "existing topic is not an error")

	s.Require().NoError(pub.Publish(ctx, events.ProofEvent{
		Type:          events.TypeProofGenerated,
		ProofRunID:    "run-1",
		WalletAddress: "0xabc",
		Valid:         true,
		Score:         0.75,
		OccurredAt:    time.Now().UTC(),
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	s.Require().Empty(fetches.Errors())

	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal("0xabc", string(records[0].Key))

	var got events.ProofEvent
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal("run-1", got.ProofRunID)
	s.Equal(0.75, got.Score)
}
