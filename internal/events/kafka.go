package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultPublishTimeout = 5 * time.Second

// KafkaPublisher produces proof events to a Kafka topic, keyed by wallet
// address so one contributor's proofs stay ordered within a partition.
type KafkaPublisher struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPublishTimeout bounds each synchronous produce.
func WithPublishTimeout(d time.Duration) KafkaOption {
	return func(p *KafkaPublisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewKafkaPublisher connects lazily to brokers; the first produce dials.
func NewKafkaPublisher(brokers []string, topic string, opts ...KafkaOption) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.ZstdCompression(), kgo.NoCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &KafkaPublisher{
		client:  client,
		topic:   topic,
		timeout: defaultPublishTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	admin := kadm.NewClient(p.client)
	resp, err := admin.CreateTopic(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, resp.Err)
	}
	return nil
}

// Publish produces one event and waits for the broker acknowledgement.
func (p *KafkaPublisher) Publish(ctx context.Context, event ProofEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode proof event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.WalletAddress),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce proof event: %w", err)
	}

	p.logger.DebugContext(ctx, "proof event published",
		"topic", p.topic,
		"proof_run_id", event.ProofRunID,
	)
	return nil
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	err := p.client.Flush(ctx)
	p.client.Close()
	return err
}
