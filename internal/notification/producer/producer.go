package producer

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
)

// Sender is the part of pulsar.Producer used for publishing
type Sender interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Close()
}

// BaseProducer provides common functionality for all producers
type BaseProducer struct {
	sender Sender
	topic  string
	logger logger.Logger
}

// NewClient creates a Pulsar client from configuration
func NewClient(cfg config.PulsarConfig) (pulsar.Client, error) {
	opts := pulsar.ClientOptions{
		URL:               cfg.URL,
		OperationTimeout:  cfg.OperationTimeout,
		ConnectionTimeout: cfg.ConnectionTimeout,
	}
	if cfg.AuthToken != "" {
		opts.Authentication = pulsar.NewAuthenticationToken(cfg.AuthToken)
	}

	client, err := pulsar.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pulsar client: %w", err)
	}
	return client, nil
}

// NewBaseProducer creates a new base producer on topic
func NewBaseProducer(client pulsar.Client, topic string, log logger.Logger) (*BaseProducer, error) {
	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic:                   topic,
		SendTimeout:             30 * time.Second,
		MaxPendingMessages:      100,
		BatchingMaxPublishDelay: 10 * time.Millisecond,
		BatchingMaxMessages:     1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return newBaseProducer(producer, topic, log), nil
}

func newBaseProducer(sender Sender, topic string, log logger.Logger) *BaseProducer {
	return &BaseProducer{
		sender: sender,
		topic:  topic,
		logger: log.WithFields(map[string]interface{}{"topic": topic}),
	}
}

// Close closes the producer and releases resources
func (p *BaseProducer) Close() error {
	if p.sender != nil {
		p.sender.Close()
	}
	return nil
}
