package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Event types emitted after catalogue or stock writes commit. External
// caches and search indexes react to these; the core never performs
// invalidation inline.
const (
	TypeProductUpdated      = "product.updated"
	TypeProductDeleted      = "product.deleted"
	TypeProductStockChanged = "product.stock_changed"
)

// ProductEvent is the JSON envelope published to the catalogue topic.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	OrderID    string    `json:"orderId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits product events after the owning transaction commits.
// Publishing is best-effort: a failed publish is logged by the caller
// and never fails the committed write.
type Publisher interface {
	Publish(event ProductEvent) error
	Close() error
}

// kafkaPublisher implements Publisher on a sarama synchronous producer.
type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaPublisher connects a synchronous producer to the given brokers.
func NewKafkaPublisher(brokers, topic string, logger zerolog.Logger) (Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger = logger.With().Str("component", "event-publisher").Logger()
	logger.Info().Str("brokers", brokers).Str("topic", topic).Msg("Kafka publisher initialised")

	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Publish sends the event keyed by product ID, so per-product ordering
// is preserved across partitions.
func (p *kafkaPublisher) Publish(event ProductEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ProductID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("type", event.Type).
			Str("product_id", event.ProductID).
			Msg("failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug().
		Str("type", event.Type).
		Str("product_id", event.ProductID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("event published")

	return nil
}

// Close shuts the producer down.
func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// nopPublisher discards events; used when Kafka is disabled.
type nopPublisher struct{}

// NewNopPublisher returns a publisher that discards all events.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(ProductEvent) error { return nil }
func (nopPublisher) Close() error               { return nil }
