// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/config"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/deps"
	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/dto"
)

// ProducerMetrics receives produce outcomes
type ProducerMetrics interface {
	RecordKafkaMessage()
	RecordKafkaError(errorType string)
}

// Producer implements deps.DeliveryEventProducer
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	metrics  ProducerMetrics
	logger   zerolog.Logger
}

// NewProducer returns a sarama-backed producer, or a no-op one when Kafka is disabled
func NewProducer(cfg *config.KafkaConfig, metrics ProducerMetrics, logger zerolog.Logger) (deps.DeliveryEventProducer, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Kafka disabled, delivery events will not be published")
		return NoopProducer{}, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.DeliveryTopic).
		Msg("Kafka producer initialized successfully")

	return newProducer(producer, cfg.DeliveryTopic, metrics, logger), nil
}

func newProducer(producer sarama.SyncProducer, topic string, metrics ProducerMetrics, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		logger:   logger,
	}
}

// SendDeliveryEvent publishes a delivery event keyed by user ID
func (p *Producer) SendDeliveryEvent(ctx context.Context, event *dto.DeliveryEvent) error {
	return p.sendEvent(ctx, fmt.Sprintf("%d", event.UserID), event)
}

// sendEvent sends an event to the delivery topic
func (p *Producer) sendEvent(_ context.Context, key string, event interface{}) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordKafkaError("marshal_failed")
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(jsonData),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.metrics.RecordKafkaError("send_failed")
		p.logger.Error().Err(err).Str("topic", p.topic).Msg("Failed to send Kafka message")
		return err
	}

	p.metrics.RecordKafkaMessage()
	p.logger.Debug().
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NoopProducer drops events
type NoopProducer struct{}

// SendDeliveryEvent implements deps.DeliveryEventProducer
func (NoopProducer) SendDeliveryEvent(context.Context, *dto.DeliveryEvent) error { return nil }

// Close implements deps.DeliveryEventProducer
func (NoopProducer) Close() error { return nil }
