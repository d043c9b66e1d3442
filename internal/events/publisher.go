// Package events publishes simulated payloads to Kafka for downstream UIs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/metrics"
	"ai-transcript-simulator/internal/schema"
)

// Publisher publishes payloads to one Kafka topic per payload kind.
type Publisher struct {
	writers   map[models.Kind]*kafka.Writer
	topics    map[models.Kind]string
	principal string
	enabled   bool
	validator *schema.Validator
	metrics   *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	TopicSummary string
	TopicAnswer  string
	TopicPartial string
	TopicFinal   string
	Principal    string
	Enabled      bool
	Metrics      *metrics.Metrics
}

func (c *Config) topicMap() map[models.Kind]string {
	return map[models.Kind]string{
		models.KindSummary: c.TopicSummary,
		models.KindAnswer:  c.TopicAnswer,
		models.KindPartial: c.TopicPartial,
		models.KindFinal:   c.TopicFinal,
	}
}

// New creates a Kafka publisher. A nil or disabled config yields a log-only publisher.
func New(cfg *Config) *Publisher {
	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			topics:    map[models.Kind]string{},
			validator: schema.New(),
			metrics:   metrics.DefaultMetrics,
		}
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}

	p := &Publisher{
		topics:    cfg.topicMap(),
		principal: cfg.Principal,
		validator: schema.New(),
		metrics:   m,
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return p
	}

	// Longer dial timeout for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	p.writers = make(map[models.Kind]*kafka.Writer, len(p.topics))
	for kind, topic := range p.topics {
		p.writers[kind] = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Transport:    transport,
		}
	}
	p.enabled = true

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicSummary", cfg.TopicSummary).
		Str("topicAnswer", cfg.TopicAnswer).
		Str("topicPartial", cfg.TopicPartial).
		Str("topicFinal", cfg.TopicFinal).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return p
}

// Enabled reports whether messages are written to Kafka.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// Topic returns the topic a payload kind is routed to.
func (p *Publisher) Topic(kind models.Kind) string {
	return p.topics[kind]
}

// Publish validates payload and writes it to the topic for its kind, keyed by key.
func (p *Publisher) Publish(ctx context.Context, key string, payload models.Payload) error {
	if err := p.validator.Validate(payload); err != nil {
		p.metrics.RecordRejected("kafka")
		return fmt.Errorf("invalid payload: %w", err)
	}

	kind := payload.Kind()
	return p.publish(ctx, p.writers[kind], p.topics[kind], kind.String(), key, payload)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes all Kafka writers.
func (p *Publisher) Close() error {
	var err error
	for kind, w := range p.writers {
		if e := w.Close(); e != nil {
			log.Error().Err(e).Str("kind", kind.String()).Msg("Error closing Kafka writer")
			err = e
		}
	}
	return err
}
