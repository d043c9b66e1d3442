package events

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/metrics"
	"ai-transcript-simulator/internal/schema"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.Enabled() {
				t.Error("expected publisher to be disabled")
			}
			if len(p.writers) != 0 {
				t.Error("expected no writers when disabled")
			}
		})
	}
}

func TestNew_EnabledCreatesWriterPerKind(t *testing.T) {
	p := New(&Config{
		Enabled:      true,
		Brokers:      []string{"localhost:9092"},
		TopicSummary: "s",
		TopicAnswer:  "a",
		TopicPartial: "p",
		TopicFinal:   "f",
		Metrics:      metrics.NewMetrics(prometheus.NewRegistry()),
	})
	defer p.Close()

	if !p.Enabled() {
		t.Fatal("expected publisher to be enabled")
	}
	if len(p.writers) != 4 {
		t.Fatalf("expected 4 writers, got %d", len(p.writers))
	}
	if p.writers[models.KindFinal].Topic != "f" {
		t.Errorf("expected final writer on topic 'f', got %s", p.writers[models.KindFinal].Topic)
	}
}

func TestNew_TopicRouting(t *testing.T) {
	p := New(&Config{
		TopicSummary: "t.summary",
		TopicAnswer:  "t.answer",
		TopicPartial: "t.partial",
		TopicFinal:   "t.final",
		Principal:    "test-principal",
	})

	tests := []struct {
		kind     models.Kind
		expected string
	}{
		{models.KindSummary, "t.summary"},
		{models.KindAnswer, "t.answer"},
		{models.KindPartial, "t.partial"},
		{models.KindFinal, "t.final"},
	}
	for _, tt := range tests {
		if got := p.Topic(tt.kind); got != tt.expected {
			t.Errorf("Topic(%s) = %s, want %s", tt.kind, got, tt.expected)
		}
	}
	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
}

func TestPublisher_Publish_Disabled(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	p := New(&Config{Enabled: false, TopicPartial: "t.partial", Metrics: m})

	err := p.Publish(context.Background(), "sess-1", models.NewPartial("hello", "2024-01-01T00:00:00.000Z"))
	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if got := testutil.ToFloat64(m.KafkaPublishTotal.WithLabelValues("t.partial", "partial")); got != 1 {
		t.Errorf("expected 1 publish recorded, got %v", got)
	}
}

func TestPublisher_Publish_AllKinds(t *testing.T) {
	p := New(&Config{Enabled: false})

	payloads := []models.Payload{
		models.NewSummary("• one"),
		models.NewAnswer("q1", "yes"),
		models.NewPartial("a", "ts"),
		models.NewFinal("a b", "ts", 12),
	}
	for _, payload := range payloads {
		if err := p.Publish(context.Background(), "key", payload); err != nil {
			t.Errorf("%s: expected no error, got %v", payload.Kind(), err)
		}
	}
}

func TestPublisher_Publish_RejectsInvalid(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	p := New(&Config{Enabled: false, Metrics: m})

	err := p.Publish(context.Background(), "key", models.Payload{})
	if !errors.Is(err, schema.ErrEmptyPayload) {
		t.Errorf("expected ErrEmptyPayload, got %v", err)
	}
	if got := testutil.ToFloat64(m.PayloadsRejected.WithLabelValues("kafka")); got != 1 {
		t.Errorf("expected 1 rejected payload, got %v", got)
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_ZeroValue(t *testing.T) {
	p := &Publisher{}

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing zero publisher, got %v", err)
	}
}
