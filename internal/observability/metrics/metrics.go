// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_transcript_simulator"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	Registry prometheus.Gatherer

	// Emitter metrics
	PayloadsEmitted *prometheus.CounterVec
	EmitDelay       *prometheus.HistogramVec
	CallbackPanics  *prometheus.CounterVec

	// Live transcription metrics
	LiveSessionsActive prometheus.Gauge
	LiveSessionsTotal  prometheus.Counter
	Utterances         prometheus.Counter
	UtteranceWords     prometheus.Histogram

	// Validation
	PayloadsRejected *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Websocket hub metrics
	HubClients       prometheus.Gauge
	HubBroadcasts    *prometheus.CounterVec
	HubWriteFailures prometheus.Counter
	HubCommands      *prometheus.CounterVec

	// gRPC metrics
	GRPCCalls *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance registered with the default registry.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all metrics and registers them with reg.
// If reg also implements prometheus.Gatherer it is exposed as Registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	return &Metrics{
		Registry: gatherer,

		PayloadsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_emitted_total",
			Help:      "Total number of simulated payloads emitted",
		}, []string{"kind"}),
		EmitDelay: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "emit_delay_seconds",
			Help:      "Randomized delay applied before emitting a payload",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
		}, []string{"kind"}),
		CallbackPanics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_panics_total",
			Help:      "Total number of recovered panics raised by payload callbacks",
		}, []string{"kind"}),

		LiveSessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions_active",
			Help:      "Number of running live transcription loops",
		}),
		LiveSessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_sessions_total",
			Help:      "Total number of live transcription loops started",
		}),
		Utterances: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_total",
			Help:      "Total number of simulated utterances completed with a final transcript",
		}),
		UtteranceWords: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "utterance_words",
			Help:      "Number of words per simulated utterance",
			Buckets:   []float64{8, 16, 32, 64, 128, 256},
		}),

		PayloadsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_rejected_total",
			Help:      "Total number of payloads that failed validation",
		}, []string{"sink"}),

		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		HubClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hub_clients",
			Help:      "Number of connected websocket clients",
		}),
		HubBroadcasts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_broadcasts_total",
			Help:      "Total number of payloads broadcast to websocket clients",
		}, []string{"kind"}),
		HubWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_write_failures_total",
			Help:      "Total number of failed websocket writes",
		}),
		HubCommands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_commands_total",
			Help:      "Total number of commands received from websocket clients",
		}, []string{"command"}),

		GRPCCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_calls_total",
			Help:      "Total number of gRPC calls handled",
		}, []string{"method", "code"}),
	}
}

// RecordEmit records a payload emitted after the given delay.
func (m *Metrics) RecordEmit(kind string, delaySeconds float64) {
	m.PayloadsEmitted.WithLabelValues(kind).Inc()
	m.EmitDelay.WithLabelValues(kind).Observe(delaySeconds)
}

// RecordCallbackPanic records a recovered callback panic.
func (m *Metrics) RecordCallbackPanic(kind string) {
	m.CallbackPanics.WithLabelValues(kind).Inc()
}

// RecordLiveStart records a live loop starting.
func (m *Metrics) RecordLiveStart() {
	m.LiveSessionsTotal.Inc()
	m.LiveSessionsActive.Inc()
}

// RecordLiveStop records a live loop stopping.
func (m *Metrics) RecordLiveStop() {
	m.LiveSessionsActive.Dec()
}

// RecordUtterance records a completed utterance.
func (m *Metrics) RecordUtterance(words int) {
	m.Utterances.Inc()
	m.UtteranceWords.Observe(float64(words))
}

// RecordRejected records a payload rejected by a sink's validator.
func (m *Metrics) RecordRejected(sink string) {
	m.PayloadsRejected.WithLabelValues(sink).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordBroadcast records a payload fanned out to websocket clients.
func (m *Metrics) RecordBroadcast(kind string) {
	m.HubBroadcasts.WithLabelValues(kind).Inc()
}

// RecordCommand records a command frame received from a websocket client.
// Frames that fail to decode are recorded as "invalid".
func (m *Metrics) RecordCommand(command string) {
	m.HubCommands.WithLabelValues(command).Inc()
}

// RecordGRPCCall records a handled gRPC call.
func (m *Metrics) RecordGRPCCall(method, code string) {
	m.GRPCCalls.WithLabelValues(method, code).Inc()
}
