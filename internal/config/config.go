package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration is the full service configuration, loaded from the environment.
type Configuration struct {
	Service       ServiceConfig
	Simulator     SimulatorConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds identity and listener ports.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	GRPCPort    string
	MetricsPort string
}

// SimulatorConfig controls emission timing, content and the live feed.
type SimulatorConfig struct {
	Seed           uint64 // 0 seeds from entropy
	ResultDelayMax time.Duration
	WordDelayMax   time.Duration
	MaxUtterances  int
	LiveFeed       bool
	HistorySize    int // finals replayed to newly connected websocket clients
	Locale         string
	TimeZone       string
}

// KafkaConfig holds the optional Kafka sink settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicSummary string
	TopicAnswer  string
	TopicPartial string
	TopicFinal   string
	Principal    string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-transcript-simulator")

	return &Configuration{
		Service: ServiceConfig{
			Principal:   principal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			GRPCPort:    envOrDefault("GRPC_PORT", "50051"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Simulator: SimulatorConfig{
			Seed:           envOrDefaultUint64("SIM_SEED", 0),
			ResultDelayMax: envOrDefaultDuration("SIM_RESULT_DELAY_MAX", 2*time.Second),
			WordDelayMax:   envOrDefaultDuration("SIM_WORD_DELAY_MAX", 200*time.Millisecond),
			MaxUtterances:  envOrDefaultInt("SIM_MAX_UTTERANCES", 0),
			LiveFeed:       envOrDefaultBool("SIM_LIVE_FEED", true),
			HistorySize:    envOrDefaultInt("SIM_HISTORY_SIZE", 200),
			Locale:         envOrDefault("SIM_LOCALE", "en-US"),
			TimeZone:       envOrDefault("SIM_TIMEZONE", "Local"),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      envList("KAFKA_BROKERS"),
			TopicSummary: envOrDefault("KAFKA_TOPIC_SUMMARY", "simulation.summary"),
			TopicAnswer:  envOrDefault("KAFKA_TOPIC_ANSWER", "simulation.answer"),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "simulation.transcript.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "simulation.transcript.final"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

// Location resolves TimeZone, falling back to time.Local.
func (c SimulatorConfig) Location() *time.Location {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
