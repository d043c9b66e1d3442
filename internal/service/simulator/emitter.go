// Package simulator fabricates streaming UI events on randomized timing.
// It stands in for a real summarisation, question answering and live
// transcription backend so UI code can be exercised against realistic cadence.
package simulator

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-transcript-simulator/internal/ids"
	"ai-transcript-simulator/internal/lorem"
	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/logging"
	"ai-transcript-simulator/internal/observability/metrics"
	"ai-transcript-simulator/internal/random"
)

// BulletPrefix starts every summary line.
const BulletPrefix = "• "

// Range is a half-open integer range [Min, Max).
type Range struct {
	Min int
	Max int
}

// Config controls emission timing and content shape.
type Config struct {
	ResultDelayMax     time.Duration // upper bound for summary and answer delays
	WordDelayMax       time.Duration // upper bound for the pause after each live word
	SummaryBullets     Range
	BulletSentences    Range
	AnswerSentences    int
	UtteranceSentences Range
	MaxUtterances      int // 0 runs until cancelled
	Locale             string
	Location           *time.Location
}

// DefaultConfig returns the demo cadence: results within 2s, words within 200ms.
func DefaultConfig() Config {
	return Config{
		ResultDelayMax:     2 * time.Second,
		WordDelayMax:       200 * time.Millisecond,
		SummaryBullets:     Range{Min: 5, Max: 10},
		BulletSentences:    Range{Min: 2, Max: 5},
		AnswerSentences:    5,
		UtteranceSentences: Range{Min: 2, Max: 10},
		Locale:             "en-US",
		Location:           time.Local,
	}
}

// Callback receives payloads delivered by the Emit* functions.
type Callback func(models.Payload)

// Option is a functional option for an Emitter.
type Option func(*Emitter)

// WithLogger sets the logger for the Emitter.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Emitter) {
		e.log = l
	}
}

// WithMetrics sets the metrics sink for the Emitter.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

// WithText replaces the lorem generator.
func WithText(g *lorem.Generator) Option {
	return func(e *Emitter) {
		e.text = g
	}
}

// Emitter produces randomized payloads. Every call gets its own goroutine and
// buffer; only the random source and metrics are shared.
type Emitter struct {
	cfg     Config
	rng     *random.Source
	text    *lorem.Generator
	ids     *ids.Generator
	seq     *ids.Sequence
	now     func() time.Time
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// New creates an Emitter. A nil rng is replaced with an entropy-seeded source.
func New(cfg Config, rng *random.Source, opts ...Option) *Emitter {
	if rng == nil {
		rng = random.New()
	}
	e := &Emitter{
		cfg:     normalize(cfg),
		rng:     rng,
		text:    lorem.New(lorem.DefaultConfig(), rng),
		ids:     ids.NewGenerator(rng),
		seq:     ids.NewSequence(),
		now:     time.Now,
		metrics: metrics.DefaultMetrics,
		log:     logging.WithComponent("simulator"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func normalize(cfg Config) Config {
	if cfg.UtteranceSentences.Min < 1 {
		cfg.UtteranceSentences.Min = 1
	}
	if cfg.UtteranceSentences.Max < cfg.UtteranceSentences.Min {
		cfg.UtteranceSentences.Max = cfg.UtteranceSentences.Min
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return cfg
}

// Config returns the effective configuration.
func (e *Emitter) Config() Config {
	return e.cfg
}

// NewID returns a random 8-4-4-4-12 identifier from the emitter's source.
func (e *Emitter) NewID() string {
	return e.ids.Next()
}

// Summary sends exactly one summary payload after a random delay, then closes
// the channel. If ctx ends first the channel closes empty.
func (e *Emitter) Summary(ctx context.Context) <-chan models.Payload {
	return e.once(ctx, models.KindSummary, func() models.Payload {
		return models.NewSummary(e.summaryText())
	})
}

// Answer sends exactly one answer for questionID after a random delay, then
// closes the channel. If ctx ends first the channel closes empty.
func (e *Emitter) Answer(ctx context.Context, questionID string) <-chan models.Payload {
	return e.once(ctx, models.KindAnswer, func() models.Payload {
		return models.NewAnswer(questionID, e.text.Sentences(e.cfg.AnswerSentences))
	})
}

func (e *Emitter) once(ctx context.Context, kind models.Kind, build func() models.Payload) <-chan models.Payload {
	out := make(chan models.Payload, 1)
	delay := e.rng.Duration(e.cfg.ResultDelayMax)

	go func() {
		defer close(out)
		if !sleep(ctx, delay) {
			e.log.Debug().Str("kind", kind.String()).Msg("Emission cancelled before delay elapsed")
			return
		}
		p := build()
		e.metrics.RecordEmit(kind.String(), delay.Seconds())
		out <- p
	}()

	return out
}

func (e *Emitter) summaryText() string {
	n := e.rng.Between(e.cfg.SummaryBullets.Min, e.cfg.SummaryBullets.Max)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sentences := e.rng.Between(e.cfg.BulletSentences.Min, e.cfg.BulletSentences.Max)
		lines = append(lines, BulletPrefix+e.text.Sentences(sentences))
	}
	return strings.Join(lines, "\n")
}

// sleep waits for d or until ctx is done. It reports whether the wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
