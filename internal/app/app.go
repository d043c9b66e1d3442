package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai-transcript-simulator/internal/config"
	"ai-transcript-simulator/internal/events"
	"ai-transcript-simulator/internal/hub"
	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/logging"
	"ai-transcript-simulator/internal/observability/metrics"
	"ai-transcript-simulator/internal/random"
	"ai-transcript-simulator/internal/service/simulator"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration
	Metrics     *metrics.Metrics
	Emitter     *simulator.Emitter
	Hub         *hub.Hub
	Publisher   *events.Publisher

	mu      sync.Mutex
	ctx     context.Context
	live    *simulator.LiveSession
	history []models.Transcription
}

// NewEmitter builds an emitter from the simulator configuration. A zero seed
// draws from system entropy.
func NewEmitter(cfg config.SimulatorConfig, opts ...simulator.Option) *simulator.Emitter {
	rng := random.New()
	if cfg.Seed != 0 {
		rng = random.NewSeeded(cfg.Seed)
	}

	simCfg := simulator.DefaultConfig()
	simCfg.ResultDelayMax = cfg.ResultDelayMax
	simCfg.WordDelayMax = cfg.WordDelayMax
	simCfg.MaxUtterances = cfg.MaxUtterances
	simCfg.Locale = cfg.Locale
	simCfg.Location = cfg.Location()

	return simulator.New(simCfg, rng, opts...)
}

// New constructs a new Application from the provided configuration.
// A nil m uses metrics.DefaultMetrics.
func New(cfg *config.Configuration, m *metrics.Metrics) *Application {
	if m == nil {
		m = metrics.DefaultMetrics
	}

	a := &Application{
		Cfg:     cfg,
		Logger:  logging.WithComponent("application"),
		Metrics: m,
		Emitter: NewEmitter(cfg.Simulator, simulator.WithMetrics(m)),
		Publisher: events.New(&events.Config{
			Brokers:      cfg.Kafka.Brokers,
			TopicSummary: cfg.Kafka.TopicSummary,
			TopicAnswer:  cfg.Kafka.TopicAnswer,
			TopicPartial: cfg.Kafka.TopicPartial,
			TopicFinal:   cfg.Kafka.TopicFinal,
			Principal:    cfg.Kafka.Principal,
			Enabled:      cfg.Kafka.Enabled,
			Metrics:      m,
		}),
		ctx: context.Background(),
	}
	a.Hub = hub.New(m,
		hub.WithCommandHandler(a.HandleCommand),
		hub.WithReplay(a.Transcriptions),
	)

	a.Logger.Info().
		Bool("seeded", cfg.Simulator.Seed != 0).
		Bool("kafka", a.Publisher.Enabled()).
		Msg("Transcript simulator application created")
	return a
}

// Start runs the websocket hub and, when configured, the live feed. Both stop
// when ctx is done.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	a.StartupTime = time.Now().UTC()
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Transcript simulator starting")

	go a.Hub.Run(ctx)

	if a.Cfg.Simulator.LiveFeed {
		a.StartLiveFeed(ctx)
	}
	return nil
}

// Context returns the context passed to Start, or context.Background before Start.
func (a *Application) Context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// Forward delivers every payload from ch to the hub and the Kafka publisher,
// keyed by key. The returned channel closes once ch is drained.
func (a *Application) Forward(ctx context.Context, key string, ch <-chan models.Payload) <-chan struct{} {
	return a.Emitter.Deliver(ch, func(p models.Payload) {
		a.dispatch(ctx, key, p)
	})
}

func (a *Application) dispatch(ctx context.Context, key string, p models.Payload) {
	if p.FinalTranscription != nil {
		a.remember(*p.FinalTranscription)
	}
	if err := a.Hub.Broadcast(p); err != nil {
		a.Logger.Warn().Err(err).Str("key", key).Msg("Hub broadcast failed")
	}
	if err := a.Publisher.Publish(ctx, key, p); err != nil {
		a.Logger.Warn().Err(err).Str("key", key).Msg("Publish failed")
	}
}

// remember appends a final to the replay history, keeping the newest
// Simulator.HistorySize entries.
func (a *Application) remember(t models.Transcription) {
	limit := a.Cfg.Simulator.HistorySize
	if limit <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, t)
	if over := len(a.history) - limit; over > 0 {
		a.history = append(a.history[:0:0], a.history[over:]...)
	}
}

// Transcriptions returns a copy of the finals replayed to new websocket clients.
func (a *Application) Transcriptions() []models.Transcription {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.history) == 0 {
		return nil
	}
	out := make([]models.Transcription, len(a.history))
	copy(out, a.history)
	return out
}

// HandleCommand serves a command sent by a websocket client. Results are
// broadcast to every client.
func (a *Application) HandleCommand(sessionID int64, cmd models.Command) {
	cmdLog := a.Logger.With().
		Int64("sessionId", sessionID).
		Str("command", cmd.Kind.String()).
		Logger()

	switch cmd.Kind {
	case models.CommandGetSummary:
		a.RequestSummary(a.Context())
	case models.CommandAskQuestion:
		if cmd.ID == "" {
			cmdLog.Warn().Msg("Question without id ignored")
			return
		}
		cmdLog.Debug().Str("question", cmd.Question).Msg("Question received")
		a.RequestAnswer(a.Context(), cmd.ID)
	default:
		cmdLog.Warn().Msg("Command not supported by the simulator")
	}
}

// RequestSummary schedules one summary and returns its request ID.
func (a *Application) RequestSummary(ctx context.Context) string {
	id := a.Emitter.NewID()
	reqLog := logging.WithRequest(models.KindSummary.String(), id)
	reqLog.Info().Msg("Summary requested")

	a.Forward(ctx, id, a.Emitter.Summary(ctx))
	return id
}

// RequestAnswer schedules one answer to questionID and returns its request ID.
func (a *Application) RequestAnswer(ctx context.Context, questionID string) string {
	id := a.Emitter.NewID()
	reqLog := logging.WithRequest(models.KindAnswer.String(), id)
	reqLog.Info().Str("questionId", questionID).Msg("Answer requested")

	a.Forward(ctx, questionID, a.Emitter.Answer(ctx, questionID))
	return id
}

// StartLiveFeed starts a live transcription loop into the sinks, replacing any
// running one.
func (a *Application) StartLiveFeed(ctx context.Context) *simulator.LiveSession {
	s := a.Emitter.Live(ctx)
	a.Forward(ctx, s.ID(), s.Events())

	a.mu.Lock()
	prev := a.live
	a.live = s
	a.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	return s
}

// LiveFeed returns the running live session, if any.
func (a *Application) LiveFeed() *simulator.LiveSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	a.Logger.Info().Msg("Transcript simulator shutting down")

	if s := a.LiveFeed(); s != nil {
		s.Stop()
		<-s.Done()
	}
	if err := a.Publisher.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Error closing publisher")
	}
}
