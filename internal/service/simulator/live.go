package simulator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/logging"
	"ai-transcript-simulator/internal/timefmt"
)

// LiveSession is a running live transcription loop.
type LiveSession struct {
	id         string
	events     chan models.Payload
	lifecycle  *Lifecycle
	cancel     context.CancelFunc
	done       chan struct{}
	utterances atomic.Int64
	log        zerolog.Logger
}

// ID returns the session identifier.
func (s *LiveSession) ID() string {
	return s.id
}

// Events returns the payload stream. It closes once the session stops.
func (s *LiveSession) Events() <-chan models.Payload {
	return s.events
}

// State returns the current loop state.
func (s *LiveSession) State() State {
	return s.lifecycle.State()
}

// Utterances returns the number of utterances completed with a final.
func (s *LiveSession) Utterances() int {
	return int(s.utterances.Load())
}

// Done closes after the loop has exited and Events is closed.
func (s *LiveSession) Done() <-chan struct{} {
	return s.done
}

// Stop cancels the loop. Idempotent. Returns true if this call stopped it.
func (s *LiveSession) Stop() bool {
	stopped := s.lifecycle.Stop()
	s.cancel()
	return stopped
}

// Live starts a live transcription loop.
//
// Each utterance is a random block of sentences. For every word the loop
// appends it to a fresh buffer, sends a partial holding the buffer so far,
// then waits a random word delay. When the block is exhausted it sends one
// final and starts over with an empty buffer. The loop runs until ctx is
// done, Stop is called or Config.MaxUtterances utterances have completed.
func (e *Emitter) Live(ctx context.Context) *LiveSession {
	ctx, cancel := context.WithCancel(ctx)
	id := e.ids.Next()

	s := &LiveSession{
		id:        id,
		events:    make(chan models.Payload),
		lifecycle: NewLifecycle(),
		cancel:    cancel,
		done:      make(chan struct{}),
		log:       logging.WithSession(id),
	}

	go e.runLive(ctx, s)
	return s
}

func (e *Emitter) runLive(ctx context.Context, s *LiveSession) {
	e.metrics.RecordLiveStart()
	start := e.now()
	s.log.Info().Msg("Live transcription started")

	defer func() {
		s.lifecycle.Stop()
		s.cancel()
		e.metrics.RecordLiveStop()
		close(s.events)
		close(s.done)
		s.log.Info().Int("utterances", s.Utterances()).Msg("Live transcription stopped")
	}()

	for ctx.Err() == nil {
		utteranceId := e.seq.Next(s.id)
		sentences := e.rng.Between(e.cfg.UtteranceSentences.Min, e.cfg.UtteranceSentences.Max)
		words := strings.Fields(e.text.Sentences(sentences))

		buf := make([]string, 0, len(words))
		var wait float64
		for _, w := range words {
			if err := s.lifecycle.BeginWord(); err != nil {
				return
			}
			buf = append(buf, w)

			p := models.NewPartial(strings.Join(buf, " "), timefmt.ISO(e.now()))
			if !s.send(ctx, p) {
				return
			}
			e.metrics.RecordEmit(models.KindPartial.String(), wait)

			delay := e.rng.Duration(e.cfg.WordDelayMax)
			wait = delay.Seconds()
			if !sleep(ctx, delay) {
				return
			}
		}

		if err := s.lifecycle.BeginFinal(); err != nil {
			// An empty block has nothing to finalise; pace the retry like a word.
			if errors.Is(err, ErrFinalWithoutWords) {
				if !sleep(ctx, e.rng.Duration(e.cfg.WordDelayMax)) {
					return
				}
				continue
			}
			return
		}

		now := e.now()
		stamp, err := timefmt.FormatISO(timefmt.ISO(now), e.cfg.Location, e.cfg.Locale)
		if err != nil {
			stamp = timefmt.ISO(now)
		}
		final := models.NewFinal(strings.Join(buf, " "), stamp, now.Sub(start).Milliseconds())
		if !s.send(ctx, final) {
			return
		}
		e.metrics.RecordEmit(models.KindFinal.String(), wait)

		if err := s.lifecycle.Complete(); err != nil {
			return
		}
		n := s.utterances.Add(1)
		e.metrics.RecordUtterance(len(buf))

		s.log.Debug().
			Str("utteranceId", utteranceId).
			Int("words", len(buf)).
			Int64("elapsedMs", final.FinalTranscription.ElapsedMs).
			Msg("Utterance completed")

		if e.cfg.MaxUtterances > 0 && n >= int64(e.cfg.MaxUtterances) {
			return
		}
	}
}

func (s *LiveSession) send(ctx context.Context, p models.Payload) bool {
	select {
	case <-ctx.Done():
		return false
	case s.events <- p:
		return true
	}
}
