package simulator

import (
	"context"

	"ai-transcript-simulator/internal/models"
)

// Deliver drains ch into cb on its own goroutine. A panicking callback is
// recovered, logged and counted, and delivery continues with the next payload.
// The returned channel closes once ch has been drained.
func (e *Emitter) Deliver(ch <-chan models.Payload, cb Callback) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range ch {
			e.invoke(cb, p)
		}
	}()
	return done
}

func (e *Emitter) invoke(cb Callback, p models.Payload) {
	defer func() {
		if r := recover(); r != nil {
			kind := p.Kind().String()
			e.metrics.RecordCallbackPanic(kind)
			e.log.Error().
				Interface("panic", r).
				Str("kind", kind).
				Msg("Payload callback panicked")
		}
	}()
	cb(p)
}

// EmitSummary invokes cb once with a summary after a random delay.
func (e *Emitter) EmitSummary(ctx context.Context, cb Callback) <-chan struct{} {
	return e.Deliver(e.Summary(ctx), cb)
}

// EmitAnswer invokes cb once with an answer to questionID after a random delay.
func (e *Emitter) EmitAnswer(ctx context.Context, questionID string, cb Callback) <-chan struct{} {
	return e.Deliver(e.Answer(ctx, questionID), cb)
}

// EmitLiveTranscription runs a live loop delivering every partial and final to cb.
func (e *Emitter) EmitLiveTranscription(ctx context.Context, cb Callback) *LiveSession {
	s := e.Live(ctx)
	e.Deliver(s.Events(), cb)
	return s
}
