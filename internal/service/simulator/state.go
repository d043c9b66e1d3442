package simulator

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a live transcription loop.
type State int

const (
	// StateIdle - between utterances, nothing buffered.
	StateIdle State = iota
	// StateEmittingWord - partials are being emitted for the current utterance.
	StateEmittingWord
	// StateEmittingFinal - the final for the current utterance is being emitted.
	StateEmittingFinal
	// StateStopped - terminal. The loop has been cancelled or ran out of utterances.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateEmittingWord:
		return "EMITTING_WORD"
	case StateEmittingFinal:
		return "EMITTING_FINAL"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is STOPPED.
func (s State) IsTerminal() bool {
	return s == StateStopped
}

// Errors for invalid state transitions.
var (
	ErrStopped           = errors.New("live transcription stopped")
	ErrFinalWithoutWords = errors.New("cannot emit final before any word")
	ErrWordDuringFinal   = errors.New("cannot emit word while final is in progress")
	ErrFinalInProgress   = errors.New("final already in progress for this utterance")
	ErrNoFinalInProgress = errors.New("no final in progress")
)

// Lifecycle manages the state machine for a live transcription loop.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	IDLE → EMITTING_WORD ⟲ → EMITTING_FINAL → IDLE → ...
//	  └──────────────┴──────────────┴──── Stop() ──→ STOPPED
//
// Rules:
//   - IDLE: BeginWord starts a new utterance.
//   - EMITTING_WORD: BeginWord appends, BeginFinal closes the utterance.
//   - EMITTING_FINAL: Complete returns to IDLE.
//   - STOPPED: every transition returns ErrStopped.
type Lifecycle struct {
	mu    sync.RWMutex
	state State
	words int
}

// NewLifecycle creates a lifecycle in IDLE state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateIdle}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Words returns the number of words emitted in the current utterance.
func (l *Lifecycle) Words() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.words
}

// BeginWord records a word emission.
func (l *Lifecycle) BeginWord() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateIdle:
		l.state = StateEmittingWord
		l.words = 1
		return nil
	case StateEmittingWord:
		l.words++
		return nil
	case StateEmittingFinal:
		return ErrWordDuringFinal
	case StateStopped:
		return ErrStopped
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// BeginFinal transitions to EMITTING_FINAL. Only legal after at least one word.
func (l *Lifecycle) BeginFinal() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateEmittingWord:
		l.state = StateEmittingFinal
		return nil
	case StateIdle:
		return ErrFinalWithoutWords
	case StateEmittingFinal:
		return ErrFinalInProgress
	case StateStopped:
		return ErrStopped
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// Complete ends the current utterance and returns to IDLE.
func (l *Lifecycle) Complete() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateEmittingFinal:
		l.state = StateIdle
		l.words = 0
		return nil
	case StateStopped:
		return ErrStopped
	default:
		return ErrNoFinalInProgress
	}
}

// Stop transitions to STOPPED. Idempotent.
// Returns true if the state changed.
func (l *Lifecycle) Stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateStopped
	return true
}
