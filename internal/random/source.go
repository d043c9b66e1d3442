// Package random provides the seedable randomness behind simulated timing and
// content. Sources are backed by frand's ChaCha RNG, so a fixed seed replays the
// exact same delays, sentences and IDs.
package random

import (
	"encoding/binary"
	"sync"
	"time"

	"lukechampine.com/frand"
)

const (
	bufSize = 1024
	rounds  = 12

	// IntervalMax bounds Interval.
	IntervalMax = 200
)

// Source is a concurrency-safe random source.
type Source struct {
	mu  sync.Mutex
	rng *frand.RNG
}

// New returns a Source seeded from system entropy.
func New() *Source {
	seed := frand.Entropy256()
	return &Source{rng: frand.NewCustom(seed[:], bufSize, rounds)}
}

// NewSeeded returns a deterministic Source. Equal seeds yield equal sequences.
func NewSeeded(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return &Source{rng: frand.NewCustom(key[:], bufSize, rounds)}
}

// Between returns an integer v with min <= v < max. When min >= max it
// returns min. Bounds are not validated beyond that.
func (s *Source) Between(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(max-min)
}

// Interval returns an integer in [0, IntervalMax).
func (s *Source) Interval() int {
	return s.Between(0, IntervalMax)
}

// Duration returns a uniform duration in [0, max), or 0 when max <= 0.
func (s *Source) Duration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.rng.Uint64n(uint64(max)))
}

// Uint64 returns a uniformly distributed uint64. It lets Source act as a
// math/rand/v2 Source.
func (s *Source) Uint64() uint64 {
	var b [8]byte
	s.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Read fills p with random bytes. It never returns an error.
func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Read(p)
}
