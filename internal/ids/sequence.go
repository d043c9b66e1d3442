package ids

import (
	"fmt"
	"sync/atomic"
)

// Sequence numbers child entities under a parent ID.
type Sequence struct {
	counter uint64
}

// NewSequence returns a Sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns "<parent>-utt-N" with N starting at 1.
func (s *Sequence) Next(parent string) string {
	n := atomic.AddUint64(&s.counter, 1)
	return fmt.Sprintf("%s-utt-%d", parent, n)
}

// Count returns how many IDs have been issued.
func (s *Sequence) Count() uint64 {
	return atomic.LoadUint64(&s.counter)
}
