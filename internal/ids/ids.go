// Package ids generates identifiers for simulated entities.
package ids

import (
	"io"

	"github.com/google/uuid"
)

// Generator produces 8-4-4-4-12 hex identifiers from an injected reader.
// Uniqueness is probabilistic only.
type Generator struct {
	r io.Reader
}

// NewGenerator creates a Generator reading randomness from r.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{r: r}
}

// Next returns a new identifier. It falls back to system entropy if the
// reader fails.
func (g *Generator) Next() string {
	id, err := uuid.NewRandomFromReader(g.r)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// New returns an identifier drawn from system entropy.
func New() string {
	return uuid.NewString()
}
