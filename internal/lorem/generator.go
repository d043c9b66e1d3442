// Package lorem generates placeholder sentences within configurable bounds.
package lorem

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"ai-transcript-simulator/internal/random"
)

// Bounds is an inclusive [Min, Max] range.
type Bounds struct {
	Min int
	Max int
}

// Config holds text shape bounds.
type Config struct {
	SentencesPerParagraph Bounds
	WordsPerSentence      Bounds
}

// DefaultConfig returns 4-8 sentences per paragraph and 4-16 words per sentence.
func DefaultConfig() Config {
	return Config{
		SentencesPerParagraph: Bounds{Min: 4, Max: 8},
		WordsPerSentence:      Bounds{Min: 4, Max: 16},
	}
}

// Generator produces lorem ipsum text. Output is reproducible when the
// underlying Source is seeded.
type Generator struct {
	cfg   Config
	rng   *random.Source
	faker *gofakeit.Faker
}

// New creates a Generator drawing all randomness from rng.
func New(cfg Config, rng *random.Source) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rng,
		// Source is already locked.
		faker: gofakeit.NewFaker(rng, false),
	}
}

// Sentence returns one capitalised, period-terminated sentence.
func (g *Generator) Sentence() string {
	n := g.pick(g.cfg.WordsPerSentence)
	return g.faker.LoremIpsumSentence(n)
}

// Sentences returns n sentences separated by single spaces.
func (g *Generator) Sentences(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Sentence())
	}
	return strings.Join(out, " ")
}

// Paragraph returns a block of sentences sized by SentencesPerParagraph.
func (g *Generator) Paragraph() string {
	return g.Sentences(g.pick(g.cfg.SentencesPerParagraph))
}

// Words returns n lowercase lorem words.
func (g *Generator) Words(n int) []string {
	words := make([]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		words = append(words, g.faker.LoremIpsumWord())
	}
	return words
}

func (g *Generator) pick(b Bounds) int {
	return g.rng.Between(b.Min, b.Max+1)
}
