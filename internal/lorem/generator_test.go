package lorem

import (
	"strings"
	"testing"

	"ai-transcript-simulator/internal/random"
)

func TestGenerator_SentenceWordCount(t *testing.T) {
	g := New(DefaultConfig(), random.NewSeeded(7))

	for i := 0; i < 200; i++ {
		s := g.Sentence()
		n := len(strings.Fields(s))
		if n < 4 || n > 16 {
			t.Fatalf("expected 4-16 words, got %d in %q", n, s)
		}
		if !strings.HasSuffix(s, ".") {
			t.Errorf("expected sentence to end with a period, got %q", s)
		}
	}
}

func TestGenerator_Sentences(t *testing.T) {
	g := New(DefaultConfig(), random.NewSeeded(11))

	if s := g.Sentences(0); s != "" {
		t.Errorf("expected empty string for zero sentences, got %q", s)
	}

	s := g.Sentences(5)
	if got := strings.Count(s, "."); got < 5 {
		t.Errorf("expected at least 5 sentence terminators, got %d in %q", got, s)
	}
	if strings.Contains(s, "\n") {
		t.Errorf("expected single-line text, got %q", s)
	}
}

func TestGenerator_ParagraphWordBounds(t *testing.T) {
	g := New(DefaultConfig(), random.NewSeeded(13))

	for i := 0; i < 50; i++ {
		n := len(strings.Fields(g.Paragraph()))
		if n < 4*4 || n > 8*16 {
			t.Fatalf("paragraph word count %d outside [16, 128]", n)
		}
	}
}

func TestGenerator_Words(t *testing.T) {
	g := New(DefaultConfig(), random.New())

	words := g.Words(6)
	if len(words) != 6 {
		t.Fatalf("expected 6 words, got %d", len(words))
	}
	for _, w := range words {
		if w == "" || strings.Contains(w, " ") {
			t.Errorf("expected single non-empty word, got %q", w)
		}
	}
	if len(g.Words(-1)) != 0 {
		t.Error("expected no words for negative count")
	}
}

func TestGenerator_SeededIsReproducible(t *testing.T) {
	a := New(DefaultConfig(), random.NewSeeded(2024))
	b := New(DefaultConfig(), random.NewSeeded(2024))

	for i := 0; i < 10; i++ {
		if x, y := a.Paragraph(), b.Paragraph(); x != y {
			t.Fatalf("paragraph %d differs:\n%q\n%q", i, x, y)
		}
	}
}
