package ids

import (
	"errors"
	"regexp"
	"testing"

	"ai-transcript-simulator/internal/random"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestGenerator_Format(t *testing.T) {
	g := NewGenerator(random.New())

	for i := 0; i < 100; i++ {
		id := g.Next()
		if !idPattern.MatchString(id) {
			t.Fatalf("id %q does not match 8-4-4-4-12 hex pattern", id)
		}
	}
}

func TestGenerator_ConsecutiveDiffer(t *testing.T) {
	g := NewGenerator(random.New())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerator_SeededIsReproducible(t *testing.T) {
	a := NewGenerator(random.NewSeeded(5))
	b := NewGenerator(random.NewSeeded(5))

	for i := 0; i < 5; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Errorf("expected equal ids from equal seeds, got %s and %s", x, y)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestGenerator_FallsBackOnReaderError(t *testing.T) {
	id := NewGenerator(failingReader{}).Next()
	if !idPattern.MatchString(id) {
		t.Errorf("expected valid fallback id, got %q", id)
	}
}

func TestNew(t *testing.T) {
	a, b := New(), New()
	if !idPattern.MatchString(a) {
		t.Errorf("id %q does not match pattern", a)
	}
	if a == b {
		t.Error("expected two calls to return different ids")
	}
}
