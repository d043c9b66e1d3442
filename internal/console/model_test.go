package console

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/observability/metrics"
	"ai-transcript-simulator/internal/random"
	"ai-transcript-simulator/internal/service/simulator"
)

func newTestEmitter() *simulator.Emitter {
	cfg := simulator.DefaultConfig()
	cfg.ResultDelayMax = 5 * time.Millisecond
	cfg.WordDelayMax = time.Millisecond
	cfg.Location = time.UTC
	return simulator.New(cfg, random.NewSeeded(3),
		simulator.WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SummaryKey(t *testing.T) {
	m := New(context.Background(), newTestEmitter(), false)

	next, cmd := m.Update(key("s"))
	if cmd == nil {
		t.Fatal("expected a command for summary request")
	}
	if next.(Model).pending != 1 {
		t.Errorf("expected 1 pending, got %d", next.(Model).pending)
	}

	msg := cmd()
	res, ok := msg.(ResultMsg)
	if !ok || !res.OK {
		t.Fatalf("expected successful ResultMsg, got %#v", msg)
	}

	next, _ = next.Update(res)
	got := next.(Model)
	if got.pending != 0 {
		t.Errorf("expected 0 pending, got %d", got.pending)
	}
	if !strings.HasPrefix(got.summary, simulator.BulletPrefix) {
		t.Errorf("expected bullet summary, got %q", got.summary)
	}
	if !strings.Contains(got.View(), "Summary") {
		t.Error("expected view to render the summary")
	}
}

func TestModel_AnswerKeyNumbersQuestions(t *testing.T) {
	m := New(context.Background(), newTestEmitter(), false)

	next, cmd := m.Update(key("a"))
	next, _ = next.Update(cmd())
	next, cmd = next.Update(key("a"))
	next, _ = next.Update(cmd())

	got := next.(Model)
	if got.answer == nil || got.answer.ID != "question-2" {
		t.Errorf("expected answer to question-2, got %+v", got.answer)
	}
}

func TestModel_CancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(ctx, newTestEmitter(), false)

	next, cmd := m.Update(key("s"))
	res := cmd().(ResultMsg)
	if res.OK {
		t.Error("expected cancelled request to report not OK")
	}

	next, _ = next.Update(res)
	got := next.(Model)
	if got.summary != "" || got.pending != 0 {
		t.Errorf("expected no summary and 0 pending, got %q and %d", got.summary, got.pending)
	}
}

func TestModel_QuitStopsSession(t *testing.T) {
	m := New(context.Background(), newTestEmitter(), true)

	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("expected quit command for %q", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected QuitMsg for %q", k.String())
		}
	}

	select {
	case <-m.Session().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected live session to stop")
	}
}

func TestModel_LiveStream(t *testing.T) {
	m := New(context.Background(), newTestEmitter(), true)
	defer m.Session().Stop()

	var model tea.Model = m
	cmd := m.Init()
	sawFinal := false
	for i := 0; i < 500 && !sawFinal; i++ {
		msg := cmd()
		live, ok := msg.(LiveMsg)
		if !ok {
			t.Fatalf("expected LiveMsg, got %#v", msg)
		}
		model, cmd = model.Update(live)
		got := model.(Model)
		switch live.Payload.Kind() {
		case models.KindPartial:
			if got.partial != live.Payload.PartialTranscription.Text {
				t.Errorf("expected partial %q, got %q", live.Payload.PartialTranscription.Text, got.partial)
			}
		case models.KindFinal:
			sawFinal = true
			if got.partial != "" {
				t.Errorf("expected partial cleared after final, got %q", got.partial)
			}
			if len(got.finals) != 1 {
				t.Errorf("expected 1 final, got %d", len(got.finals))
			}
		}
	}
	if !sawFinal {
		t.Error("expected a final within 500 payloads")
	}
}

func TestModel_LiveClosed(t *testing.T) {
	m := New(context.Background(), newTestEmitter(), true)
	m.Session().Stop()
	<-m.Session().Done()

	msg := m.Init()()
	if _, ok := msg.(LiveClosedMsg); !ok {
		t.Fatalf("expected LiveClosedMsg, got %#v", msg)
	}
	next, _ := m.Update(msg)
	if !strings.Contains(next.(Model).View(), "live stopped") {
		t.Error("expected view to show stopped live feed")
	}
}
