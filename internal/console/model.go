// Package console renders simulated payloads in the terminal so their cadence
// can be previewed without a UI.
package console

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ai-transcript-simulator/internal/models"
	"ai-transcript-simulator/internal/service/simulator"
)

// maxFinals is how many completed utterances stay on screen.
const maxFinals = 8

// LiveMsg carries one payload from the live session.
type LiveMsg struct{ Payload models.Payload }

// LiveClosedMsg is sent once the live session's stream closes.
type LiveClosedMsg struct{}

// ResultMsg carries the outcome of a summary or answer request. OK is false
// when the request was cancelled before emitting.
type ResultMsg struct {
	Kind    models.Kind
	Payload models.Payload
	OK      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	finalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	stampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	panelStyle   = lipgloss.NewStyle().PaddingLeft(1)
)

// Model is the bubbletea model for the preview console.
type Model struct {
	ctx     context.Context
	emitter *simulator.Emitter
	session *simulator.LiveSession

	partial   string
	finals    []models.Transcription
	summary   string
	answer    *models.Answer
	questions int
	pending   int
	liveDone  bool
	width     int
	height    int
}

// New creates a console model. When live is set a live session is started on
// ctx and rendered as it streams.
func New(ctx context.Context, e *simulator.Emitter, live bool) Model {
	m := Model{ctx: ctx, emitter: e}
	if live {
		m.session = e.Live(ctx)
	}
	return m
}

// Session returns the live session, or nil.
func (m Model) Session() *simulator.LiveSession {
	return m.session
}

func (m Model) Init() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return nextLive(m.session.Events())
}

func nextLive(ch <-chan models.Payload) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return LiveClosedMsg{}
		}
		return LiveMsg{Payload: p}
	}
}

func awaitResult(kind models.Kind, ch <-chan models.Payload) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		return ResultMsg{Kind: kind, Payload: p, OK: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.session != nil {
				m.session.Stop()
			}
			return m, tea.Quit
		case "s":
			m.pending++
			return m, awaitResult(models.KindSummary, m.emitter.Summary(m.ctx))
		case "a":
			m.questions++
			m.pending++
			id := fmt.Sprintf("question-%d", m.questions)
			return m, awaitResult(models.KindAnswer, m.emitter.Answer(m.ctx, id))
		}

	case LiveMsg:
		switch msg.Payload.Kind() {
		case models.KindPartial:
			m.partial = msg.Payload.PartialTranscription.Text
		case models.KindFinal:
			m.partial = ""
			m.finals = append(m.finals, *msg.Payload.FinalTranscription)
			if len(m.finals) > maxFinals {
				m.finals = m.finals[len(m.finals)-maxFinals:]
			}
		}
		return m, nextLive(m.session.Events())

	case LiveClosedMsg:
		m.liveDone = true
		m.partial = ""

	case ResultMsg:
		if m.pending > 0 {
			m.pending--
		}
		if !msg.OK {
			break
		}
		switch msg.Kind {
		case models.KindSummary:
			m.summary = *msg.Payload.Summary
		case models.KindAnswer:
			m.answer = msg.Payload.AnswerQuestion
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	status := "○ live stopped"
	if m.session != nil && !m.liveDone {
		status = "● live"
	}
	b.WriteString(titleStyle.Render(status))
	if m.pending > 0 {
		b.WriteString(stampStyle.Render(fmt.Sprintf("  %d pending", m.pending)))
	}
	b.WriteString("\n\n")

	for _, f := range m.finals {
		b.WriteString(stampStyle.Render(f.Timestamp) + " " + finalStyle.Render(f.Text) + "\n")
	}
	if m.partial != "" {
		b.WriteString(partialStyle.Render(m.partial) + "\n")
	}

	if m.summary != "" {
		b.WriteString("\n" + titleStyle.Render("Summary") + "\n")
		b.WriteString(resultStyle.Render(m.summary) + "\n")
	}
	if m.answer != nil {
		b.WriteString("\n" + titleStyle.Render("Answer to "+m.answer.ID) + "\n")
		b.WriteString(resultStyle.Render(m.answer.Answer) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(boldHelp.Render("s") + helpStyle.Render(" summary  "))
	b.WriteString(boldHelp.Render("a") + helpStyle.Render(" answer  "))
	b.WriteString(boldHelp.Render("q") + helpStyle.Render(" quit"))

	panel := panelStyle
	if m.width > 0 {
		panel = panel.Width(m.width - 1)
	}
	return panel.Render(b.String())
}
