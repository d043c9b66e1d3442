package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ai-transcript-simulator/internal/app"
	"ai-transcript-simulator/internal/config"
	"ai-transcript-simulator/internal/console"
	"ai-transcript-simulator/internal/observability/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	// The terminal belongs to the UI; logs go to a file when CONSOLE_LOG_FILE is set.
	var out io.Writer = io.Discard
	if path := os.Getenv("CONSOLE_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logging.Init(logging.Config{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
		Output: out,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := console.New(ctx, app.NewEmitter(cfg.Simulator), cfg.Simulator.LiveFeed)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
