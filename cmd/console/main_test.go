package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_LogFileErrorIsReturned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "console.log")
	os.Setenv("CONSOLE_LOG_FILE", path)
	defer os.Unsetenv("CONSOLE_LOG_FILE")

	err := run()
	if err == nil {
		t.Fatal("expected error for unwritable log file")
	}
	if !strings.Contains(err.Error(), "open log file") {
		t.Errorf("expected open log file error, got %v", err)
	}
}
