package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"cineload/internal/logging"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONEmitsStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("pipeline started", logging.String("run_id", "abc"))

	line := buf.String()
	if !strings.Contains(line, `"run_id":"abc"`) {
		t.Fatalf("expected run_id attribute in output, got %q", line)
	}
	if !strings.Contains(line, "pipeline started") {
		t.Fatalf("expected message in output, got %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestComponentLoggerTagsLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "ledger").Info("loaded")

	if !strings.Contains(buf.String(), `"component":"ledger"`) {
		t.Fatalf("expected component attribute, got %q", buf.String())
	}
}
