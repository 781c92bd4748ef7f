package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
movies_csv = %q
ratings_csv = %q
database = %q
cache_file = %q
log_dir = %q
lock_file = %q

[omdb]
api_key = "test-key"
`,
		filepath.Join(base, "movies.csv"),
		filepath.Join(base, "ratings.csv"),
		filepath.Join(base, "analytics.db"),
		filepath.Join(base, "cache.csv"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "run.lock"),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRootCommandShowsHelp(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("root command returned error: %v", err)
	}
	if !strings.Contains(out, "cineload") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := executeCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite init: %v", err)
	}
}

func TestCacheStatsOnFreshLedger(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", configPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats returned error: %v", err)
	}
	if !strings.Contains(out, "total") {
		t.Fatalf("expected stats table, got %q", out)
	}
}

func TestCachePurgeRequiresTarget(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := executeCommand(t, "--config", configPath, "cache", "purge"); err == nil {
		t.Fatal("expected error when neither id nor --failed given")
	}
}

func TestConfigShowRedactsAPIKey(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if strings.Contains(out, "test-key") {
		t.Fatalf("api key must be redacted: %q", out)
	}
	if !strings.Contains(out, "********") {
		t.Fatalf("expected redaction marker: %q", out)
	}
}
