// Package testsupport provides config builders and fixture writers shared by
// package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"cineload/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.OMDB.APIKey = "test"
	cfg.Paths.MoviesCSV = filepath.Join(base, "movies.csv")
	cfg.Paths.RatingsCSV = filepath.Join(base, "ratings.csv")
	cfg.Paths.Database = filepath.Join(base, "analytics.db")
	cfg.Paths.CacheFile = filepath.Join(base, "omdb_cache.csv")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LockFile = filepath.Join(base, "run.lock")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPILimit caps lookups per run on the test config.
func WithAPILimit(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Enrichment.APILimit = limit
	}
}

// WithConcurrency sets the lookup worker bound on the test config.
func WithConcurrency(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Enrichment.LookupConcurrency = n
	}
}
