package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOMDB()
	c.normalizeEnrichment()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.MoviesCSV, err = ExpandPath(c.Paths.MoviesCSV); err != nil {
		return fmt.Errorf("paths.movies_csv: %w", err)
	}
	if c.Paths.RatingsCSV, err = ExpandPath(c.Paths.RatingsCSV); err != nil {
		return fmt.Errorf("paths.ratings_csv: %w", err)
	}
	if c.Paths.Database, err = ExpandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if c.Paths.CacheFile, err = ExpandPath(c.Paths.CacheFile); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LockFile, err = ExpandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeOMDB() {
	if c.OMDB.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDB.APIKey = value
		}
	}
	c.OMDB.BaseURL = strings.TrimSpace(c.OMDB.BaseURL)
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = defaultOMDBBaseURL
	}
	if c.OMDB.TimeoutSeconds <= 0 {
		c.OMDB.TimeoutSeconds = defaultOMDBTimeout
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.APILimit <= 0 {
		c.Enrichment.APILimit = defaultAPILimit
	}
	if c.Enrichment.LookupConcurrency <= 0 {
		c.Enrichment.LookupConcurrency = defaultLookupParallel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.TrimSpace(c.Logging.Format)
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.TrimSpace(c.Logging.Level)
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
