package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOMDB(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOMDB() error {
	if strings.TrimSpace(c.OMDB.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/cineload/config.toml"
		}
		return fmt.Errorf("omdb.api_key is required. Set OMDB_API_KEY env var or edit %s (create with 'cineload config init')", defaultPath)
	}
	if c.OMDB.TimeoutSeconds <= 0 {
		return errors.New("omdb.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.MoviesCSV == "" {
		return errors.New("paths.movies_csv must be set")
	}
	if c.Paths.RatingsCSV == "" {
		return errors.New("paths.ratings_csv must be set")
	}
	if c.Paths.Database == "" {
		return errors.New("paths.database must be set")
	}
	if c.Paths.CacheFile == "" {
		return errors.New("paths.cache_file must be set")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.APILimit <= 0 {
		return errors.New("enrichment.api_limit must be positive")
	}
	if c.Enrichment.LookupConcurrency <= 0 {
		return errors.New("enrichment.lookup_concurrency must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
