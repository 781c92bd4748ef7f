package main

import (
	"fmt"
	"log/slog"
	"time"

	"cineload/internal/config"
	"cineload/internal/logging"
)

const timeRounding = 10 * time.Millisecond

// loadConfig resolves and validates configuration for a command invocation.
func loadConfig(configFlag *string) (*config.Config, error) {
	path := ""
	if configFlag != nil {
		path = *configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
