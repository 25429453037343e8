package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath    string // hcl files
	SettingsPath string // pipeline settings, toml
	Format       string // overrides the settings file when set
	OutPath      string // empty means the App's writer

	LogFormat string
	LogLevel  string
	Workers   int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("Workers must be at least 1, got %d", cfg.Workers)
	}
	switch cfg.Format {
	case "", "text", "cbor":
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'text' or 'cbor'", cfg.Format)
	}
	return &cfg, nil
}
