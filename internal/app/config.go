package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	ManifestPath string // directory (or single file) of .hcl command manifests

	LogFormat   string
	LogLevel    string
	EventBuffer int
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 16
	}
	return &cfg, nil
}
