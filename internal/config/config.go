// Package config provides configuration loading for the computegod CLI.
// It supports loading from a computegod.yaml file and environment
// variables; the engine itself is configuration-free.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up under the project root.
const ConfigFileName = "computegod.yaml"

// Config contains all CLI settings.
type Config struct {
	// Format is the default output format: "text" or "json".
	Format string `yaml:"format"`

	// Logging configures the CLI's stderr logging.
	Logging LoggingConfig `yaml:"logging"`

	// RunLog configures the local run-history store.
	RunLog RunLogConfig `yaml:"runlog"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error". Default: "info".
	Level string `yaml:"level"`
}

// RunLogConfig configures where fixpoint run summaries are recorded.
type RunLogConfig struct {
	// Path is the SQLite database location, relative to the project root
	// unless absolute.
	Path string `yaml:"path"`

	// Disabled turns run recording off entirely.
	Disabled bool `yaml:"disabled"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Format:  "text",
		Logging: LoggingConfig{Level: "info"},
		RunLog:  RunLogConfig{Path: filepath.Join(".computegod", "runs.db")},
	}
}

// Load reads the configuration for a project root. A missing file is not
// an error; environment variables override file values either way.
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if !filepath.IsAbs(cfg.RunLog.Path) {
		cfg.RunLog.Path = filepath.Join(root, cfg.RunLog.Path)
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: format must be text or json, got %q", c.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	return nil
}

// SlogLevel maps the configured level onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COMPUTEGOD_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("COMPUTEGOD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COMPUTEGOD_RUNLOG"); v != "" {
		cfg.RunLog.Path = v
	}
	if v := os.Getenv("COMPUTEGOD_RUNLOG_DISABLED"); v == "true" || v == "1" {
		cfg.RunLog.Disabled = true
	}
}
