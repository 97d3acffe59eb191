// Package config loads quaestor configuration from an optional YAML
// file with environment overrides, and opens the configured state
// backend.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quaestor-io/quaestor/internal/state"
	"github.com/quaestor-io/quaestor/internal/state/badger"
	"github.com/quaestor-io/quaestor/internal/state/bolt"
	"github.com/quaestor-io/quaestor/internal/state/sqlite"
)

// DefaultFile is consulted when no explicit config path is given.
const DefaultFile = "quaestor.yaml"

// Config holds everything the CLI and the server need to come up.
type Config struct {
	// Backend selects the state substrate: memory, sqlite, badger
	// or bolt.
	Backend string `yaml:"backend"`

	// Path is the backend data location: a file for sqlite and bolt,
	// a directory for badger. Ignored by memory.
	Path string `yaml:"path"`

	// Listen is the serve address.
	Listen string `yaml:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:  "sqlite",
		Path:     "./quaestor.db",
		Listen:   "127.0.0.1:8344",
		LogLevel: "info",
	}
}

// Load builds the effective configuration: defaults, then the YAML
// file, then QUAESTOR_* environment overrides. An explicitly named
// file must exist; the default file is used only when present.
// Unknown YAML keys are an error (catches typos like "backnd:").
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, run on defaults.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Backend = getEnv("QUAESTOR_BACKEND", cfg.Backend)
	cfg.Path = getEnv("QUAESTOR_PATH", cfg.Path)
	cfg.Listen = getEnv("QUAESTOR_LISTEN", cfg.Listen)
	cfg.LogLevel = getEnv("QUAESTOR_LOG_LEVEL", cfg.LogLevel)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks the configuration. Callers that mutate a loaded
// Config (flag overrides) revalidate before use.
func (c *Config) Validate() error {
	switch c.Backend {
	case "memory", "sqlite", "badger", "bolt":
	default:
		return fmt.Errorf("unknown backend %q (want memory, sqlite, badger or bolt)", c.Backend)
	}
	if c.Backend != "memory" && c.Path == "" {
		return fmt.Errorf("backend %q requires a path", c.Backend)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// OpenStore opens the configured backend.
func (c *Config) OpenStore() (state.Store, error) {
	switch c.Backend {
	case "memory":
		return state.NewMemory(), nil
	case "sqlite":
		return sqlite.Open(c.Path)
	case "badger":
		return badger.Open(c.Path)
	case "bolt":
		return bolt.Open(c.Path)
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// SlogLevel maps the configured level to its slog value.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}
