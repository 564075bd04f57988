// Package config loads rkam.yaml and applies RKAM_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/db"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level rkam.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Retry    RetryConfig    `yaml:"retry"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the use-case log written to stderr.
type LogConfig struct {
	Level   string `yaml:"level"` // debug, info, warn, error
	Enabled bool   `yaml:"enabled"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// RetryConfig bounds the retry of transactions that hit lock contention.
type RetryConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	InitialDelayMs int `yaml:"initial_delay_ms"`
	MaxDelayMs     int `yaml:"max_delay_ms"`
}

// Dir returns ~/.rkam, or the working directory when there is no home.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".rkam")
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "rkam.yaml")
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	p := db.DefaultRetryPolicy()
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(Dir(), "rkam.db")},
		Log:      LogConfig{Level: "info", Enabled: false},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Retry: RetryConfig{
			MaxAttempts:    p.MaxAttempts,
			InitialDelayMs: int(p.InitialDelay / time.Millisecond),
			MaxDelayMs:     int(p.MaxDelay / time.Millisecond),
		},
	}
}

// Load reads an rkam.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file, creating its directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve loads the effective configuration: defaults, then the file at
// path (or DefaultPath when path is empty and that file exists), then the
// environment. An explicit path that does not exist is an error.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	switch {
	case path != "":
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		loaded, err := Load(DefaultPath())
		if err == nil {
			cfg = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from RKAM_* environment variables. Malformed
// numbers are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("RKAM_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("RKAM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RKAM_LOG_ENABLED"); v != "" {
		cfg.Log.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("RKAM_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	applyIntEnv(&cfg.Retry.MaxAttempts, "RKAM_RETRY_MAX_ATTEMPTS", 1)
	applyIntEnv(&cfg.Retry.InitialDelayMs, "RKAM_RETRY_INITIAL_DELAY_MS", 0)
	applyIntEnv(&cfg.Retry.MaxDelayMs, "RKAM_RETRY_MAX_DELAY_MS", 0)
}

func applyIntEnv(dst *int, envName string, min int) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return
	}
	*dst = n
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.InitialDelayMs < 0 || c.Retry.MaxDelayMs < c.Retry.InitialDelayMs {
		return errors.New("retry delays must satisfy 0 <= initial_delay_ms <= max_delay_ms")
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// RetryPolicy converts the retry section for the unit of work.
func (c *Config) RetryPolicy() db.RetryPolicy {
	return db.RetryPolicy{
		MaxAttempts:  c.Retry.MaxAttempts,
		InitialDelay: time.Duration(c.Retry.InitialDelayMs) * time.Millisecond,
		MaxDelay:     time.Duration(c.Retry.MaxDelayMs) * time.Millisecond,
	}
}
