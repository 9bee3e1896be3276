// Package config loads server settings from STTT_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the server configuration
type Config struct {
	Host string `env:"STTT_HOST"`
	Port int    `env:"STTT_PORT" envDefault:"8080"`

	LogLevel  string `env:"STTT_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"STTT_LOG_FORMAT" envDefault:"json"`

	StorageType string        `env:"STTT_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"STTT_REDIS_URL"    envDefault:"redis://localhost:6379"`
	GameTTL     time.Duration `env:"STTT_GAME_TTL"     envDefault:"24h"`

	// "X", "O" or "random"
	DefaultStartingPlayer string `env:"STTT_DEFAULT_STARTING_PLAYER" envDefault:"X"`

	// Empty disables tracing
	OTelEndpoint string `env:"STTT_OTEL_ENDPOINT"`

	ShutdownTimeout time.Duration `env:"STTT_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values the env tags cannot express
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("STTT_PORT out of range: %d", c.Port)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("STTT_LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("STTT_REDIS_URL required when STTT_STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("STTT_STORAGE_TYPE must be memory or redis, got %q", c.StorageType)
	}
	switch c.DefaultStartingPlayer {
	case "X", "O", "random":
	default:
		return fmt.Errorf("STTT_DEFAULT_STARTING_PLAYER must be X, O or random, got %q", c.DefaultStartingPlayer)
	}
	return nil
}

// NewLogger builds the process logger described by the config
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("STTT_LOG_LEVEL: %w", err)
	}
	return level, nil
}
