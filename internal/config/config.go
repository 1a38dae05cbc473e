// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds every tunable of the server process.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	BaseURL  string `env:"BASE_URL"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	TargetScore  int           `env:"DOMINO_TARGET_SCORE" envDefault:"70"`
	StartDelay   time.Duration `env:"DOMINO_START_DELAY" envDefault:"100ms"`
	RestartDelay time.Duration `env:"DOMINO_RESTART_DELAY" envDefault:"2s"`
	SendBuffer   int           `env:"WS_SEND_BUFFER" envDefault:"32"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"dominom.analytics"`
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	AnalyticsBuffer   int    `env:"ANALYTICS_BUFFER" envDefault:"256"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TargetScore <= 0 {
		return fmt.Errorf("DOMINO_TARGET_SCORE must be positive, got %d", c.TargetScore)
	}
	if c.StartDelay < 0 || c.RestartDelay < 0 {
		return fmt.Errorf("round delays must not be negative")
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.SendBuffer)
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
