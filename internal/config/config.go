// Package config loads process settings from TOKWORLD_* environment
// variables. Command-line flags override them.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tokworld/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "TOKWORLD_"

// Config holds the process settings.
type Config struct {
	Addr       string        `env:"ADDR" envDefault:":8080"`
	TickRate   time.Duration `env:"TICK_RATE" envDefault:"100ms"`
	Chart      string        `env:"CHART"`
	World      string        `env:"WORLD"`
	Characters []string      `env:"CHARACTERS" envSeparator:"," envDefault:"Tok"`
	TimeScale  float64       `env:"TIME_SCALE" envDefault:"10"`
	MaxCascade int           `env:"MAX_CASCADE" envDefault:"8"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Redis Redis `envPrefix:"REDIS_"`
	OTel  OTel  `envPrefix:"OTEL_"`
}

// Redis configures the frame feed. An empty Addr disables it.
type Redis struct {
	Addr    string        `env:"ADDR"`
	Prefix  string        `env:"PREFIX" envDefault:"tokworld:"`
	Channel string        `env:"CHANNEL" envDefault:"tokworld:frames"`
	TTL     time.Duration `env:"TTL" envDefault:"1m"`
}

// OTel configures trace export. Tracing stays off without an endpoint.
type OTel struct {
	Endpoint string `env:"ENDPOINT"`
	Enabled  bool   `env:"ENABLED" envDefault:"true"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %s", c.TickRate))
	}
	if c.MaxCascade < 1 {
		errs = append(errs, fmt.Errorf("max cascade depth must be at least 1, got %d", c.MaxCascade))
	}
	if c.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("time scale must not be negative, got %g", c.TimeScale))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
