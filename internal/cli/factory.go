// Package cli holds the logic behind the tokworld commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tokworld"
	"github.com/aretw0/tokworld/internal/config"
	"github.com/aretw0/tokworld/internal/logging"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/gametime"
	"github.com/aretw0/tokworld/pkg/world"
)

// NewLogger builds the process logger from the config.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.LogFormat), nil
}

// createEngine loads the configured chart, or the default one.
func createEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*tokworld.Engine, error) {
	eng, err := tokworld.Load(cfg.Chart,
		tokworld.WithLogger(logger),
		tokworld.WithLifecycleHooks(hooks),
		tokworld.WithMaxCascadeDepth(cfg.MaxCascade),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return eng, nil
}

// createWorld builds the manager and populates it from the world manifest
// when one is configured, otherwise from the character names.
func createWorld(ctx context.Context, cfg config.Config, eng *tokworld.Engine, logger *slog.Logger, sinks ...world.FrameSink) (*world.Manager, error) {
	clock := gametime.New(gametime.WithTimeScale(cfg.TimeScale))
	mgr := world.NewManager(eng.NewMachine,
		world.WithClock(clock),
		world.WithLogger(logger),
		world.WithSinks(sinks...),
	)

	if cfg.World != "" {
		manifest, err := world.LoadManifest(cfg.World)
		if err != nil {
			return nil, err
		}
		if err := manifest.Apply(ctx, mgr); err != nil {
			return nil, err
		}
		return mgr, nil
	}

	for _, name := range cfg.Characters {
		if name == "" {
			continue
		}
		if _, err := mgr.Create(ctx, name, world.Position{}); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

// NewWorld builds the engine and a populated world from the config.
func NewWorld(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*tokworld.Engine, *world.Manager, error) {
	eng, err := createEngine(cfg, logger, hooks)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := createWorld(ctx, cfg, eng, logger)
	if err != nil {
		return nil, nil, err
	}
	return eng, mgr, nil
}
