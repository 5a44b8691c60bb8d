package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tokworld/internal/config"
	"github.com/aretw0/tokworld/internal/telemetry"
	httpAdapter "github.com/aretw0/tokworld/pkg/adapters/http"
	redisAdapter "github.com/aretw0/tokworld/pkg/adapters/redis"
	"github.com/aretw0/tokworld/pkg/observability"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Serve runs the world in real time behind the HTTP API until ctx is done.
// Frames go to Redis when an address is configured.
func Serve(ctx context.Context, cfg config.Config, debug bool) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, "tokworld", cfg.OTel)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	hooks := metrics.Hooks()
	if debug {
		hooks = observability.Combine(hooks, observability.LoggingHooks(logger))
	}

	eng, err := createEngine(cfg, logger, hooks)
	if err != nil {
		return err
	}

	var sinks []world.FrameSink
	if cfg.Redis.Addr != "" {
		pub := redisAdapter.New(cfg.Redis.Addr, "", 0,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithChannel(cfg.Redis.Channel),
			redisAdapter.WithTTL(cfg.Redis.TTL),
		)
		defer pub.Close()
		sinks = append(sinks, pub)
		logger.Info("publishing frames to redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}

	mgr, err := createWorld(ctx, cfg, eng, logger, sinks...)
	if err != nil {
		return err
	}

	handler := httpAdapter.NewHandler(mgr, eng,
		httpAdapter.WithRegistry(eng.Registry()),
		httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		httpAdapter.WithTickDelta(cfg.TickRate),
		httpAdapter.WithLogger(logger),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting tokworld server", "addr", srv.Addr, "chart", eng.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	mgr.Clock().Start()
	go RunTicker(ctx, mgr, cfg.TickRate, logger)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		logger.Info("tokworld server stopped gracefully")
		return nil
	}
}

// RunTicker ticks mgr every rate until ctx is done, feeding it the real time
// elapsed since the previous tick.
func RunTicker(ctx context.Context, mgr *world.Manager, rate time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			if err := mgr.Tick(ctx, delta); err != nil {
				logger.Warn("tick reported errors", "tick", mgr.Ticks(), "err", err)
			}
		}
	}
}
