package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tokworld/pkg/domain"
)

// LoggingHooks logs every lifecycle event. State changes go to debug,
// transitions to info and diagnostics to warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_enter", "machine", e.Machine, "tick", e.Tick, "path", e.Path)
		},
		OnExit: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_exit", "machine", e.Machine, "tick", e.Tick, "path", e.Path)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition",
				"machine", e.Machine,
				"tick", e.Tick,
				"origin", e.Origin,
				"target", e.Target,
				"region", e.Region,
				"pass", e.Pass,
			)
		},
		OnDiagnostic: func(ctx context.Context, err error) {
			logger.WarnContext(ctx, "diagnostic", "err", err)
		},
		OnTick: func(ctx context.Context, e *domain.TickEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "tick failed", "machine", e.Machine, "tick", e.Tick, "err", e.Err)
			}
		},
	}
}

// Combine merges several hook sets. Each event reaches the hooks in the
// order given.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnEnter = chain(out.OnEnter, h.OnEnter)
		out.OnExit = chain(out.OnExit, h.OnExit)
		out.OnTransition = chain(out.OnTransition, h.OnTransition)
		out.OnDiagnostic = chain(out.OnDiagnostic, h.OnDiagnostic)
		out.OnTick = chain(out.OnTick, h.OnTick)
	}
	return out
}

func chain[E any](first, next func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return next
	case next == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		next(ctx, e)
	}
}
