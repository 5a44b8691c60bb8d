package runtime

import (
	"log/slog"

	"github.com/aretw0/tokworld/pkg/domain"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxCascadeDepth bounds the extra resolution passes of one tick.
const DefaultMaxCascadeDepth = 8

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the structured logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithMaxCascadeDepth sets how many cascade passes a tick may run before the
// machine is declared faulted. Values below 1 are ignored.
func WithMaxCascadeDepth(n int) Option {
	return func(m *Machine) {
		if n >= 1 {
			m.maxCascade = n
		}
	}
}

// WithTimeScaler injects the time collaborator exposed to states.
func WithTimeScaler(clock domain.TimeScaler) Option {
	return func(m *Machine) {
		m.clock = clock
	}
}

// WithTracer sets the tracer used for tick spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Machine) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithName overrides the machine name used in logs, spans and snapshots.
// Defaults to the context's character name.
func WithName(name string) Option {
	return func(m *Machine) {
		m.name = name
	}
}
