package observability

import (
	"context"
	"errors"

	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors fed by machine hooks.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Entries     *prometheus.CounterVec
	Ticks       *prometheus.CounterVec
	Passes      prometheus.Histogram
	TickSeconds prometheus.Histogram
	Diagnostics prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokworld_transitions_total",
			Help: "Applied transitions by changed region.",
		}, []string{"region"}),
		Entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokworld_state_entries_total",
			Help: "State entries by path.",
		}, []string{"path"}),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokworld_ticks_total",
			Help: "Machine updates by outcome.",
		}, []string{"outcome"}),
		Passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokworld_resolution_passes",
			Help:    "Resolution passes needed to settle a tick.",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8},
		}),
		TickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokworld_tick_duration_seconds",
			Help:    "Wall time of one machine update.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		Diagnostics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokworld_diagnostics_total",
			Help: "Ignored transition requests.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Entries, m.Ticks, m.Passes, m.TickSeconds, m.Diagnostics)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(_ context.Context, e *domain.StateEvent) {
			m.Entries.WithLabelValues(e.Path).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Region).Inc()
		},
		OnDiagnostic: func(context.Context, error) {
			m.Diagnostics.Inc()
		},
		OnTick: func(_ context.Context, e *domain.TickEvent) {
			m.Ticks.WithLabelValues(outcome(e.Err)).Inc()
			m.Passes.Observe(float64(e.Passes))
			m.TickSeconds.Observe(e.Duration.Seconds())
		},
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCascadeLimit), errors.Is(err, domain.ErrBrokenConfiguration):
		return "faulted"
	}
	return "error"
}
