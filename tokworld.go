package tokworld

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tokworld/internal/presentation/graph"
	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/behavior"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/registry"
	"github.com/aretw0/tokworld/pkg/schema"
	"go.opentelemetry.io/otel/trace"
)

// Engine turns a chart into character machines. It is the high-level entry
// point of the library; every machine it builds gets its own states.
type Engine struct {
	chart      *schema.Chart
	registry   *registry.Registry
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	tracer     trace.Tracer
	maxCascade int
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry sets the behaviors charts may bind. Defaults to the TokWorld
// behaviors.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithLifecycleHooks registers observability hooks on every machine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets the tracer used for tick spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithMaxCascadeDepth bounds the cascade passes of every machine.
func WithMaxCascadeDepth(n int) Option {
	return func(e *Engine) {
		e.maxCascade = n
	}
}

// New checks the chart against the registry and returns an engine for it.
// A nil chart selects DefaultChart.
func New(chart *schema.Chart, opts ...Option) (*Engine, error) {
	if chart == nil {
		chart = DefaultChart()
	}
	eng := &Engine{chart: chart, Name: chart.Name}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.registry == nil {
		eng.registry = behavior.NewRegistry()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("chart", eng.Name)
	}

	// Compile once up front so broken charts fail here and not on the
	// first character.
	if _, err := schema.Compile(chart, eng.registry); err != nil {
		return nil, fmt.Errorf("invalid chart %q: %w", chart.Name, err)
	}
	return eng, nil
}

// Load reads a chart file and returns an engine for it. An empty path
// selects DefaultChart.
func Load(path string, opts ...Option) (*Engine, error) {
	if path == "" {
		return New(nil, opts...)
	}
	chart, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return New(chart, opts...)
}

// Chart returns the chart the engine was built from.
func (e *Engine) Chart() *schema.Chart { return e.chart }

// Registry returns the behaviors available to the chart.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// NewMachine builds a fresh machine for one character. Its signature matches
// world.MachineFactory.
func (e *Engine) NewMachine(data *domain.Context, clock domain.TimeScaler) (*Machine, error) {
	spec, err := schema.Compile(e.chart, e.registry)
	if err != nil {
		return nil, err
	}
	opts := []runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithTracer(e.tracer),
	}
	if clock != nil {
		opts = append(opts, runtime.WithTimeScaler(clock))
	}
	if e.maxCascade > 0 {
		opts = append(opts, runtime.WithMaxCascadeDepth(e.maxCascade))
	}
	return runtime.New(spec, data, opts...)
}

// Inspect returns the static structure of the chart.
func (e *Engine) Inspect() ([]domain.NodeInfo, error) {
	return Inspect(e.chart)
}

// Edges returns the transitions the chart declares.
func (e *Engine) Edges() []graph.Edge {
	return Edges(e.chart)
}

// Graph renders the chart as Mermaid, highlighting the active paths.
func (e *Engine) Graph(active []string) (string, error) {
	nodes, err := e.Inspect()
	if err != nil {
		return "", err
	}
	var overlay *graph.Overlay
	if len(active) > 0 {
		overlay = &graph.Overlay{Active: active}
	}
	return graph.GenerateMermaid(nodes, e.Edges(), overlay), nil
}

// Inspect describes the structure of a chart without binding behaviors.
func Inspect(chart *schema.Chart) ([]domain.NodeInfo, error) {
	spec, err := schema.Compile(chart, nil)
	if err != nil {
		return nil, err
	}
	m, err := runtime.New(spec, domain.NewContext(0, chart.Name))
	if err != nil {
		return nil, err
	}
	return m.Tree(), nil
}

// Check validates a chart against a registry and returns every problem found.
func Check(chart *schema.Chart, reg *registry.Registry) []error {
	if reg == nil {
		reg = behavior.NewRegistry()
	}
	_, err := schema.Compile(chart, reg)
	if err == nil {
		return nil
	}
	if errs := schema.ValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return []error{err}
}
