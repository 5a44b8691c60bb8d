package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tokworld/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/tokworld/internal/runtime"

// Machine is one character's hierarchical state machine.
// It is not safe for concurrent use: the owner drives it from one goroutine.
type Machine struct {
	name string
	tree *tree
	data *domain.Context

	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	tracer     trace.Tracer
	clock      domain.TimeScaler
	maxCascade int

	started bool
	tickNum uint64
	pending []pendingRequest
	fault   error

	// per-tick counters
	transitions int
	span        trace.Span
}

// New builds a machine from a tree definition. The machine is not entered
// until Start or the first Update.
func New(root Spec, data *domain.Context, opts ...Option) (*Machine, error) {
	if data == nil {
		return nil, errors.New("machine requires a context")
	}
	t, err := buildTree(root)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		name:       data.Name,
		tree:       t,
		data:       data,
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		tracer:     otel.Tracer(tracerName),
		maxCascade: DefaultMaxCascadeDepth,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("machine", m.name)
	return m, nil
}

// Name returns the machine name.
func (m *Machine) Name() string { return m.name }

// Context returns the shared data record. Callers may mutate it between ticks.
func (m *Machine) Context() *domain.Context { return m.data }

// Tick returns the number of completed Update calls.
func (m *Machine) Tick() uint64 { return m.tickNum }

// Started reports whether the initial configuration has been entered.
func (m *Machine) Started() bool { return m.started }

// Err returns the fatal error that faulted the machine, if any.
func (m *Machine) Err() error { return m.fault }

// Start enters the initial configuration: the root, then every default
// descendant, shallowest first. Cascading requests are settled before it returns.
func (m *Machine) Start(ctx context.Context) error {
	if m.fault != nil {
		return m.fault
	}
	if m.started {
		return nil
	}
	m.started = true

	ctx, span := m.tracer.Start(ctx, "hfsm.Start", trace.WithAttributes(
		attribute.String("hfsm.machine", m.name),
	))
	m.span = span
	defer func() {
		span.End()
		m.span = nil
	}()

	m.pending = m.pending[:0]
	if err := m.enterSubtree(ctx, 0, -1); err != nil {
		err = m.breakWith(err)
		recordSpanError(span, err)
		return err
	}
	if _, err := m.settle(ctx); err != nil {
		err = m.breakWith(err)
		recordSpanError(span, err)
		return err
	}
	m.logger.Debug("machine started", "active", m.Leaves())
	return nil
}

// Update runs one tick: every active state's Update in pre-order, then
// resolution of the collected requests and any cascades they trigger.
// Context and active-state queries are consistent once Update returns.
// An Update hook error aborts the tick before resolution and leaves the
// machine usable; an Enter or Exit error faults it with
// domain.ErrBrokenConfiguration.
func (m *Machine) Update(ctx context.Context) (err error) {
	if m.fault != nil {
		return m.fault
	}
	if !m.started {
		if err := m.Start(ctx); err != nil {
			return err
		}
	}

	m.tickNum++
	began := time.Now()
	ctx, span := m.tracer.Start(ctx, "hfsm.Update", trace.WithAttributes(
		attribute.String("hfsm.machine", m.name),
		attribute.Int64("hfsm.tick", int64(m.tickNum)),
	))
	m.span = span
	m.transitions = 0
	passes := 0

	defer func() {
		span.SetAttributes(
			attribute.Int("hfsm.passes", passes),
			attribute.Int("hfsm.transitions", m.transitions),
		)
		if err != nil {
			recordSpanError(span, err)
		}
		span.End()
		m.span = nil
		if m.hooks.OnTick != nil {
			m.hooks.OnTick(ctx, &domain.TickEvent{
				EventBase:   m.event(domain.EventTick),
				Passes:      passes,
				Transitions: m.transitions,
				Duration:    time.Since(began),
				Err:         err,
			})
		}
	}()

	m.pending = m.pending[:0]
	err = m.tree.walkActive(0, func(n *node) error {
		return m.invoke(ctx, n, domain.PhaseUpdate)
	})
	if err != nil {
		m.pending = m.pending[:0]
		return err
	}

	passes, err = m.settle(ctx)
	if err != nil {
		err = m.breakWith(err)
	}
	return err
}

// breakWith faults the machine after a hook failed while the active
// configuration was changing. The half-applied configuration is discarded
// without running hooks, so a faulted machine reports no active nodes.
// An existing fault is kept as is.
func (m *Machine) breakWith(err error) error {
	if m.fault != nil {
		return m.fault
	}
	m.fault = fmt.Errorf("%w: %w", domain.ErrBrokenConfiguration, err)
	m.pending = m.pending[:0]
	for i := range m.tree.nodes {
		m.tree.nodes[i].active = false
		m.tree.nodes[i].selected = -1
	}
	m.logger.Error("machine faulted", "err", err)
	return m.fault
}

// IsActive reports whether target resolves to an active node.
func (m *Machine) IsActive(target string) bool {
	id, err := m.tree.resolve(target)
	if err != nil {
		return false
	}
	return m.tree.nodes[id].active
}

// Active returns the paths of every active node in pre-order.
func (m *Machine) Active() []string {
	var out []string
	_ = m.tree.walkActive(0, func(n *node) error {
		out = append(out, n.pathStr)
		return nil
	})
	return out
}

// Leaves returns the paths of the active leaves in pre-order.
func (m *Machine) Leaves() []string {
	var out []string
	_ = m.tree.walkActive(0, func(n *node) error {
		if n.kind == domain.KindLeaf {
			out = append(out, n.pathStr)
		}
		return nil
	})
	return out
}

// Tree describes the static structure of the machine.
func (m *Machine) Tree() []domain.NodeInfo {
	return m.tree.info()
}

// Snapshot captures the settled configuration for rendering or reporting.
func (m *Machine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Machine: m.name,
		Tick:    m.tickNum,
		Active:  m.Active(),
		Leaves:  m.Leaves(),
		Context: m.data.Clone(),
		Faulted: m.fault != nil,
	}
}

// invoke runs one lifecycle hook of n, if its state implements it.
func (m *Machine) invoke(ctx context.Context, n *node, phase domain.Phase) error {
	var err error
	c := &Control{ctx: ctx, m: m, n: n, phase: phase}
	switch phase {
	case domain.PhaseEnter:
		if s, ok := n.state.(Enterer); ok {
			err = s.Enter(c)
		}
	case domain.PhaseUpdate:
		if s, ok := n.state.(Updater); ok {
			err = s.Update(c)
		}
	case domain.PhaseExit:
		if s, ok := n.state.(Exiter); ok {
			err = s.Exit(c)
		}
	}
	if err != nil {
		return &domain.HookError{Path: n.path, Phase: phase, Err: err}
	}
	return nil
}

// enterSubtree activates id and its descendants, shallowest first. Composite
// regions select the child leading to target when target lies below them,
// otherwise their default child.
func (m *Machine) enterSubtree(ctx context.Context, id, target int) error {
	n := &m.tree.nodes[id]
	n.active = true
	if err := m.invoke(ctx, n, domain.PhaseEnter); err != nil {
		return err
	}
	m.emitState(ctx, domain.EventEnter, n)

	switch n.kind {
	case domain.KindComposite:
		pos := n.def
		if target >= 0 && target != id && m.tree.isAncestorOrSelf(id, target) {
			pos = m.tree.childToward(id, target)
		}
		n.selected = pos
		return m.enterSubtree(ctx, n.children[pos], target)
	case domain.KindOrthogonal:
		for _, c := range n.children {
			if err := m.enterSubtree(ctx, c, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// exitSubtree deactivates id and its descendants, deepest first. Orthogonal
// children exit in reverse declared order.
func (m *Machine) exitSubtree(ctx context.Context, id int) error {
	n := &m.tree.nodes[id]
	if !n.active {
		return nil
	}
	switch n.kind {
	case domain.KindComposite:
		if n.selected >= 0 {
			if err := m.exitSubtree(ctx, n.children[n.selected]); err != nil {
				return err
			}
		}
	case domain.KindOrthogonal:
		for i := len(n.children) - 1; i >= 0; i-- {
			if err := m.exitSubtree(ctx, n.children[i]); err != nil {
				return err
			}
		}
	}

	if err := m.invoke(ctx, n, domain.PhaseExit); err != nil {
		return err
	}
	n.active = false
	n.selected = -1
	m.emitState(ctx, domain.EventExit, n)
	return nil
}

func (m *Machine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Machine:   m.name,
		Tick:      m.tickNum,
	}
}

func (m *Machine) emitState(ctx context.Context, t domain.EventType, n *node) {
	hook := m.hooks.OnEnter
	if t == domain.EventExit {
		hook = m.hooks.OnExit
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.StateEvent{
		EventBase: m.event(t),
		Path:      n.pathStr,
		Kind:      n.kind,
	})
}

func (m *Machine) diagnose(ctx context.Context, err error) {
	m.logger.Warn("transition request ignored", "err", err)
	if m.span != nil {
		m.span.AddEvent("diagnostic", trace.WithAttributes(attribute.String("error", err.Error())))
	}
	if m.hooks.OnDiagnostic != nil {
		m.hooks.OnDiagnostic(ctx, err)
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (m *Machine) String() string {
	return fmt.Sprintf("Machine(%s, tick %d)", m.name, m.tickNum)
}
