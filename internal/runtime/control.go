package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/tokworld/pkg/domain"
)

// Control is handed to a state for the duration of one lifecycle hook.
// It must not be retained after the hook returns.
type Control struct {
	ctx    context.Context
	m      *Machine
	n      *node
	phase  domain.Phase
	issued bool
}

// Ctx returns the context.Context of the running tick.
func (c *Control) Ctx() context.Context { return c.ctx }

// Context returns the machine's shared data record.
func (c *Control) Context() *domain.Context { return c.m.data }

// Path returns the path of the state running the hook.
func (c *Control) Path() domain.Path { return c.n.path }

// Name returns the node name of the state running the hook.
func (c *Control) Name() string { return c.n.name }

// Phase reports which hook is running.
func (c *Control) Phase() domain.Phase { return c.phase }

// Logger returns the machine logger scoped to this state.
func (c *Control) Logger() *slog.Logger {
	return c.m.logger.With("state", c.n.pathStr)
}

// Time returns the time collaborator, or nil when the machine has none.
func (c *Control) Time() domain.TimeScaler { return c.m.clock }

// IsActive reports whether target currently resolves to an active node.
func (c *Control) IsActive(target string) bool {
	id, err := c.m.tree.resolve(target)
	if err != nil {
		return false
	}
	return c.m.tree.nodes[id].active
}

// ChangeTo queues a transition towards target. The target is not validated
// here; malformed targets are reported when the request is resolved.
func (c *Control) ChangeTo(target string) {
	if c.phase == domain.PhaseUpdate && c.issued {
		c.m.logger.Debug("extra request from update dropped",
			"origin", c.n.pathStr,
			"target", target,
		)
		return
	}
	c.issued = true
	c.m.pending = append(c.m.pending, pendingRequest{
		Request: domain.Request{
			Origin: c.n.path,
			Target: target,
			Phase:  c.phase,
			Seq:    len(c.m.pending),
		},
		origin: c.n.id,
	})
}

// ChangeToPath is ChangeTo for an already split path.
func (c *Control) ChangeToPath(p domain.Path) {
	c.ChangeTo(p.String())
}
