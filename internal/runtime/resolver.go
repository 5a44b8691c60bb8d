package runtime

import (
	"context"

	"github.com/aretw0/tokworld/pkg/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// pendingRequest is a request plus the arena index of the state that issued it.
type pendingRequest struct {
	domain.Request
	origin int
}

// plan is a request that survived resolution for one pass.
type plan struct {
	req    pendingRequest
	target int
	// region is the Composite whose selection changes. -1 for a no-op,
	// which affects no region and never conflicts.
	region int
	noop   bool
}

// settle resolves pending requests until no new ones are produced. Pass 0
// handles what the update walk collected; every further pass is a cascade
// and is bounded by maxCascade.
func (m *Machine) settle(ctx context.Context) (int, error) {
	passes := 0
	var last pendingRequest
	for len(m.pending) > 0 {
		if passes > m.maxCascade {
			return passes, m.faultWith(&domain.CascadeError{
				Machine: m.name,
				Passes:  passes,
				Origin:  last.Origin,
				Target:  last.Target,
			})
		}
		reqs := m.pending
		m.pending = nil
		last = reqs[len(reqs)-1]

		if err := m.resolvePass(ctx, passes, reqs); err != nil {
			m.pending = nil
			return passes + 1, err
		}
		passes++
	}
	m.pending = m.pending[:0]
	return passes, nil
}

// resolvePass groups the requests of one pass by the region they affect,
// keeps the earliest request per region and applies the survivors.
func (m *Machine) resolvePass(ctx context.Context, pass int, reqs []pendingRequest) error {
	plans := make([]plan, 0, len(reqs))
	for _, r := range reqs {
		target, err := m.tree.resolve(r.Target)
		if err != nil {
			m.diagnose(ctx, &domain.TargetError{Origin: r.Origin, Target: r.Target, Reason: err.Error()})
			continue
		}
		if r.Phase == domain.PhaseEnter && target == r.origin {
			return m.faultWith(&domain.CascadeError{
				Machine:     m.name,
				Passes:      pass,
				Origin:      r.Origin,
				Target:      r.Target,
				SelfCascade: true,
			})
		}

		p := m.plan(r, target)
		if winner, ok := m.conflicting(plans, p); ok {
			m.logger.Debug("conflicting request dropped",
				"origin", r.Origin.String(),
				"target", r.Target,
				"winner", winner.req.Target,
			)
			continue
		}
		plans = append(plans, p)
	}

	for _, p := range plans {
		if p.noop {
			continue
		}
		if err := m.apply(ctx, pass, p); err != nil {
			return err
		}
	}
	return nil
}

// plan finds the region a request affects. Walking from the root towards the
// target, the first inactive node's parent is the Composite whose selection
// must change. A fully active branch makes the request a no-op.
func (m *Machine) plan(r pendingRequest, target int) plan {
	nodes := m.tree.nodes
	for _, id := range m.tree.chain(target) {
		if !nodes[id].active {
			return plan{req: r, target: target, region: nodes[id].parent}
		}
	}
	return plan{req: r, target: target, region: -1, noop: true}
}

// conflicting reports the earlier plan that p conflicts with. Two plans
// conflict when one region contains the other: applying both would let the
// later request undo or invalidate the earlier one.
func (m *Machine) conflicting(accepted []plan, p plan) (plan, bool) {
	if p.region < 0 {
		return plan{}, false
	}
	for _, a := range accepted {
		if a.region < 0 {
			continue
		}
		if m.tree.isAncestorOrSelf(a.region, p.region) || m.tree.isAncestorOrSelf(p.region, a.region) {
			return a, true
		}
	}
	return plan{}, false
}

// apply swaps the selection of p.region: the old child's subtree exits
// deepest first, then the branch towards the target enters shallowest first.
func (m *Machine) apply(ctx context.Context, pass int, p plan) error {
	region := &m.tree.nodes[p.region]
	pos := m.tree.childToward(p.region, p.target)

	if region.selected >= 0 {
		if err := m.exitSubtree(ctx, region.children[region.selected]); err != nil {
			return err
		}
	}
	region.selected = pos
	if err := m.enterSubtree(ctx, region.children[pos], p.target); err != nil {
		return err
	}

	m.transitions++
	targetPath := m.tree.nodes[p.target].path
	lca := p.req.Origin.CommonAncestor(targetPath)
	m.logger.Debug("transition",
		"origin", p.req.Origin.String(),
		"target", targetPath.String(),
		"region", region.pathStr,
		"pass", pass,
	)
	if m.span != nil {
		m.span.AddEvent("transition", trace.WithAttributes(
			attribute.String("hfsm.origin", p.req.Origin.String()),
			attribute.String("hfsm.target", targetPath.String()),
			attribute.String("hfsm.region", region.pathStr),
			attribute.Int("hfsm.pass", pass),
		))
	}
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: m.event(domain.EventTransition),
			Origin:    p.req.Origin.String(),
			Target:    targetPath.String(),
			Region:    region.pathStr,
			LCA:       lca.String(),
			Pass:      pass,
		})
	}
	return nil
}

func (m *Machine) faultWith(err *domain.CascadeError) error {
	m.fault = err
	m.logger.Error("machine faulted", "err", err)
	return err
}
