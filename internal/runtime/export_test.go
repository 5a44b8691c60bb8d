package runtime

import (
	"fmt"

	"github.com/aretw0/tokworld/pkg/domain"
)

// CheckInvariants verifies the structural invariants over every node of m.
func CheckInvariants(m *Machine) error {
	nodes := m.tree.nodes
	for i := range nodes {
		n := &nodes[i]
		if n.active && n.parent >= 0 && !nodes[n.parent].active {
			return fmt.Errorf("%s active under inactive parent", n.pathStr)
		}
		switch n.kind {
		case domain.KindComposite:
			count := 0
			for _, c := range n.children {
				if nodes[c].active {
					count++
				}
			}
			if count > 1 {
				return fmt.Errorf("%s has %d active children", n.pathStr, count)
			}
			if n.active && count == 1 && (n.selected < 0 || !nodes[n.children[n.selected]].active) {
				return fmt.Errorf("%s selection out of sync", n.pathStr)
			}
		case domain.KindOrthogonal:
			if !n.active {
				continue
			}
			for _, c := range n.children {
				if !nodes[c].active {
					return fmt.Errorf("%s active with inactive child %s", n.pathStr, nodes[c].pathStr)
				}
			}
		}
	}
	return nil
}

// ActiveFlags returns the active flag of every node keyed by path.
func ActiveFlags(m *Machine) map[string]bool {
	out := make(map[string]bool, len(m.tree.nodes))
	for _, n := range m.tree.nodes {
		out[n.pathStr] = n.active
	}
	return out
}
