package domain

import "slices"

// Snapshot is the settled configuration of one machine after a tick.
// It is safe to read for rendering and to serialize for reporting.
type Snapshot struct {
	Machine string `json:"machine"`
	Tick    uint64 `json:"tick"`

	// Active lists every active node path in pre-order.
	Active []string `json:"active"`
	// Leaves lists the active leaf paths in pre-order.
	Leaves []string `json:"leaves"`

	Context Context `json:"context"`
	Faulted bool    `json:"faulted,omitempty"`
}

// IsActive reports whether the path was active when the snapshot was taken.
func (s *Snapshot) IsActive(path string) bool {
	return slices.Contains(s.Active, path)
}

// SnapshotDiff represents the changes between two snapshots of the same machine.
// It is designed to be serialized to JSON for partial updates on a client.
type SnapshotDiff struct {
	Machine string `json:"machine"`
	Tick    uint64 `json:"tick"`

	Entered []string `json:"entered,omitempty"`
	Exited  []string `json:"exited,omitempty"`

	// Flags contains only flags whose value changed.
	Flags map[string]bool `json:"flags,omitempty"`
}

// Empty reports whether nothing changed.
func (d *SnapshotDiff) Empty() bool {
	return len(d.Entered) == 0 && len(d.Exited) == 0 && len(d.Flags) == 0
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		Machine: newSnap.Machine,
		Tick:    newSnap.Tick,
	}

	var oldActive []string
	var oldFlags []string
	if oldSnap != nil {
		oldActive = oldSnap.Active
		oldFlags = oldSnap.Context.FlagNames()
	}

	for _, p := range newSnap.Active {
		if !slices.Contains(oldActive, p) {
			diff.Entered = append(diff.Entered, p)
		}
	}
	for _, p := range oldActive {
		if !slices.Contains(newSnap.Active, p) {
			diff.Exited = append(diff.Exited, p)
		}
	}

	newFlags := newSnap.Context.FlagNames()
	for _, f := range newFlags {
		if !slices.Contains(oldFlags, f) {
			if diff.Flags == nil {
				diff.Flags = make(map[string]bool)
			}
			diff.Flags[f] = true
		}
	}
	for _, f := range oldFlags {
		if !slices.Contains(newFlags, f) {
			if diff.Flags == nil {
				diff.Flags = make(map[string]bool)
			}
			diff.Flags[f] = false
		}
	}

	if oldSnap != nil && diff.Empty() {
		return nil
	}
	return diff
}
