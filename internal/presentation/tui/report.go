package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
)

// Report formats a world frame as markdown: the clock, then one row per
// character with its active leaves and body flags.
func Report(f world.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (tick %d)\n\n", f.Time, f.Tick)
	if len(f.Characters) == 0 {
		b.WriteString("_No characters._\n")
		return b.String()
	}

	b.WriteString("| ID | Name | Map | States | Hungry | Stomach pain |\n")
	b.WriteString("|---:|------|----:|--------|:------:|:------------:|\n")
	for _, c := range f.Characters {
		states := make([]string, 0, len(c.Machine.Leaves))
		for _, leaf := range c.Machine.Leaves {
			states = append(states, strings.TrimPrefix(leaf, rootPrefix(leaf)))
		}
		status := strings.Join(states, ", ")
		if c.Machine.Faulted {
			status = "**faulted**"
		}
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %s | %s |\n",
			c.ID, c.Name, c.Position.MapID, status,
			check(c.Machine.Context.IsHungry), check(c.Machine.Context.StomachPain))
	}
	return b.String()
}

func rootPrefix(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i+1]
	}
	return ""
}

func check(v bool) string {
	if v {
		return "✓"
	}
	return ""
}

// Changes lists, per character, what differs between two frames: states
// entered and exited and flags that flipped. Characters that did not change
// are omitted.
func Changes(prev, next world.Frame) string {
	before := make(map[int]*domain.Snapshot, len(prev.Characters))
	for i := range prev.Characters {
		before[prev.Characters[i].ID] = &prev.Characters[i].Machine
	}

	var b strings.Builder
	for i := range next.Characters {
		c := &next.Characters[i]
		diff := domain.Diff(before[c.ID], &c.Machine)
		if diff == nil || diff.Empty() {
			continue
		}
		var parts []string
		if len(diff.Entered) > 0 {
			parts = append(parts, "entered "+strings.Join(diff.Entered, ", "))
		}
		if len(diff.Exited) > 0 {
			parts = append(parts, "exited "+strings.Join(diff.Exited, ", "))
		}
		for _, name := range slices.Sorted(maps.Keys(diff.Flags)) {
			parts = append(parts, fmt.Sprintf("%s=%t", name, diff.Flags[name]))
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", c.Name, strings.Join(parts, "; "))
	}
	return b.String()
}
