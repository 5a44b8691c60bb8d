package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tokworld/pkg/domain"
)

// Overlay contains runtime state to highlight on the graph.
type Overlay struct {
	Active []string
}

// Edge is a transition a state is known to request.
type Edge struct {
	From  string
	To    string
	Label string
}

// GenerateMermaid renders a state tree as a Mermaid flowchart. Regions
// become subgraphs and leaves become nodes:
// - Default child of a composite region: ([Stadium])
// - Other leaves: [Rectangle]
// - Orthogonal regions are labelled with ∥
// Edges point from the requesting node to the target; targets are matched
// by the same suffix rules the engine uses.
func GenerateMermaid(nodes []domain.NodeInfo, edges []Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	if len(nodes) > 0 {
		writeNode(&sb, nodes, 0, 1)
	}

	for _, e := range edges {
		from, ok := match(nodes, e.From)
		if !ok {
			continue
		}
		to, ok := match(nodes, e.To)
		if !ok {
			continue
		}
		arrow := "-.->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-. \"%s\" .->", strings.ReplaceAll(e.Label, "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(from), arrow, sanitizeMermaidID(to))
	}

	if overlay != nil && len(overlay.Active) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		seen := make(map[string]bool)
		for _, p := range overlay.Active {
			id := sanitizeMermaidID(p)
			if id != "" && !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s active;\n", id)
			}
		}
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, nodes []domain.NodeInfo, id, indent int) {
	n := nodes[id]
	pad := strings.Repeat("    ", indent)
	safeID := sanitizeMermaidID(n.Path)

	if n.Kind == domain.KindLeaf {
		opener, closer := "[", "]"
		if n.Parent >= 0 && nodes[n.Parent].Kind == domain.KindComposite && nodes[n.Parent].Default == n.Name {
			opener, closer = "([", "])"
		}
		fmt.Fprintf(sb, "%s%s%s\"%s\"%s\n", pad, safeID, opener, n.Name, closer)
		return
	}

	label := n.Name
	if n.Kind == domain.KindOrthogonal {
		label += " ∥"
	}
	fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", pad, safeID, label)
	for _, child := range children(nodes, id) {
		writeNode(sb, nodes, child, indent+1)
	}
	fmt.Fprintf(sb, "%send\n", pad)
}

func children(nodes []domain.NodeInfo, parent int) []int {
	var out []int
	for i := range nodes {
		if nodes[i].Parent == parent {
			out = append(out, i)
		}
	}
	return out
}

// match finds the node a textual target refers to: the full path, the path
// without the root name, or a unique suffix.
func match(nodes []domain.NodeInfo, target string) (string, bool) {
	found := ""
	for _, n := range nodes {
		if n.Path == target {
			return n.Path, true
		}
		if strings.HasSuffix(n.Path, "."+target) {
			if found != "" {
				return "", false
			}
			found = n.Path
		}
	}
	return found, found != ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
