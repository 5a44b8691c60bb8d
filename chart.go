package tokworld

import (
	_ "embed"
	"strings"

	"github.com/aretw0/tokworld/internal/presentation/graph"
	"github.com/aretw0/tokworld/pkg/schema"
)

//go:embed charts/tokworld.yaml
var defaultChart []byte

// DefaultChart returns a fresh copy of the TokWorld character chart.
func DefaultChart() *schema.Chart {
	chart, err := schema.Parse(defaultChart, schema.FormatYAML)
	if err != nil {
		panic("tokworld: embedded chart: " + err.Error())
	}
	return chart
}

// Edges extracts the transitions a chart declares through its behavior
// parameters: "target", "recover" and every route of a router.
func Edges(chart *schema.Chart) []graph.Edge {
	var edges []graph.Edge
	_ = chart.Walk(func(path string, def *schema.NodeDef) error {
		if t, ok := def.Params["target"].(string); ok && t != "" {
			edges = append(edges, graph.Edge{From: path, To: t, Label: def.Behavior})
		}
		if t, ok := def.Params["recover"].(string); ok && t != "" {
			edges = append(edges, graph.Edge{From: path, To: t, Label: "recover"})
		}
		routes, _ := def.Params["routes"].([]any)
		for _, r := range routes {
			route, ok := r.(map[string]any)
			if !ok {
				continue
			}
			to, _ := route["target"].(string)
			flag, _ := route["flag"].(string)
			if to == "" {
				continue
			}
			edges = append(edges, graph.Edge{From: path, To: to, Label: strings.TrimSpace(flag)})
		}
		return nil
	})
	return edges
}
