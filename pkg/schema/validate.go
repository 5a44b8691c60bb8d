package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/tokworld/pkg/domain"
)

// Validate checks the structure of a chart and reports every problem found.
// Behavior bindings are checked by Compile.
func Validate(c *Chart) error {
	var errs []error
	report := func(path, reason string) {
		errs = append(errs, &ValidationError{Path: path, Reason: reason})
	}

	if c.Root.Name == "" {
		report("(root)", "root node without a name")
	}
	if kind, err := domain.ParseNodeKind(c.Root.Kind); err == nil && kind == domain.KindLeaf {
		report(c.Root.Name, "root must be a composite or orthogonal region")
	}

	_ = c.Walk(func(path string, def *NodeDef) error {
		switch {
		case strings.TrimSpace(def.Name) == "":
			report(path, "node without a name")
		case strings.Contains(def.Name, domain.PathSeparator):
			report(path, fmt.Sprintf("node name %q cannot contain %q", def.Name, domain.PathSeparator))
		}

		kind, err := domain.ParseNodeKind(def.Kind)
		if err != nil {
			report(path, fmt.Sprintf("unknown kind %q", def.Kind))
			return nil
		}
		switch kind {
		case domain.KindLeaf:
			if len(def.Children) > 0 {
				report(path, "leaf with children")
			}
		default:
			if len(def.Children) == 0 {
				report(path, fmt.Sprintf("%s region without children", kind))
			}
		}

		seen := make(map[string]bool, len(def.Children))
		for _, child := range def.Children {
			if seen[child.Name] {
				report(path, fmt.Sprintf("duplicate child %q", child.Name))
			}
			seen[child.Name] = true
		}
		if def.Default != "" {
			if kind != domain.KindComposite {
				report(path, "only composite regions have a default child")
			} else if !seen[def.Default] {
				report(path, fmt.Sprintf("default child %q not found", def.Default))
			}
		}
		if def.Behavior == "" && len(def.Params) > 0 {
			report(path, "params without a behavior")
		}
		return nil
	})

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
