package schema

import (
	"fmt"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
)

// Binder turns a behavior name and its chart parameters into a state.
type Binder interface {
	Bind(behavior string, params map[string]any) (runtime.State, error)
}

// Compile validates c and converts it into an engine tree. With a nil binder
// the tree carries no behavior, which is enough for rendering.
func Compile(c *Chart, b Binder) (runtime.Spec, error) {
	if err := Validate(c); err != nil {
		return runtime.Spec{}, err
	}

	var errs []error
	spec := compileNode(c.Root.Name, &c.Root, b, &errs)
	if len(errs) > 0 {
		return runtime.Spec{}, &AggregateError{Errors: errs}
	}
	return spec, nil
}

func compileNode(path string, def *NodeDef, b Binder, errs *[]error) runtime.Spec {
	kind, _ := domain.ParseNodeKind(def.Kind)
	spec := runtime.Spec{
		Name:     def.Name,
		Kind:     kind,
		Default:  def.Default,
		Behavior: def.Behavior,
	}
	if def.Behavior != "" && b != nil {
		state, err := b.Bind(def.Behavior, def.Params)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
		}
		spec.State = state
	}
	for i := range def.Children {
		child := &def.Children[i]
		spec.Children = append(spec.Children, compileNode(path+"."+child.Name, child, b, errs))
	}
	return spec
}
