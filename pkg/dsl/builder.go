package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/schema"
)

// Chart wraps the tree rooted at root into a named chart.
func Chart(name string, root *NodeBuilder) *schema.Chart {
	return &schema.Chart{Name: name, Root: root.Def()}
}

// Build validates the tree and converts it into an engine tree. Behaviors
// are bound through binder, which may be nil when no node names one.
func Build(root *NodeBuilder, binder schema.Binder) (runtime.Spec, error) {
	if err := schema.Validate(Chart(root.def.Name, root)); err != nil {
		return runtime.Spec{}, err
	}
	var errs []error
	spec := build(root.def.Name, root, binder, &errs)
	if len(errs) > 0 {
		return runtime.Spec{}, errors.Join(errs...)
	}
	return spec, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// package-level trees.
func MustBuild(root *NodeBuilder, binder schema.Binder) runtime.Spec {
	spec, err := Build(root, binder)
	if err != nil {
		panic(err)
	}
	return spec
}

// NewMachine builds the tree and returns an unstarted machine over data.
func NewMachine(root *NodeBuilder, binder schema.Binder, data *domain.Context, opts ...runtime.Option) (*runtime.Machine, error) {
	spec, err := Build(root, binder)
	if err != nil {
		return nil, err
	}
	return runtime.New(spec, data, opts...)
}

func build(path string, n *NodeBuilder, binder schema.Binder, errs *[]error) runtime.Spec {
	kind, _ := domain.ParseNodeKind(n.def.Kind)
	spec := runtime.Spec{
		Name:     n.def.Name,
		Kind:     kind,
		Default:  n.def.Default,
		Behavior: n.def.Behavior,
	}

	switch {
	case n.state != nil:
		spec.State = n.state
	case n.funcs != nil:
		spec.State = *n.funcs
	case n.def.Behavior != "":
		if binder == nil {
			*errs = append(*errs, fmt.Errorf("%s: behavior %q needs a binder", path, n.def.Behavior))
			break
		}
		state, err := binder.Bind(n.def.Behavior, n.def.Params)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
		}
		spec.State = state
	}

	for _, c := range n.children {
		spec.Children = append(spec.Children, build(path+"."+c.def.Name, c, binder, errs))
	}
	return spec
}
