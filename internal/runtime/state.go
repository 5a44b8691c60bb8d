package runtime

import "github.com/aretw0/tokworld/pkg/domain"

// Enterer is implemented by states that react to becoming active.
type Enterer interface {
	Enter(c *Control) error
}

// Updater is implemented by states that run once per tick while active.
// An Update may issue at most one transition request.
type Updater interface {
	Update(c *Control) error
}

// Exiter is implemented by states that react to becoming inactive.
type Exiter interface {
	Exit(c *Control) error
}

// State is the behavior bound to a node. It may implement any subset of
// Enterer, Updater and Exiter. States are shared templates: per-machine data
// belongs in the Context, never in the state value.
type State any

// StateFuncs adapts plain functions to the lifecycle interfaces.
// Nil functions are skipped.
type StateFuncs struct {
	OnEnter  func(c *Control) error
	OnUpdate func(c *Control) error
	OnExit   func(c *Control) error
}

func (s StateFuncs) Enter(c *Control) error {
	if s.OnEnter == nil {
		return nil
	}
	return s.OnEnter(c)
}

func (s StateFuncs) Update(c *Control) error {
	if s.OnUpdate == nil {
		return nil
	}
	return s.OnUpdate(c)
}

func (s StateFuncs) Exit(c *Control) error {
	if s.OnExit == nil {
		return nil
	}
	return s.OnExit(c)
}

// Spec is the static definition of a node and its subtree.
type Spec struct {
	Name string
	Kind domain.NodeKind

	// Default names the child a Composite enters when nothing else is targeted.
	// Empty means the first child.
	Default string

	State State
	// Behavior is a descriptive label used for introspection only.
	Behavior string

	Children []Spec
}
