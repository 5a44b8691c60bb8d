package dsl

import (
	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/schema"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	def      schema.NodeDef
	state    runtime.State
	funcs    *runtime.StateFuncs
	children []*NodeBuilder
}

func newNode(name string, kind domain.NodeKind, children []*NodeBuilder) *NodeBuilder {
	return &NodeBuilder{
		def:      schema.NodeDef{Name: name, Kind: kind.String()},
		children: children,
	}
}

// Leaf declares a node without children.
func Leaf(name string) *NodeBuilder {
	return newNode(name, domain.KindLeaf, nil)
}

// Composite declares a region with exactly one active child.
func Composite(name string, children ...*NodeBuilder) *NodeBuilder {
	return newNode(name, domain.KindComposite, children)
}

// Orthogonal declares a region whose children are all active together.
func Orthogonal(name string, children ...*NodeBuilder) *NodeBuilder {
	return newNode(name, domain.KindOrthogonal, children)
}

// Default names the child a composite region enters when activated.
func (n *NodeBuilder) Default(child string) *NodeBuilder {
	n.def.Default = child
	return n
}

// Behavior binds the node to a registered behavior.
func (n *NodeBuilder) Behavior(name string, params map[string]any) *NodeBuilder {
	n.def.Behavior = name
	n.def.Params = params
	return n
}

// State attaches a state value directly. It takes precedence over Behavior.
func (n *NodeBuilder) State(s runtime.State) *NodeBuilder {
	n.state = s
	return n
}

// OnEnter sets the enter hook of the node's inline state.
func (n *NodeBuilder) OnEnter(fn func(*runtime.Control) error) *NodeBuilder {
	n.inline().OnEnter = fn
	return n
}

// OnUpdate sets the update hook of the node's inline state.
func (n *NodeBuilder) OnUpdate(fn func(*runtime.Control) error) *NodeBuilder {
	n.inline().OnUpdate = fn
	return n
}

// OnExit sets the exit hook of the node's inline state.
func (n *NodeBuilder) OnExit(fn func(*runtime.Control) error) *NodeBuilder {
	n.inline().OnExit = fn
	return n
}

func (n *NodeBuilder) inline() *runtime.StateFuncs {
	if n.funcs == nil {
		n.funcs = &runtime.StateFuncs{}
	}
	return n.funcs
}

// Def returns the node and its descendants as a chart definition. Inline
// states are not representable and are left out.
func (n *NodeBuilder) Def() schema.NodeDef {
	def := n.def
	def.Children = nil
	for _, c := range n.children {
		def.Children = append(def.Children, c.Def())
	}
	return def
}
