package domain

import "fmt"

// NodeKind distinguishes leaves from the two kinds of regions.
type NodeKind int

const (
	// KindLeaf is a state without children.
	KindLeaf NodeKind = iota
	// KindComposite is a region with exactly one active child.
	KindComposite
	// KindOrthogonal is a region whose children are all active together.
	KindOrthogonal
)

func (k NodeKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindComposite:
		return "composite"
	case KindOrthogonal:
		return "orthogonal"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// ParseNodeKind accepts the textual kinds used by chart files. An empty kind
// is a leaf.
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "", "leaf", "state":
		return KindLeaf, nil
	case "composite":
		return KindComposite, nil
	case "orthogonal", "parallel":
		return KindOrthogonal, nil
	}
	return KindLeaf, fmt.Errorf("%w: unknown node kind %q", ErrInvalidTree, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// NodeInfo is a read-only description of a node in a built tree.
type NodeInfo struct {
	ID       int      `json:"id"`
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Kind     NodeKind `json:"kind"`
	Depth    int      `json:"depth"`
	Parent   int      `json:"parent"` // -1 for the root
	Default  string   `json:"default,omitempty"`
	Children []string `json:"children,omitempty"`
	Behavior string   `json:"behavior,omitempty"`
}
