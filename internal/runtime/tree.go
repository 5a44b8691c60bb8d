package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/tokworld/pkg/domain"
)

// node is one slot of the tree arena. Nodes refer to each other by index.
type node struct {
	id       int
	name     string
	path     domain.Path
	pathStr  string
	kind     domain.NodeKind
	depth    int
	parent   int
	children []int
	def      int // default child position, Composite only

	state    State
	behavior string

	active   bool
	selected int // selected child position, -1 when none
}

// tree is the arena holding every node of one machine, root at index 0.
type tree struct {
	nodes    []node
	byName   map[string][]int
	resolved map[string]int
}

func buildTree(root Spec) (*tree, error) {
	if root.Kind == domain.KindLeaf {
		return nil, &domain.TreeError{Path: root.Name, Reason: "root must be a region"}
	}
	t := &tree{
		byName:   make(map[string][]int),
		resolved: make(map[string]int),
	}
	if _, err := t.add(root, -1, nil); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *tree) add(s Spec, parent int, parentPath domain.Path) (int, error) {
	name := strings.TrimSpace(s.Name)
	where := parentPath.Child(name).String()
	if name == "" {
		return -1, &domain.TreeError{Path: parentPath.String(), Reason: "node without a name"}
	}
	if strings.Contains(name, domain.PathSeparator) {
		return -1, &domain.TreeError{Path: where, Reason: "node names cannot contain " + domain.PathSeparator}
	}

	switch s.Kind {
	case domain.KindLeaf:
		if len(s.Children) > 0 {
			return -1, &domain.TreeError{Path: where, Reason: "leaf with children"}
		}
	case domain.KindComposite, domain.KindOrthogonal:
		if len(s.Children) == 0 {
			return -1, &domain.TreeError{Path: where, Reason: fmt.Sprintf("%s region without children", s.Kind)}
		}
	default:
		return -1, &domain.TreeError{Path: where, Reason: fmt.Sprintf("unknown kind %d", int(s.Kind))}
	}

	id := len(t.nodes)
	path := parentPath.Child(name)
	depth := 0
	if parent >= 0 {
		depth = t.nodes[parent].depth + 1
	}
	t.nodes = append(t.nodes, node{
		id:       id,
		name:     name,
		path:     path,
		pathStr:  path.String(),
		kind:     s.Kind,
		depth:    depth,
		parent:   parent,
		state:    s.State,
		behavior: s.Behavior,
		selected: -1,
	})
	t.byName[name] = append(t.byName[name], id)

	seen := make(map[string]bool, len(s.Children))
	children := make([]int, 0, len(s.Children))
	def := -1
	for i, cs := range s.Children {
		cname := strings.TrimSpace(cs.Name)
		if seen[cname] {
			return -1, &domain.TreeError{Path: where, Reason: fmt.Sprintf("duplicate child %q", cname)}
		}
		seen[cname] = true
		if s.Default != "" && cname == s.Default {
			def = i
		}
		cid, err := t.add(cs, id, path)
		if err != nil {
			return -1, err
		}
		children = append(children, cid)
	}

	if s.Default != "" {
		if s.Kind != domain.KindComposite {
			return -1, &domain.TreeError{Path: where, Reason: "only composite regions have a default child"}
		}
		if def < 0 {
			return -1, &domain.TreeError{Path: where, Reason: fmt.Sprintf("default child %q not found", s.Default)}
		}
	}
	if def < 0 {
		def = 0
	}

	// t.nodes may have grown; write through the index.
	t.nodes[id].children = children
	t.nodes[id].def = def
	return id, nil
}

// resolve maps a textual target to a node index. Targets are dotted paths,
// absolute (with or without the root name) or a unique suffix such as "Pain"
// or "Stomach.Pain".
func (t *tree) resolve(target string) (int, error) {
	if id, ok := t.resolved[target]; ok {
		return id, nil
	}
	p, err := domain.ParsePath(target)
	if err != nil {
		return -1, err
	}

	id, ok := t.walk(p)
	if !ok {
		matches := t.suffixMatches(p)
		switch len(matches) {
		case 0:
			return -1, fmt.Errorf("%w: no node at %q", domain.ErrMalformedTarget, target)
		case 1:
			id = matches[0]
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = t.nodes[m].pathStr
			}
			return -1, fmt.Errorf("%w: %q is ambiguous (%s)", domain.ErrMalformedTarget, target, strings.Join(names, ", "))
		}
	}
	t.resolved[target] = id
	return id, nil
}

func (t *tree) walk(p domain.Path) (int, bool) {
	cur := 0
	rest := p
	if rest[0] == t.nodes[0].name {
		rest = rest[1:]
	}
	for _, name := range rest {
		next := -1
		for _, c := range t.nodes[cur].children {
			if t.nodes[c].name == name {
				next = c
				break
			}
		}
		if next < 0 {
			return -1, false
		}
		cur = next
	}
	return cur, true
}

func (t *tree) suffixMatches(p domain.Path) []int {
	var out []int
	for _, id := range t.byName[p.Leaf()] {
		np := t.nodes[id].path
		if len(np) >= len(p) && np[len(np)-len(p):].Equal(p) {
			out = append(out, id)
		}
	}
	return out
}

// isAncestorOrSelf reports whether a lies on the branch from the root to b.
func (t *tree) isAncestorOrSelf(a, b int) bool {
	for cur := b; cur >= 0; cur = t.nodes[cur].parent {
		if cur == a {
			return true
		}
		if t.nodes[cur].depth < t.nodes[a].depth {
			return false
		}
	}
	return false
}

// chain returns the node indices from the root down to id.
func (t *tree) chain(id int) []int {
	out := make([]int, t.nodes[id].depth+1)
	for cur := id; cur >= 0; cur = t.nodes[cur].parent {
		out[t.nodes[cur].depth] = cur
	}
	return out
}

// childToward returns the position of the child of parent on the branch to target.
func (t *tree) childToward(parent, target int) int {
	for i, c := range t.nodes[parent].children {
		if t.isAncestorOrSelf(c, target) {
			return i
		}
	}
	return -1
}

// walkActive visits active nodes in pre-order: the node, then its selected
// child (Composite) or every child in declared order (Orthogonal).
func (t *tree) walkActive(id int, fn func(n *node) error) error {
	n := &t.nodes[id]
	if !n.active {
		return nil
	}
	if err := fn(n); err != nil {
		return err
	}
	switch n.kind {
	case domain.KindComposite:
		if n.selected >= 0 {
			return t.walkActive(n.children[n.selected], fn)
		}
	case domain.KindOrthogonal:
		for _, c := range n.children {
			if err := t.walkActive(c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *tree) info() []domain.NodeInfo {
	out := make([]domain.NodeInfo, len(t.nodes))
	for i := range t.nodes {
		n := &t.nodes[i]
		ni := domain.NodeInfo{
			ID:       n.id,
			Path:     n.pathStr,
			Name:     n.name,
			Kind:     n.kind,
			Depth:    n.depth,
			Parent:   n.parent,
			Behavior: n.behavior,
		}
		for _, c := range n.children {
			ni.Children = append(ni.Children, t.nodes[c].name)
		}
		if n.kind == domain.KindComposite {
			ni.Default = t.nodes[n.children[n.def]].name
		}
		out[i] = ni
	}
	return out
}
