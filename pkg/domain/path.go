package domain

import (
	"fmt"
	"strings"
)

// PathSeparator separates node names in the textual form of a Path.
const PathSeparator = "."

// Path addresses a node by the names along its branch, starting below or at the root.
type Path []string

// ParsePath parses a dotted path such as "Decision.Rest.Eat".
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformedTarget)
	}
	parts := strings.Split(s, PathSeparator)
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrMalformedTarget, s)
		}
	}
	return Path(parts), nil
}

// MustParsePath is ParsePath for static paths. It panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// Leaf returns the last segment, or "" for an empty path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// HasPrefix reports whether q is an ancestor-or-self of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(q Path) bool {
	return len(p) == len(q) && p.HasPrefix(q)
}

// CommonAncestor returns the longest shared prefix of p and q.
func (p Path) CommonAncestor(q Path) Path {
	n := min(len(p), len(q))
	i := 0
	for i < n && p[i] == q[i] {
		i++
	}
	return append(Path(nil), p[:i]...)
}

// Child returns a new path with name appended.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}
