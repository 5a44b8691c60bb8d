package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/schema"
)

// Factory builds a fresh state from chart parameters. Every node bound to a
// behavior gets its own instance.
type Factory func(params map[string]any) (runtime.State, error)

// Behavior describes a named state implementation that charts can bind to.
type Behavior struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Params      schema.Params `json:"params,omitempty"`
	New         Factory       `json:"-"`
}

// Registry manages the available behaviors.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[string]Behavior
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[string]Behavior),
	}
}

// Register adds a behavior to the registry.
// If a behavior with the same name exists, it is overwritten.
func (r *Registry) Register(b Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[b.Name] = b
}

// Lookup returns the behavior registered under name.
func (r *Registry) Lookup(name string) (Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.behaviors[name]
	return b, ok
}

// List returns every registered behavior sorted by name.
func (r *Registry) List() []Behavior {
	r.mu.RLock()
	out := make([]Behavior, 0, len(r.behaviors))
	for _, b := range r.behaviors {
		out = append(out, b)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Behavior) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Bind validates params and builds a state for the named behavior.
// It implements schema.Binder.
func (r *Registry) Bind(name string, params map[string]any) (runtime.State, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBehavior, name)
	}
	if b.Params != nil {
		if err := schema.ValidateParams(b.Params, params); err != nil {
			return nil, fmt.Errorf("behavior %s: %w", name, err)
		}
	}
	state, err := b.New(params)
	if err != nil {
		return nil, fmt.Errorf("behavior %s: %w", name, err)
	}
	return state, nil
}

// Struct returns a Factory that decodes params over the value built by
// defaults and hands out a pointer to it.
func Struct[T any](defaults func() T) Factory {
	return func(params map[string]any) (runtime.State, error) {
		v := defaults()
		if err := schema.DecodeParams(params, &v); err != nil {
			return nil, err
		}
		return &v, nil
	}
}
