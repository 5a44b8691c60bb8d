package domain

import (
	"maps"
	"slices"
)

// Well-known flag names backed by dedicated Context fields.
const (
	FlagHungry      = "isHungry"
	FlagStomachPain = "stomachPain"
)

// Context is the data record shared by all states of one machine instance.
// It is owned by the machine; states receive it through their Control and
// must not retain it beyond the hook call.
type Context struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	IsHungry    bool `json:"is_hungry"`
	StomachPain bool `json:"stomach_pain"`

	// Flags holds arbitrary boolean switches (intents, external stimuli).
	Flags map[string]bool `json:"flags,omitempty"`

	// Values holds arbitrary state-defined data.
	Values map[string]any `json:"values,omitempty"`
}

// NewContext creates the context for a freshly created character.
// Characters start hungry.
func NewContext(id int, name string) *Context {
	return &Context{
		ID:       id,
		Name:     name,
		IsHungry: true,
		Flags:    make(map[string]bool),
		Values:   make(map[string]any),
	}
}

// Flag reads a flag by name. Well-known names map to their dedicated fields.
func (c *Context) Flag(name string) bool {
	switch name {
	case FlagHungry:
		return c.IsHungry
	case FlagStomachPain:
		return c.StomachPain
	}
	return c.Flags[name]
}

// SetFlag writes a flag by name. Well-known names map to their dedicated fields.
func (c *Context) SetFlag(name string, value bool) {
	switch name {
	case FlagHungry:
		c.IsHungry = value
		return
	case FlagStomachPain:
		c.StomachPain = value
		return
	}
	if c.Flags == nil {
		c.Flags = make(map[string]bool)
	}
	c.Flags[name] = value
}

// Value returns a state-defined value.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.Values[key]
	return v, ok
}

// SetValue stores a state-defined value.
func (c *Context) SetValue(key string, v any) {
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	c.Values[key] = v
}

// FlagNames returns every flag that is currently set, sorted.
func (c *Context) FlagNames() []string {
	var names []string
	if c.IsHungry {
		names = append(names, FlagHungry)
	}
	if c.StomachPain {
		names = append(names, FlagStomachPain)
	}
	for k, v := range c.Flags {
		if v {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

// Clone returns a deep-enough copy for reporting. Values are copied shallowly.
func (c *Context) Clone() Context {
	out := *c
	out.Flags = maps.Clone(c.Flags)
	out.Values = maps.Clone(c.Values)
	return out
}
