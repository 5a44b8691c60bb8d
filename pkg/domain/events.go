package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEnter      EventType = "state_enter"
	EventExit       EventType = "state_exit"
	EventTransition EventType = "transition"
	EventTick       EventType = "tick"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine"`
	Tick      uint64    `json:"tick"`
}

// StateEvent represents a node entering or leaving the active configuration.
type StateEvent struct {
	EventBase
	Path string   `json:"path"`
	Kind NodeKind `json:"kind"`
}

// TransitionEvent represents a resolved request that changed a region's selection.
type TransitionEvent struct {
	EventBase
	Origin string `json:"origin"`
	Target string `json:"target"`
	Region string `json:"region"`
	LCA    string `json:"lca"`
	Pass   int    `json:"pass"`
}

// TickEvent summarizes one finished Update call.
type TickEvent struct {
	EventBase
	Passes      int           `json:"passes"`
	Transitions int           `json:"transitions"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the tick and must not call back into the machine.
type LifecycleHooks struct {
	OnEnter      func(context.Context, *StateEvent)
	OnExit       func(context.Context, *StateEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnDiagnostic func(context.Context, error)
	OnTick       func(context.Context, *TickEvent)
}
