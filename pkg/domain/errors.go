package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedTarget is reported when a transition target does not resolve to a node.
var ErrMalformedTarget = errors.New("malformed transition target")

// ErrCascadeLimit is returned when transitions keep cascading past the configured bound.
var ErrCascadeLimit = errors.New("transition cascade limit exceeded")

// ErrBrokenConfiguration is returned once an enter or exit hook failed midway
// through changing the active configuration. The machine is faulted.
var ErrBrokenConfiguration = errors.New("active configuration left incomplete")

// ErrInvalidTree is returned when a state tree definition is structurally invalid.
var ErrInvalidTree = errors.New("invalid state tree")

// ErrUnknownBehavior is returned when a chart names a behavior nobody registered.
var ErrUnknownBehavior = errors.New("unknown behavior")

// ErrCharacterNotFound is returned when a character ID is not managed.
var ErrCharacterNotFound = errors.New("character not found")

// ErrMapNotFound is returned when a map ID is not loaded in the atlas.
var ErrMapNotFound = errors.New("map not found")

// TargetError describes a transition request that was ignored.
type TargetError struct {
	Origin Path
	Target string
	Reason string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %q requested by %s: %s", ErrMalformedTarget, e.Target, e.Origin, e.Reason)
}

func (e *TargetError) Unwrap() error { return ErrMalformedTarget }

// CascadeError is the fatal configuration error raised when resolution does not settle.
type CascadeError struct {
	Machine string
	Passes  int
	// Origin and Target describe the last request that kept the cascade going.
	Origin Path
	Target string
	// SelfCascade is set when a state requested itself from its own enter hook.
	SelfCascade bool
}

func (e *CascadeError) Error() string {
	if e.SelfCascade {
		return fmt.Sprintf("%s: machine %q: %s requests itself on enter", ErrCascadeLimit, e.Machine, e.Origin)
	}
	return fmt.Sprintf("%s: machine %q: still unsettled after %d passes (last %s -> %s)",
		ErrCascadeLimit, e.Machine, e.Passes, e.Origin, e.Target)
}

func (e *CascadeError) Unwrap() error { return ErrCascadeLimit }

// HookError wraps a failure raised by a state's lifecycle hook.
type HookError struct {
	Path  Path
	Phase Phase
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Path, e.Phase, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// TreeError locates a structural problem in a tree definition.
type TreeError struct {
	Path   string
	Reason string
}

func (e *TreeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidTree, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidTree, e.Path, e.Reason)
}

func (e *TreeError) Unwrap() error { return ErrInvalidTree }
