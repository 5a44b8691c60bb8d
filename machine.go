package tokworld

import "github.com/aretw0/tokworld/internal/runtime"

// Machine runs one character's chart. See Engine.NewMachine.
type Machine = runtime.Machine

// Control is handed to a state during each lifecycle hook.
type Control = runtime.Control

// State is the behavior bound to a node. It may implement any subset of
// Enterer, Updater and Exiter.
type State = runtime.State

type (
	Enterer    = runtime.Enterer
	Updater    = runtime.Updater
	Exiter     = runtime.Exiter
	StateFuncs = runtime.StateFuncs
)
