/*
Package domain contains the core models shared by the TokWorld behavior engine.

It defines the data a character's state machine works on and the vocabulary the
engine uses to describe itself to the outside world. This package is kept pure
and free of I/O, following the same hexagonal split as the rest of the module:
the engine lives in internal/runtime, adapters live in pkg/adapters.

# Key Entities

  - Context: the mutable record shared by every state of one machine.
  - Path: a stable, dotted address of a node in the state tree.
  - NodeKind: the tagged variant distinguishing leaves from regions.
  - Request: a pending transition collected during a tick.
  - Snapshot: the settled configuration of a machine, used for rendering and reporting.
  - LifecycleHooks: observability callbacks fired by the engine.
*/
package domain
