package domain

// Phase names the lifecycle hook a request or error originated from.
type Phase string

const (
	PhaseEnter  Phase = "enter"
	PhaseUpdate Phase = "update"
	PhaseExit   Phase = "exit"
)

// Request is a pending transition collected during one resolution pass.
type Request struct {
	// Origin is the path of the state that issued the request.
	Origin Path `json:"origin"`
	// Target is the raw target as the state wrote it.
	Target string `json:"target"`
	// Phase is the hook the request was issued from.
	Phase Phase `json:"phase"`
	// Seq is the discovery order within the pass. Lower wins conflicts.
	Seq int `json:"seq"`
}
