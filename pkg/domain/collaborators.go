package domain

// TimeScaler is the time collaborator states may call into (e.g. sleeping slows time).
type TimeScaler interface {
	SetTimeScale(factor float64)
	TimeScale() float64
}
