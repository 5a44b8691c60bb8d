package behavior

import (
	"errors"

	"github.com/aretw0/tokworld/internal/runtime"
)

// ErrNoClock is returned by states that need the time collaborator when the
// machine was built without one.
var ErrNoClock = errors.New("no time collaborator")

// Sleep slows the game clock while the character sleeps.
type Sleep struct {
	Label   string  `mapstructure:"label"`
	Scale   float64 `mapstructure:"scale"`
	Restore float64 `mapstructure:"restore"`
}

func newSleep() Sleep { return Sleep{Scale: 0.5, Restore: 1.0} }

func (s *Sleep) Enter(c *runtime.Control) error {
	announce(c, s.Label)
	clock := c.Time()
	if clock == nil {
		return ErrNoClock
	}
	clock.SetTimeScale(s.Scale)
	return nil
}

func (s *Sleep) Exit(c *runtime.Control) error {
	logPhase(c, s.Label, "Exit")
	clock := c.Time()
	if clock == nil {
		return ErrNoClock
	}
	clock.SetTimeScale(s.Restore)
	return nil
}

// Eat satisfies the character's hunger.
type Eat struct {
	Label string `mapstructure:"label"`
}

func (e *Eat) Enter(c *runtime.Control) error {
	announce(c, e.Label)
	c.Context().IsHungry = false
	return nil
}

// Work makes the character hungry again after a number of ticks. The tick
// count lives in the context under WorkTicksKey plus the node path.
type Work struct {
	Label string `mapstructure:"label"`
	// HungryAfter is the number of updates spent working before hunger sets
	// in. Zero disables it.
	HungryAfter int `mapstructure:"hungry_after"`
}

// WorkTicksKey prefixes the context value counting updates spent working.
const WorkTicksKey = "work.ticks:"

func workTicksKey(c *runtime.Control) string {
	return WorkTicksKey + c.Path().String()
}

func (w *Work) Enter(c *runtime.Control) error {
	announce(c, w.Label)
	c.Context().SetValue(workTicksKey(c), 0)
	return nil
}

func (w *Work) Update(c *runtime.Control) error {
	if w.HungryAfter <= 0 {
		return nil
	}
	key := workTicksKey(c)
	ticks, _ := c.Context().Value(key)
	n, _ := ticks.(int)
	n++
	c.Context().SetValue(key, n)
	if n >= w.HungryAfter {
		c.Context().IsHungry = true
	}
	return nil
}
