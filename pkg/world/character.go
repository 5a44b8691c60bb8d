package world

import (
	"fmt"
	"time"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
)

// ArrivalPosition is where a character lands after travelling to a new map.
var ArrivalPosition = Position{X: 5, Y: 5}

// Character is one simulated person and the machine that drives it.
type Character struct {
	ID       int
	Name     string
	Position Position

	machine *runtime.Machine
}

// Machine returns the character's state machine.
func (c *Character) Machine() *runtime.Machine { return c.machine }

// MoveWithinMap changes the coordinates without leaving the current map.
func (c *Character) MoveWithinMap(x, y float64) {
	c.Position.X = x
	c.Position.Y = y
}

// Status is the settled state of a character between ticks.
type Status struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Position Position        `json:"position"`
	Machine  domain.Snapshot `json:"machine"`
}

// Status captures the character for reporting.
func (c *Character) Status() Status {
	return Status{
		ID:       c.ID,
		Name:     c.Name,
		Position: c.Position,
		Machine:  c.machine.Snapshot(),
	}
}

func (c *Character) String() string {
	return fmt.Sprintf("%s#%d@%d(%.1f,%.1f)", c.Name, c.ID, c.Position.MapID, c.Position.X, c.Position.Y)
}

// travelTime converts hours of travel into game time.
func travelTime(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
