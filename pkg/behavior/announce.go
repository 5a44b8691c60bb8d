package behavior

import (
	"fmt"

	"github.com/aretw0/tokworld/internal/runtime"
)

// Announce logs the character entering the state. Most nodes of the
// TokWorld tree do nothing else.
type Announce struct {
	Label string `mapstructure:"label"`
}

func (a *Announce) Enter(c *runtime.Control) error {
	announce(c, a.Label)
	return nil
}

func announce(c *runtime.Control, label string) {
	logPhase(c, label, "Enter")
}

func logPhase(c *runtime.Control, label, phase string) {
	if label == "" {
		label = c.Name()
	}
	c.Logger().Info(fmt.Sprintf("%s - %s: %s", c.Context().Name, label, phase))
}

// Route sends the owning region elsewhere while a context flag is set.
type Route struct {
	Flag   string `mapstructure:"flag"`
	Target string `mapstructure:"target"`
	// Clear resets the flag once the request is issued.
	Clear bool `mapstructure:"clear"`
}

// Router is an Announce that checks its routes on every update and
// requests the target of the first route whose flag is set.
type Router struct {
	Label  string  `mapstructure:"label"`
	Routes []Route `mapstructure:"routes"`
}

func (r *Router) Enter(c *runtime.Control) error {
	announce(c, r.Label)
	return nil
}

func (r *Router) Update(c *runtime.Control) error {
	ctx := c.Context()
	for _, route := range r.Routes {
		if !ctx.Flag(route.Flag) {
			continue
		}
		c.ChangeTo(route.Target)
		if route.Clear {
			ctx.SetFlag(route.Flag, false)
		}
		return nil
	}
	return nil
}
