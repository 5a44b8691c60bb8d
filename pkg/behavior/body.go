package behavior

import "github.com/aretw0/tokworld/internal/runtime"

// Eating sends a hungry character to rest and eat as soon as the mouth
// starts eating.
type Eating struct {
	Label  string `mapstructure:"label"`
	Target string `mapstructure:"target"`
}

func newEating() Eating { return Eating{Target: "Decision.Rest.Eat"} }

func (e *Eating) Enter(c *runtime.Control) error {
	announce(c, e.Label)
	if c.Context().IsHungry {
		c.ChangeTo(e.Target)
	}
	return nil
}

// Normal watches for stomach pain.
type Normal struct {
	Label  string `mapstructure:"label"`
	Target string `mapstructure:"target"`
}

func newNormal() Normal { return Normal{Target: "Body.Stomach.Pain"} }

func (n *Normal) Enter(c *runtime.Control) error {
	announce(c, n.Label)
	return nil
}

func (n *Normal) Update(c *runtime.Control) error {
	if c.Context().StomachPain {
		c.ChangeTo(n.Target)
	}
	return nil
}

// Pain forces the decision branch into rest. With Recover set it returns
// there once the pain flag clears.
type Pain struct {
	Label   string `mapstructure:"label"`
	Target  string `mapstructure:"target"`
	Recover string `mapstructure:"recover"`
}

func newPain() Pain { return Pain{Target: "Decision.Rest"} }

func (p *Pain) Enter(c *runtime.Control) error {
	announce(c, p.Label)
	c.ChangeTo(p.Target)
	return nil
}

func (p *Pain) Update(c *runtime.Control) error {
	if p.Recover != "" && !c.Context().StomachPain {
		c.ChangeTo(p.Recover)
	}
	return nil
}
