package behavior

import (
	"github.com/aretw0/tokworld/pkg/registry"
	"github.com/aretw0/tokworld/pkg/schema"
)

// Register adds every TokWorld behavior to reg.
func Register(reg *registry.Registry) {
	label := schema.Params{"label": schema.String()}
	withTarget := schema.Params{"label": schema.String(), "target": schema.String()}

	reg.Register(registry.Behavior{
		Name:        "announce",
		Description: "Logs the state entry.",
		Params:      label,
		New:         registry.Struct(func() Announce { return Announce{} }),
	})
	reg.Register(registry.Behavior{
		Name:        "router",
		Description: "Requests the target of the first route whose context flag is set.",
		Params:      schema.Params{"label": schema.String(), "routes": schema.Slice(schema.Map())},
		New:         registry.Struct(func() Router { return Router{} }),
	})
	reg.Register(registry.Behavior{
		Name:        "sleep",
		Description: "Slows the game clock while active.",
		Params:      schema.Params{"label": schema.String(), "scale": schema.Float(), "restore": schema.Float()},
		New:         registry.Struct(newSleep),
	})
	reg.Register(registry.Behavior{
		Name:        "eat",
		Description: "Clears hunger on entry.",
		Params:      label,
		New:         registry.Struct(func() Eat { return Eat{} }),
	})
	reg.Register(registry.Behavior{
		Name:        "work",
		Description: "Makes the character hungry after a number of updates.",
		Params:      schema.Params{"label": schema.String(), "hungry_after": schema.Int()},
		New:         registry.Struct(func() Work { return Work{} }),
	})
	reg.Register(registry.Behavior{
		Name:        "eating",
		Description: "Sends a hungry character to rest and eat.",
		Params:      withTarget,
		New:         registry.Struct(newEating),
	})
	reg.Register(registry.Behavior{
		Name:        "stomach_normal",
		Description: "Requests the pain state while the stomach hurts.",
		Params:      withTarget,
		New:         registry.Struct(newNormal),
	})
	reg.Register(registry.Behavior{
		Name:        "stomach_pain",
		Description: "Forces the decision branch into rest, optionally recovering.",
		Params:      schema.Params{"label": schema.String(), "target": schema.String(), "recover": schema.String()},
		New:         registry.Struct(newPain),
	})
}

// NewRegistry returns a registry holding every TokWorld behavior.
func NewRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	Register(reg)
	return reg
}
