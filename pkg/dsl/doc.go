/*
Package dsl builds state trees in Go instead of chart files.

Nodes are declared with a fluent API and either carry a state directly or
name a behavior that a registry binds at build time:

	root := dsl.Orthogonal("Root",
		dsl.Composite("Decision",
			dsl.Leaf("Rest").Behavior("announce", nil),
			dsl.Leaf("Work").OnUpdate(func(c *runtime.Control) error {
				if c.Context().Flag("bored") {
					c.ChangeTo("Decision.Rest")
				}
				return nil
			}),
		),
		dsl.Composite("Stomach", dsl.Leaf("Normal"), dsl.Leaf("Pain")),
	)

	spec, err := dsl.Build(root, behaviors)

The same tree can be exported as a schema.Chart with Chart and saved as YAML.
*/
package dsl
