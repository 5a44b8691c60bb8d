/*
Package tokworld simulates the behavior of characters with hierarchical
finite state machines.

Each character owns a machine built from a chart: a tree of composite
regions (exactly one child active), orthogonal regions (every child active)
and leaf states. Once per tick the machine updates its active states top-down
in declared order; states request transitions by target name and the engine
resolves them deterministically, exiting innermost-first and entering
outermost-first.

# Charts

Charts are YAML or JSON documents. Every node names a behavior from a
registry and passes it parameters:

	root:
	  name: Root
	  kind: orthogonal
	  children:
	    - name: Decision
	      kind: composite
	      default: Rest
	      children:
	        - name: Rest
	          behavior: announce
	        - name: Work
	          behavior: work
	          params:
	            hungry_after: 3

DefaultChart returns the TokWorld character: a Decision branch (rest, work,
entertainment) running alongside a Body branch (mouth, hands, stomach) that
may override it.

# Usage

	eng, err := tokworld.New(nil)
	if err != nil {
		log.Fatal(err)
	}
	clock := gametime.New()
	m, err := eng.NewMachine(domain.NewContext(1, "Tok"), clock)
	if err != nil {
		log.Fatal(err)
	}
	if err := m.Start(ctx); err != nil {
		log.Fatal(err)
	}
	m.Context().StomachPain = true
	_ = m.Update(ctx)

Engine.NewMachine matches world.MachineFactory, so an engine plugs directly
into a world.Manager that ticks many characters against one game clock.
*/
package tokworld
