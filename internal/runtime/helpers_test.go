package runtime_test

import (
	"testing"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/stretchr/testify/require"
)

// recorder logs every lifecycle call and issues scripted requests.
type recorder struct {
	log      []string
	onUpdate map[string][]string
	onEnter  map[string][]string
	failOn   map[string]error
}

func newRecorder() *recorder {
	return &recorder{
		onUpdate: make(map[string][]string),
		onEnter:  make(map[string][]string),
		failOn:   make(map[string]error),
	}
}

func (r *recorder) reset() { r.log = nil }

func (r *recorder) state(name string) runtime.State {
	return runtime.StateFuncs{
		OnEnter: func(c *runtime.Control) error {
			r.log = append(r.log, "enter:"+name)
			if err := r.failOn["enter:"+name]; err != nil {
				return err
			}
			for _, t := range r.onEnter[name] {
				c.ChangeTo(t)
			}
			return nil
		},
		OnUpdate: func(c *runtime.Control) error {
			r.log = append(r.log, "update:"+name)
			if err := r.failOn["update:"+name]; err != nil {
				return err
			}
			for _, t := range r.onUpdate[name] {
				c.ChangeTo(t)
			}
			return nil
		},
		OnExit: func(c *runtime.Control) error {
			r.log = append(r.log, "exit:"+name)
			return r.failOn["exit:"+name]
		},
	}
}

func (r *recorder) leaf(name string) runtime.Spec {
	return runtime.Spec{Name: name, Kind: domain.KindLeaf, State: r.state(name)}
}

func (r *recorder) composite(name string, children ...runtime.Spec) runtime.Spec {
	return runtime.Spec{Name: name, Kind: domain.KindComposite, State: r.state(name), Children: children}
}

func (r *recorder) orthogonal(name string, children ...runtime.Spec) runtime.Spec {
	return runtime.Spec{Name: name, Kind: domain.KindOrthogonal, State: r.state(name), Children: children}
}

// characterTree mirrors the decision/body layout of a TokWorld character.
func (r *recorder) characterTree() runtime.Spec {
	return r.orthogonal("Root",
		r.composite("Decision",
			r.orthogonal("Rest", r.leaf("Sleep"), r.leaf("Eat")),
			r.leaf("Work"),
			r.composite("Entertainment", r.leaf("Play"), r.leaf("Socialize")),
		),
		r.orthogonal("Body",
			r.composite("Mouth", r.leaf("Talking"), r.leaf("Eating")),
			r.composite("Stomach", r.leaf("Normal"), r.leaf("Pain")),
		),
	)
}

func newCharacterMachine(t *testing.T, r *recorder, opts ...runtime.Option) *runtime.Machine {
	t.Helper()
	m, err := runtime.New(r.characterTree(), domain.NewContext(1, "Tok"), opts...)
	require.NoError(t, err)
	return m
}

func requireInvariants(t *testing.T, m *runtime.Machine) {
	t.Helper()
	require.NoError(t, runtime.CheckInvariants(m))
}

func countPrefix(log []string, prefix string) int {
	n := 0
	for _, l := range log {
		if len(l) >= len(prefix) && l[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
