package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidTrees(t *testing.T) {
	leaf := func(name string) runtime.Spec { return runtime.Spec{Name: name, Kind: domain.KindLeaf} }

	tests := []struct {
		name string
		spec runtime.Spec
		want string
	}{
		{
			name: "Leaf root",
			spec: leaf("Root"),
			want: "root must be a region",
		},
		{
			name: "Empty region",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindOrthogonal},
			want: "orthogonal region without children",
		},
		{
			name: "Leaf with children",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindOrthogonal, Children: []runtime.Spec{
				{Name: "Sleep", Kind: domain.KindLeaf, Children: []runtime.Spec{leaf("Dream")}},
			}},
			want: "leaf with children",
		},
		{
			name: "Duplicate sibling",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindComposite, Children: []runtime.Spec{leaf("A"), leaf("A")}},
			want: `duplicate child "A"`,
		},
		{
			name: "Missing default",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindComposite, Default: "B", Children: []runtime.Spec{leaf("A")}},
			want: `default child "B" not found`,
		},
		{
			name: "Default on orthogonal",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindOrthogonal, Default: "A", Children: []runtime.Spec{leaf("A")}},
			want: "only composite regions have a default child",
		},
		{
			name: "Dotted name",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindOrthogonal, Children: []runtime.Spec{leaf("Rest.Eat")}},
			want: "cannot contain",
		},
		{
			name: "Unnamed node",
			spec: runtime.Spec{Name: "Root", Kind: domain.KindOrthogonal, Children: []runtime.Spec{leaf(" ")}},
			want: "node without a name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runtime.New(tt.spec, domain.NewContext(1, "Tok"))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTree)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_RequiresContext(t *testing.T) {
	r := newRecorder()
	_, err := runtime.New(r.characterTree(), nil)
	assert.Error(t, err)
}

func TestMachine_Tree(t *testing.T) {
	r := newRecorder()
	m := newCharacterMachine(t, r)

	nodes := m.Tree()
	require.NotEmpty(t, nodes)
	root := nodes[0]
	assert.Equal(t, "Root", root.Path)
	assert.Equal(t, domain.KindOrthogonal, root.Kind)
	assert.Equal(t, -1, root.Parent)
	assert.Equal(t, []string{"Decision", "Body"}, root.Children)

	byPath := make(map[string]domain.NodeInfo)
	for _, n := range nodes {
		byPath[n.Path] = n
	}
	assert.Equal(t, "Rest", byPath["Root.Decision"].Default)
	assert.Equal(t, 3, byPath["Root.Decision.Rest.Eat"].Depth)
}

func TestMachine_ResolveForms(t *testing.T) {
	r := newRecorder()
	m := newCharacterMachine(t, r)
	require.NoError(t, m.Update(context.Background()))

	for _, target := range []string{"Root.Body.Stomach.Normal", "Body.Stomach.Normal", "Stomach.Normal", "Normal"} {
		assert.True(t, m.IsActive(target), target)
	}
	assert.False(t, m.IsActive("Nowhere"))
	assert.False(t, m.IsActive(""))
}
