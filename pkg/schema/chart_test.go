package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const chartYAML = `
name: tok
root:
  name: Root
  kind: orthogonal
  children:
    - name: Decision
      kind: composite
      default: Work
      children:
        - name: Rest
          behavior: announce
          params:
            label: resting
        - name: Work
    - name: Stomach
      kind: composite
      children:
        - name: Normal
          behavior: stomach
        - name: Pain
`

type mockBinder struct {
	mock.Mock
}

func (m *mockBinder) Bind(behavior string, params map[string]any) (runtime.State, error) {
	args := m.Called(behavior, params)
	return args.Get(0), args.Error(1)
}

func TestParse_YAMLAndJSON(t *testing.T) {
	chart, err := schema.Parse([]byte(chartYAML), schema.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "tok", chart.Name)
	assert.Equal(t, "orthogonal", chart.Root.Kind)
	require.Len(t, chart.Root.Children, 2)
	assert.Equal(t, "resting", chart.Root.Children[0].Children[0].Params["label"])

	data, err := schema.Marshal(chart, schema.FormatJSON)
	require.NoError(t, err)
	back, err := schema.Parse(data, schema.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, chart.Root.Children[1], back.Root.Children[1])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tok.yml")
	require.NoError(t, os.WriteFile(path, []byte(chartYAML), 0o644))

	chart, err := schema.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Root", chart.Root.Name)

	_, err = schema.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = schema.Load(bad)
	assert.ErrorContains(t, err, "bad.json")
}

func TestChart_Walk(t *testing.T) {
	chart, err := schema.Parse([]byte(chartYAML), schema.FormatYAML)
	require.NoError(t, err)

	var paths []string
	require.NoError(t, chart.Walk(func(path string, _ *schema.NodeDef) error {
		paths = append(paths, path)
		return nil
	}))
	assert.Equal(t, []string{
		"Root", "Root.Decision", "Root.Decision.Rest", "Root.Decision.Work",
		"Root.Stomach", "Root.Stomach.Normal", "Root.Stomach.Pain",
	}, paths)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		root   schema.NodeDef
		issues []string
	}{
		{
			name: "Valid",
			root: schema.NodeDef{Name: "Root", Kind: "parallel", Children: []schema.NodeDef{{Name: "A"}}},
		},
		{
			name:   "Leaf root",
			root:   schema.NodeDef{Name: "Root"},
			issues: []string{"root must be a composite or orthogonal region"},
		},
		{
			name: "Every problem is reported",
			root: schema.NodeDef{Name: "Root", Kind: "composite", Default: "Z", Children: []schema.NodeDef{
				{Name: "A", Kind: "blob"},
				{Name: "B", Children: []schema.NodeDef{{Name: "C"}}},
				{Name: "B", Params: map[string]any{"x": 1}},
				{Name: "D.E"},
			}},
			issues: []string{
				`unknown kind "blob"`,
				"leaf with children",
				`duplicate child "B"`,
				`default child "Z" not found`,
				"params without a behavior",
				"cannot contain",
			},
		},
		{
			name:   "Default on orthogonal",
			root:   schema.NodeDef{Name: "Root", Kind: "orthogonal", Default: "A", Children: []schema.NodeDef{{Name: "A"}}},
			issues: []string{"only composite regions have a default child"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(&schema.Chart{Root: tt.root})
			if len(tt.issues) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, issue := range tt.issues {
				assert.ErrorContains(t, err, issue)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	chart, err := schema.Parse([]byte(chartYAML), schema.FormatYAML)
	require.NoError(t, err)

	binder := new(mockBinder)
	announce := runtime.StateFuncs{}
	binder.On("Bind", "announce", map[string]any{"label": "resting"}).Return(announce, nil)
	binder.On("Bind", "stomach", map[string]any(nil)).Return(runtime.StateFuncs{}, nil)

	spec, err := schema.Compile(chart, binder)
	require.NoError(t, err)
	binder.AssertExpectations(t)

	assert.Equal(t, domain.KindOrthogonal, spec.Kind)
	decision := spec.Children[0]
	assert.Equal(t, domain.KindComposite, decision.Kind)
	assert.Equal(t, "Work", decision.Default)
	assert.Equal(t, "announce", decision.Children[0].Behavior)
	assert.NotNil(t, decision.Children[0].State)
	assert.Nil(t, decision.Children[1].State)

	m, err := runtime.New(spec, domain.NewContext(1, "Tok"))
	require.NoError(t, err)
	require.NoError(t, m.Start(t.Context()))
	assert.True(t, m.IsActive("Decision.Work"))
}

func TestCompile_BindingErrors(t *testing.T) {
	chart, err := schema.Parse([]byte(chartYAML), schema.FormatYAML)
	require.NoError(t, err)

	binder := new(mockBinder)
	binder.On("Bind", mock.Anything, mock.Anything).Return(nil, domain.ErrUnknownBehavior)

	_, err = schema.Compile(chart, binder)
	require.Error(t, err)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.ErrorContains(t, errs[0], "Root.Decision.Rest")
	assert.ErrorIs(t, err, domain.ErrUnknownBehavior)
}

func TestCompile_WithoutBinder(t *testing.T) {
	chart, err := schema.Parse([]byte(chartYAML), schema.FormatYAML)
	require.NoError(t, err)

	spec, err := schema.Compile(chart, nil)
	require.NoError(t, err)
	assert.Nil(t, spec.Children[0].Children[0].State)
	assert.Equal(t, "announce", spec.Children[0].Children[0].Behavior)
}
