package world_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const villageJSON = `{
  "width": 4,
  "height": 3,
  "layers": [
    {"data": [1, 1, 1, 1,
              1, 0, 0, 1,
              1, 1, 0, 1]}
  ]
}`

func TestAtlas_Tiled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "village.json")
	require.NoError(t, os.WriteFile(path, []byte(villageJSON), 0o644))

	a := world.NewAtlas()
	require.NoError(t, a.LoadTiled(1, "village", path, 2))

	m, err := a.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "village", m.Name)
	assert.Equal(t, 4, m.Width)
	assert.Equal(t, 3, m.Height)

	var b strings.Builder
	require.NoError(t, a.Draw(1, &b))
	assert.Equal(t, "####\n#  #\n## #\n", b.String())
}

func TestParseTiled_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Not json", "{"},
		{"No size", `{"layers": [{"data": []}]}`},
		{"No layers", `{"width": 1, "height": 1}`},
		{"Short layer", `{"width": 2, "height": 2, "layers": [{"data": [0, 0]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := world.ParseTiled(1, "broken", []byte(tt.data), 1)
			assert.Error(t, err)
		})
	}
}

func TestAtlas_Distance(t *testing.T) {
	a := world.NewAtlas()
	a.Add(world.MapInfo{ID: 1, Name: "village", DistanceToHub: 2})
	a.Add(world.MapInfo{ID: 2, Name: "forest", DistanceToHub: 3.5})

	d, err := a.MapDistance(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.5, d)

	d, err = a.Distance(world.Position{MapID: 1, X: 0, Y: 0}, world.Position{MapID: 1, X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	_, err = a.MapDistance(1, 9)
	assert.ErrorIs(t, err, domain.ErrMapNotFound)
	assert.ErrorIs(t, a.Draw(9, &strings.Builder{}), domain.ErrMapNotFound)

	ids := []int{}
	for _, m := range a.List() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{1, 2}, ids)
}
