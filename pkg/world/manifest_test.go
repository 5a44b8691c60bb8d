package world_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worldYAML = `
maps:
  - id: 1
    name: Village
    file: maps/village.json
    distance_to_hub: 2
  - id: 2
    name: Hub
characters:
  - name: Tok
    map: 1
    x: 1
    y: 1
  - name: Mia
    map: 2
`

func writeWorld(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maps"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maps", "village.json"), []byte(villageJSON), 0o644))
	path := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	return path
}

func TestManifest_Apply(t *testing.T) {
	var order []string
	mgr := world.NewManager(tracingFactory(&order))

	m, err := world.LoadManifest(writeWorld(t, worldYAML))
	require.NoError(t, err)
	require.NoError(t, m.Apply(context.Background(), mgr))

	maps := mgr.Atlas().List()
	require.Len(t, maps, 2)
	assert.Equal(t, 4, maps[0].Width)
	assert.Equal(t, "Hub", maps[1].Name)

	assert.Equal(t, []int{1, 2}, mgr.IDs())
	tok, err := mgr.Status(1)
	require.NoError(t, err)
	assert.Equal(t, world.Position{MapID: 1, X: 1, Y: 1}, tok.Position)
}

func TestManifest_UnknownMap(t *testing.T) {
	var order []string
	mgr := world.NewManager(tracingFactory(&order))

	m, err := world.LoadManifest(writeWorld(t, "characters:\n  - name: Tok\n    map: 7\n"))
	require.NoError(t, err)
	err = m.Apply(context.Background(), mgr)
	assert.ErrorIs(t, err, domain.ErrMapNotFound)
	assert.Empty(t, mgr.IDs())
}

func TestManifest_Errors(t *testing.T) {
	_, err := world.LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read world")

	_, err = world.LoadManifest(writeWorld(t, "maps: [oops"))
	assert.ErrorContains(t, err, "failed to parse world yaml")

	m, err := world.LoadManifest(writeWorld(t, "maps:\n  - id: 3\n    file: nope.json\n"))
	require.NoError(t, err)
	assert.Error(t, m.LoadMaps(world.NewAtlas()))
}
