package world

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes the maps and starting characters of a world.
type Manifest struct {
	Maps       []MapEntry       `yaml:"maps"`
	Characters []CharacterEntry `yaml:"characters"`

	dir string
}

// MapEntry declares one map. File is a Tiled JSON map, relative to the
// manifest; without it the map has no tiles.
type MapEntry struct {
	ID            int     `yaml:"id"`
	Name          string  `yaml:"name"`
	File          string  `yaml:"file"`
	DistanceToHub float64 `yaml:"distance_to_hub"`
}

// CharacterEntry declares one starting character.
type CharacterEntry struct {
	Name string  `yaml:"name"`
	Map  int     `yaml:"map"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// LoadManifest reads a world manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse world yaml: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// LoadMaps adds every map of the manifest to a.
func (m *Manifest) LoadMaps(a *Atlas) error {
	for _, e := range m.Maps {
		if e.File == "" {
			a.Add(MapInfo{ID: e.ID, Name: e.Name, DistanceToHub: e.DistanceToHub})
			continue
		}
		path := e.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}
		if err := a.LoadTiled(e.ID, e.Name, path, e.DistanceToHub); err != nil {
			return err
		}
	}
	return nil
}

// Apply loads the maps into the manager's atlas and creates the characters
// in declared order.
func (m *Manifest) Apply(ctx context.Context, mgr *Manager) error {
	if err := m.LoadMaps(mgr.Atlas()); err != nil {
		return err
	}
	for _, c := range m.Characters {
		if c.Map != 0 {
			if _, err := mgr.Atlas().Get(c.Map); err != nil {
				return fmt.Errorf("character %s: %w", c.Name, err)
			}
		}
		if _, err := mgr.Create(ctx, c.Name, Position{MapID: c.Map, X: c.X, Y: c.Y}); err != nil {
			return err
		}
	}
	return nil
}
