package world

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/tokworld/pkg/domain"
)

// Position locates a character on a map.
type Position struct {
	MapID int     `json:"map_id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// MapInfo is one loaded map.
type MapInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// DistanceToHub is the travel time in game hours between this map and
	// the hub every map connects through.
	DistanceToHub float64 `json:"distance_to_hub"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Tiles         []int   `json:"-"`
}

// Atlas is the set of loaded maps. It is safe for concurrent use.
type Atlas struct {
	mu   sync.RWMutex
	maps map[int]MapInfo
}

// NewAtlas creates an empty atlas.
func NewAtlas() *Atlas {
	return &Atlas{maps: make(map[int]MapInfo)}
}

// Add stores or replaces a map.
func (a *Atlas) Add(m MapInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.maps[m.ID] = m
}

// tiledMap is the subset of the Tiled JSON map format the atlas reads.
type tiledMap struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Layers []struct {
		Data []int `json:"data"`
	} `json:"layers"`
}

// ParseTiled decodes a Tiled JSON map. Only the first layer is kept.
func ParseTiled(id int, name string, data []byte, distanceToHub float64) (MapInfo, error) {
	var tm tiledMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return MapInfo{}, fmt.Errorf("map %d: failed to parse tiled json: %w", id, err)
	}
	if tm.Width <= 0 || tm.Height <= 0 {
		return MapInfo{}, fmt.Errorf("map %d: invalid size %dx%d", id, tm.Width, tm.Height)
	}
	if len(tm.Layers) == 0 {
		return MapInfo{}, fmt.Errorf("map %d: no layers", id)
	}
	tiles := tm.Layers[0].Data
	if len(tiles) < tm.Width*tm.Height {
		return MapInfo{}, fmt.Errorf("map %d: layer has %d tiles, want %d", id, len(tiles), tm.Width*tm.Height)
	}
	return MapInfo{
		ID:            id,
		Name:          name,
		DistanceToHub: distanceToHub,
		Width:         tm.Width,
		Height:        tm.Height,
		Tiles:         tiles,
	}, nil
}

// LoadTiled reads a Tiled JSON file and adds it to the atlas.
func (a *Atlas) LoadTiled(id int, name, path string, distanceToHub float64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read map %d: %w", id, err)
	}
	m, err := ParseTiled(id, name, data, distanceToHub)
	if err != nil {
		return err
	}
	a.Add(m)
	return nil
}

// Get returns the map with the given ID.
func (a *Atlas) Get(id int) (MapInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.maps[id]
	if !ok {
		return MapInfo{}, fmt.Errorf("%w: %d", domain.ErrMapNotFound, id)
	}
	return m, nil
}

// List returns every map ordered by ID.
func (a *Atlas) List() []MapInfo {
	a.mu.RLock()
	out := make([]MapInfo, 0, len(a.maps))
	for _, m := range a.maps {
		out = append(out, m)
	}
	a.mu.RUnlock()
	slices.SortFunc(out, func(x, y MapInfo) int { return x.ID - y.ID })
	return out
}

// MapDistance returns the travel time in game hours between two maps: every
// trip goes through the hub.
func (a *Atlas) MapDistance(from, to int) (float64, error) {
	m1, err := a.Get(from)
	if err != nil {
		return 0, err
	}
	m2, err := a.Get(to)
	if err != nil {
		return 0, err
	}
	return m1.DistanceToHub + m2.DistanceToHub, nil
}

// Distance measures between two positions: straight line on the same map,
// hub travel time across maps.
func (a *Atlas) Distance(p1, p2 Position) (float64, error) {
	if p1.MapID == p2.MapID {
		return math.Hypot(p2.X-p1.X, p2.Y-p1.Y), nil
	}
	return a.MapDistance(p1.MapID, p2.MapID)
}

// Draw writes the map as text, one row per line: '#' for any tile, a space
// for empty ones.
func (a *Atlas) Draw(id int, w io.Writer) error {
	m, err := a.Get(id)
	if err != nil {
		return err
	}
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Tiles[y*m.Width+x] == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	_, err = io.WriteString(w, b.String())
	return err
}
