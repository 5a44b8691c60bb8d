package world

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/tokworld/internal/runtime"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/gametime"
)

// MachineFactory builds the state machine of a new character. It must return
// a fresh machine, with its own states, on every call.
type MachineFactory func(data *domain.Context, clock domain.TimeScaler) (*runtime.Machine, error)

// Frame is the world after one tick.
type Frame struct {
	Tick       uint64            `json:"tick"`
	Time       gametime.DateTime `json:"time"`
	Characters []Status          `json:"characters"`
}

// FrameSink receives every settled frame. Sinks run on the ticking goroutine.
type FrameSink interface {
	Publish(ctx context.Context, f Frame) error
}

// Manager owns the characters of a world and drives their machines.
// Ticks are serialized; queries may run concurrently between them.
type Manager struct {
	mu     sync.RWMutex
	chars  map[int]*Character
	nextID int
	ticks  uint64

	factory MachineFactory
	clock   *gametime.Clock
	atlas   *Atlas
	sinks   []FrameSink
	logger  *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock sets the game clock shared by every character.
func WithClock(c *gametime.Clock) ManagerOption {
	return func(m *Manager) { m.clock = c }
}

// WithAtlas sets the maps characters travel between.
func WithAtlas(a *Atlas) ManagerOption {
	return func(m *Manager) { m.atlas = a }
}

// WithSinks adds frame sinks.
func WithSinks(sinks ...FrameSink) ManagerOption {
	return func(m *Manager) { m.sinks = append(m.sinks, sinks...) }
}

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty world.
func NewManager(factory MachineFactory, opts ...ManagerOption) *Manager {
	m := &Manager{
		chars:   make(map[int]*Character),
		nextID:  1,
		factory: factory,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = gametime.New()
	}
	if m.atlas == nil {
		m.atlas = NewAtlas()
	}
	return m
}

// AddSink registers a frame sink after construction.
func (m *Manager) AddSink(sink FrameSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, sink)
}

// Clock returns the world clock.
func (m *Manager) Clock() *gametime.Clock { return m.clock }

// Atlas returns the world maps.
func (m *Manager) Atlas() *Atlas { return m.atlas }

// Ticks returns the number of completed ticks.
func (m *Manager) Ticks() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ticks
}

// Create adds a character and enters its initial configuration.
func (m *Manager) Create(ctx context.Context, name string, pos Position) (*Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	machine, err := m.factory(domain.NewContext(id, name), m.clock)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", name, err)
	}
	if err := machine.Start(ctx); err != nil {
		return nil, fmt.Errorf("character %s: %w", name, err)
	}
	m.nextID++

	c := &Character{ID: id, Name: name, Position: pos, machine: machine}
	m.chars[id] = c
	m.logger.Info("character created", "character", name, "id", id)
	return c, nil
}

// Get returns the character with the given ID.
func (m *Manager) Get(id int) (*Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(id)
}

func (m *Manager) get(id int) (*Character, error) {
	c, ok := m.chars[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrCharacterNotFound, id)
	}
	return c, nil
}

// Delete removes a character.
func (m *Manager) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.get(id); err != nil {
		return err
	}
	delete(m.chars, id)
	return nil
}

// IDs returns the character IDs in ascending order.
func (m *Manager) IDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ids()
}

func (m *Manager) ids() []int {
	return slices.Sorted(maps.Keys(m.chars))
}

// Tick advances the clock by realDelta and updates every character once, in
// ascending ID order. Faulted machines are skipped. Errors from individual
// characters do not stop the others; they are joined in the result.
func (m *Manager) Tick(ctx context.Context, realDelta time.Duration) error {
	m.mu.Lock()
	m.clock.Advance(realDelta)

	var errs []error
	for _, id := range m.ids() {
		c := m.chars[id]
		if c.machine.Err() != nil {
			continue
		}
		if err := c.machine.Update(ctx); err != nil {
			m.logger.Error("character update failed", "character", c.Name, "id", id, "err", err)
			errs = append(errs, fmt.Errorf("character %d: %w", id, err))
		}
	}
	m.ticks++
	frame := m.frame()
	sinks := slices.Clone(m.sinks)
	m.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Publish(ctx, frame); err != nil {
			m.logger.Warn("frame sink failed", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Frame captures the current world.
func (m *Manager) Frame() Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frame()
}

func (m *Manager) frame() Frame {
	f := Frame{Tick: m.ticks, Time: m.clock.Now()}
	for _, id := range m.ids() {
		f.Characters = append(f.Characters, m.chars[id].Status())
	}
	return f
}

// Status returns the settled state of one character.
func (m *Manager) Status(id int) (Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, err := m.get(id)
	if err != nil {
		return Status{}, err
	}
	return c.Status(), nil
}

// SetFlag sets a context flag of a character. The change is seen by the next tick.
func (m *Manager) SetFlag(id int, flag string, value bool) error {
	return m.Update(id, func(c *Character) error {
		c.machine.Context().SetFlag(flag, value)
		return nil
	})
}

// Update runs fn with exclusive access to a character between ticks.
func (m *Manager) Update(id int, fn func(*Character) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.get(id)
	if err != nil {
		return err
	}
	return fn(c)
}

// TravelTo moves a character to another map through the hub. The clock moves
// forward by the travel time, which is returned in game hours.
func (m *Manager) TravelTo(id, mapID int) (float64, error) {
	var hours float64
	err := m.Update(id, func(c *Character) error {
		if c.Position.MapID == mapID {
			return nil
		}
		d, err := m.atlas.MapDistance(c.Position.MapID, mapID)
		if err != nil {
			return err
		}
		hours = d
		m.clock.Skip(travelTime(d))
		c.Position = ArrivalPosition
		c.Position.MapID = mapID
		m.logger.Info("character travelled", "character", c.Name, "map", mapID, "hours", d)
		return nil
	})
	return hours, err
}
