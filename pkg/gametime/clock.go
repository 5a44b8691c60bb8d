// Package gametime keeps the in-game clock. The clock scales real elapsed
// time into game time and is the time collaborator handed to state machines.
package gametime

import (
	"math"
	"sync"
	"time"
)

const (
	// DefaultTimeScale makes one real second worth ten game seconds.
	DefaultTimeScale = 10.0
)

// DefaultStart is the first moment of a new world.
var DefaultStart = DateTime{Year: 1, Month: 1, Day: 1, Hour: 8}

// Clock is the game clock. It is safe for concurrent use; readers may query
// it while the host loop advances it.
type Clock struct {
	mu      sync.RWMutex
	cal     Calendar
	scale   float64
	start   DateTime
	elapsed time.Duration // game time since start
	running bool
}

// Option configures a Clock.
type Option func(*Clock)

// WithTimeScale sets the initial time scale.
func WithTimeScale(scale float64) Option {
	return func(c *Clock) { c.scale = scale }
}

// WithCalendar replaces the default calendar. Invalid calendars are ignored.
func WithCalendar(cal Calendar) Option {
	return func(c *Clock) {
		if cal.validate() == nil {
			c.cal = cal
		}
	}
}

// WithStart sets the date the clock starts from.
func WithStart(d DateTime) Option {
	return func(c *Clock) { c.start = d }
}

// New creates a stopped clock at DefaultStart.
func New(opts ...Option) *Clock {
	c := &Clock{
		cal:   DefaultCalendar,
		scale: DefaultTimeScale,
		start: DefaultStart,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start lets Advance accumulate game time.
func (c *Clock) Start() {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
}

// Stop freezes the clock. Skip still moves it.
func (c *Clock) Stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// Running reports whether the clock is started.
func (c *Clock) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// SetTimeScale sets how many game seconds pass per real second. Negative
// and non-finite values are clamped to zero.
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 0
	}
	c.mu.Lock()
	c.scale = scale
	c.mu.Unlock()
}

// TimeScale returns the current time scale.
func (c *Clock) TimeScale() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale
}

// Advance converts real elapsed time into game time using the current scale
// and returns the game time added. A stopped clock does not move.
func (c *Clock) Advance(real time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || real <= 0 {
		return 0
	}
	delta := time.Duration(float64(real) * c.scale)
	c.elapsed += delta
	return delta
}

// Skip moves the clock forward by game time directly, whether it runs or not.
func (c *Clock) Skip(game time.Duration) {
	if game <= 0 {
		return
	}
	c.mu.Lock()
	c.elapsed += game
	c.mu.Unlock()
}

// Elapsed returns the game time since the clock's start date.
func (c *Clock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}

// Now returns the current calendar position. Partial minutes are dropped.
func (c *Clock) Now() DateTime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cal.At(c.cal.Minutes(c.start) + int64(c.elapsed/time.Minute))
}

// Calendar returns the calendar in use.
func (c *Clock) Calendar() Calendar {
	return c.cal
}

// String formats the current date and time.
func (c *Clock) String() string {
	return c.Now().String()
}
