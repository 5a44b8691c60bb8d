package gametime_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/gametime"
	"github.com/stretchr/testify/assert"
)

var _ domain.TimeScaler = (*gametime.Clock)(nil)

func TestClock_Defaults(t *testing.T) {
	c := gametime.New()

	assert.Equal(t, gametime.DefaultTimeScale, c.TimeScale())
	assert.False(t, c.Running())
	assert.Equal(t, "Year 1, Month 1, Day 1, 08:00", c.String())
}

func TestClock_AdvanceOnlyWhileRunning(t *testing.T) {
	c := gametime.New()

	assert.Zero(t, c.Advance(time.Minute))
	assert.Equal(t, gametime.DefaultStart, c.Now())

	c.Start()
	// Six real seconds at scale 10 make one game minute.
	assert.Equal(t, time.Minute, c.Advance(6*time.Second))
	assert.Equal(t, 1, c.Now().Minute)

	c.Stop()
	c.Advance(time.Hour)
	assert.Equal(t, 1, c.Now().Minute)
}

func TestClock_TimeScale(t *testing.T) {
	c := gametime.New(gametime.WithTimeScale(1))
	c.Start()

	c.SetTimeScale(0.5)
	c.Advance(2 * time.Minute)
	assert.Equal(t, gametime.DateTime{Year: 1, Month: 1, Day: 1, Hour: 8, Minute: 1}, c.Now())

	c.SetTimeScale(-3)
	assert.Zero(t, c.TimeScale())
	assert.Zero(t, c.Advance(time.Hour))
}

func TestClock_Rollover(t *testing.T) {
	tests := []struct {
		name string
		skip time.Duration
		want gametime.DateTime
	}{
		{"Same day", 90 * time.Minute, gametime.DateTime{Year: 1, Month: 1, Day: 1, Hour: 9, Minute: 30}},
		{"Midnight", 16 * time.Hour, gametime.DateTime{Year: 1, Month: 1, Day: 2, Hour: 0}},
		{"Month", 30 * 24 * time.Hour, gametime.DateTime{Year: 1, Month: 2, Day: 1, Hour: 8}},
		{"Year", 360 * 24 * time.Hour, gametime.DateTime{Year: 2, Month: 1, Day: 1, Hour: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gametime.New()
			c.Skip(tt.skip)
			assert.Equal(t, tt.want, c.Now())
			assert.Equal(t, tt.skip, c.Elapsed())
		})
	}
}

func TestCalendar_RoundTrip(t *testing.T) {
	cal := gametime.Calendar{MinutesPerHour: 10, HoursPerDay: 5, DaysPerMonth: 3, MonthsPerYear: 2}
	c := gametime.New(gametime.WithCalendar(cal), gametime.WithStart(gametime.DateTime{Year: 1, Month: 1, Day: 1}))

	c.Skip(150 * time.Minute) // one month of 3 days * 5 hours * 10 minutes
	assert.Equal(t, gametime.DateTime{Year: 1, Month: 2, Day: 1}, c.Now())

	for _, m := range []int64{0, 7, 149, 300, 1234} {
		assert.Equal(t, m, cal.Minutes(cal.At(m)))
	}
}

func TestClock_ConcurrentReads(t *testing.T) {
	c := gametime.New()
	c.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Now()
				_ = c.TimeScale()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		c.Advance(time.Second)
	}
	wg.Wait()
	assert.Equal(t, 1000*time.Second, c.Elapsed())
}
