package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tokworld/internal/config"
	"github.com/aretw0/tokworld/internal/logging"
	redisAdapter "github.com/aretw0/tokworld/pkg/adapters/redis"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		TickRate:   10 * time.Millisecond,
		Characters: []string{"Tok"},
		TimeScale:  10,
		MaxCascade: 8,
		LogLevel:   "error",
		LogFormat:  "text",
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in      string
		want    Event
		wantErr string
	}{
		{in: "3:1:stomachPain", want: Event{Tick: 3, Character: 1, Flag: "stomachPain", Value: true}},
		{in: "5:2:isHungry=false", want: Event{Tick: 5, Character: 2, Flag: "isHungry", Value: false}},
		{in: "1:1:x=1", want: Event{Tick: 1, Character: 1, Flag: "x", Value: true}},
		{in: "3:1", wantErr: "want tick:character:flag"},
		{in: "0:1:x", wantErr: "positive integer"},
		{in: "a:1:x", wantErr: "positive integer"},
		{in: "1:b:x", wantErr: "character must be an integer"},
		{in: "1:1:", wantErr: "empty flag"},
		{in: "1:1:x=maybe", wantErr: "invalid syntax"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEvent(tt.in)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_Report(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), testConfig(), RunOptions{Ticks: 2, Delta: time.Second}, &out)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "(tick 2)")
	assert.Contains(t, report, "| 1 | Tok | 0 | Decision.Rest.Sleep, Decision.Rest.Eat,")
	assert.Equal(t, 1, strings.Count(report, "## "), "only the final report")
}

func TestRun_EventsJSON(t *testing.T) {
	cfg := testConfig()
	cfg.Characters = []string{"Tok", "Mia"}
	events := []Event{
		{Tick: 1, Character: 1, Flag: "wantsWork", Value: true},
		{Tick: 3, Character: 2, Flag: "stomachPain", Value: true},
	}

	var out bytes.Buffer
	err := Run(context.Background(), cfg, RunOptions{Ticks: 3, Events: events, Every: true, JSON: true}, &out)
	require.NoError(t, err)

	var frames []world.Frame
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var f world.Frame
		require.NoError(t, json.Unmarshal(sc.Bytes(), &f))
		frames = append(frames, f)
	}
	require.Len(t, frames, 3)

	assert.Contains(t, frames[0].Characters[0].Machine.Leaves, "Root.Decision.Work")
	assert.Contains(t, frames[1].Characters[1].Machine.Leaves, "Root.Body.Stomach.Normal")
	assert.Contains(t, frames[2].Characters[1].Machine.Leaves, "Root.Body.Stomach.Pain")
}

func TestRun_UnknownCharacterEvent(t *testing.T) {
	err := Run(context.Background(), testConfig(), RunOptions{
		Ticks:  1,
		Events: []Event{{Tick: 1, Character: 9, Flag: "x", Value: true}},
	}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "event 1:9:x=true")
}

func TestRun_InvalidChart(t *testing.T) {
	cfg := testConfig()
	cfg.Chart = filepath.Join(t.TempDir(), "missing.yaml")
	err := Run(context.Background(), cfg, RunOptions{Ticks: 1}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "error initializing engine")
}

func TestCreateWorld_Manifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	manifest := "maps:\n  - id: 1\n    name: Village\n    distance_to_hub: 2\ncharacters:\n  - name: Lia\n    map: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	cfg := testConfig()
	cfg.World = path
	logger := logging.NewNop()
	eng, err := createEngine(cfg, logger, domain.LifecycleHooks{})
	require.NoError(t, err)

	mgr, err := createWorld(context.Background(), cfg, eng, logger)
	require.NoError(t, err)
	st, err := mgr.Status(1)
	require.NoError(t, err)
	assert.Equal(t, "Lia", st.Name, "manifest characters replace the configured names")
	assert.Equal(t, 1, st.Position.MapID)
}

func TestRunTicker(t *testing.T) {
	cfg := testConfig()
	logger := logging.NewNop()
	eng, err := createEngine(cfg, logger, domain.LifecycleHooks{})
	require.NoError(t, err)
	mgr, err := createWorld(context.Background(), cfg, eng, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunTicker(ctx, mgr, 5*time.Millisecond, logger)
		close(done)
	}()

	require.Eventually(t, func() bool { return mgr.Ticks() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestWatch_RequiresRedis(t *testing.T) {
	err := Watch(context.Background(), testConfig(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "redis address")
}

func TestWatchFrames(t *testing.T) {
	mr := miniredis.RunT(t)
	pub := redisAdapter.New(mr.Addr(), "", 0)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, pub.Publish(ctx, world.Frame{Tick: 1}))

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- watchFrames(ctx, pub, out) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "(tick 1)") }, 2*time.Second, 10*time.Millisecond)

	// Subscription is set up before the latest frame is printed.
	require.NoError(t, pub.Publish(ctx, world.Frame{Tick: 2}))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "(tick 2)") }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
