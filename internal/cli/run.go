package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tokworld/internal/config"
	"github.com/aretw0/tokworld/internal/presentation/tui"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/observability"
)

// RunOptions configures a scripted, headless simulation.
type RunOptions struct {
	Ticks  int
	Delta  time.Duration
	Events []Event
	// Every prints a report after each tick instead of only at the end.
	Every bool
	// JSON writes one frame per line instead of markdown.
	JSON bool
	// Debug logs every state change.
	Debug bool
}

// Event sets a context flag of a character before a given tick.
type Event struct {
	Tick      uint64
	Character int
	Flag      string
	Value     bool
}

func (e Event) String() string {
	return fmt.Sprintf("%d:%d:%s=%t", e.Tick, e.Character, e.Flag, e.Value)
}

// ParseEvent reads "tick:character:flag" or "tick:character:flag=bool".
func ParseEvent(s string) (Event, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Event{}, fmt.Errorf("invalid event %q: want tick:character:flag[=value]", s)
	}
	tick, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || tick == 0 {
		return Event{}, fmt.Errorf("invalid event %q: tick must be a positive integer", s)
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return Event{}, fmt.Errorf("invalid event %q: character must be an integer", s)
	}
	flag, raw, hasValue := strings.Cut(parts[2], "=")
	if flag == "" {
		return Event{}, fmt.Errorf("invalid event %q: empty flag", s)
	}
	value := true
	if hasValue {
		value, err = strconv.ParseBool(raw)
		if err != nil {
			return Event{}, fmt.Errorf("invalid event %q: %w", s, err)
		}
	}
	return Event{Tick: tick, Character: id, Flag: flag, Value: value}, nil
}

// Run ticks the world opts.Ticks times, applying scripted events, and writes
// reports to out.
func Run(ctx context.Context, cfg config.Config, opts RunOptions, out io.Writer) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	var hooks domain.LifecycleHooks
	if opts.Debug {
		hooks = observability.LoggingHooks(logger)
	}
	eng, err := createEngine(cfg, logger, hooks)
	if err != nil {
		return err
	}
	mgr, err := createWorld(ctx, cfg, eng, logger)
	if err != nil {
		return err
	}
	mgr.Clock().Start()

	render := tui.NewRenderer()
	emit := func() error {
		frame := mgr.Frame()
		if opts.JSON {
			return json.NewEncoder(out).Encode(frame)
		}
		md, err := render(tui.Report(frame))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, md)
		return err
	}

	for i := 1; i <= opts.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tick := uint64(i)
		for _, ev := range opts.Events {
			if ev.Tick != tick {
				continue
			}
			if err := mgr.SetFlag(ev.Character, ev.Flag, ev.Value); err != nil {
				return fmt.Errorf("event %s: %w", ev, err)
			}
			logger.Info("event applied", "event", ev.String())
		}
		if err := mgr.Tick(ctx, opts.Delta); err != nil {
			logger.Warn("tick reported errors", "tick", tick, "err", err)
		}
		if opts.Every {
			if err := emit(); err != nil {
				return err
			}
		}
	}
	if !opts.Every {
		return emit()
	}
	return nil
}
