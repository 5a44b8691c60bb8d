package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/tokworld/internal/config"
	"github.com/aretw0/tokworld/internal/presentation/tui"
	redisAdapter "github.com/aretw0/tokworld/pkg/adapters/redis"
	"github.com/aretw0/tokworld/pkg/world"
)

// Watch follows the frames a running server publishes to Redis and prints a
// report for each one until ctx is done.
func Watch(ctx context.Context, cfg config.Config, out io.Writer) error {
	if cfg.Redis.Addr == "" {
		return errors.New("watch needs a redis address (TOKWORLD_REDIS_ADDR or --redis)")
	}
	pub := redisAdapter.New(cfg.Redis.Addr, "", 0,
		redisAdapter.WithPrefix(cfg.Redis.Prefix),
		redisAdapter.WithChannel(cfg.Redis.Channel),
	)
	defer pub.Close()
	return watchFrames(ctx, pub, out)
}

func watchFrames(ctx context.Context, pub *redisAdapter.Publisher, out io.Writer) error {
	frames, err := pub.Subscribe(ctx)
	if err != nil {
		return err
	}

	render := tui.NewRenderer()
	var prev *world.Frame
	// Show the last known frame right away.
	if latest, err := pub.Latest(ctx); err == nil {
		if err := printFrame(out, render, tui.Report(latest)); err != nil {
			return err
		}
		prev = &latest
	}
	for f := range frames {
		md := tui.Report(f)
		if prev != nil {
			if changes := tui.Changes(*prev, f); changes != "" {
				md += "\n" + changes
			}
		}
		if err := printFrame(out, render, md); err != nil {
			return err
		}
		prev = &f
	}
	return nil
}

func printFrame(out io.Writer, render func(string) (string, error), md string) error {
	s, err := render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, s)
	return err
}
