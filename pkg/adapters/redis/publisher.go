// Package redis publishes world frames to Redis so dashboards and other
// processes can follow the simulation. It is a one-way feed: machines are
// never restored from it.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
	backend "github.com/redis/go-redis/v9"
)

// Publisher implements world.FrameSink on top of Redis.
type Publisher struct {
	client  *backend.Client
	prefix  string
	channel string
	ttl     time.Duration
}

type Option func(*Publisher)

// WithTTL sets the expiration of published keys.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithChannel sets the pub/sub channel frames are announced on.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		p.channel = channel
	}
}

// New creates a publisher connected to address.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		prefix:  "tokworld:",
		channel: "tokworld:frames",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) key(id int) string {
	return p.prefix + "character:" + strconv.Itoa(id)
}

func (p *Publisher) indexKey() string {
	return p.prefix + "index"
}

func (p *Publisher) frameKey() string {
	return p.prefix + "frame"
}

// Publish stores each character's status and the whole frame, then announces
// the frame on the channel, in one pipeline.
func (p *Publisher) Publish(ctx context.Context, f world.Frame) error {
	frame, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	// Index score is the expiry time; 0 TTL never expires.
	score := float64(time.Now().Add(p.ttl).Unix())
	if p.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe := p.client.Pipeline()
	for _, c := range f.Characters {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal character %d: %w", c.ID, err)
		}
		pipe.Set(ctx, p.key(c.ID), data, p.ttl)
		pipe.ZAdd(ctx, p.indexKey(), backend.Z{Score: score, Member: c.ID})
	}
	pipe.Set(ctx, p.frameKey(), frame, p.ttl)
	pipe.Publish(ctx, p.channel, frame)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Status reads the last published status of a character.
func (p *Publisher) Status(ctx context.Context, id int) (world.Status, error) {
	val, err := p.client.Get(ctx, p.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return world.Status{}, fmt.Errorf("%w: %d", domain.ErrCharacterNotFound, id)
		}
		return world.Status{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	var st world.Status
	if err := json.Unmarshal(val, &st); err != nil {
		return world.Status{}, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return st, nil
}

// Latest reads the last published frame.
func (p *Publisher) Latest(ctx context.Context) (world.Frame, error) {
	val, err := p.client.Get(ctx, p.frameKey()).Bytes()
	if err != nil {
		return world.Frame{}, fmt.Errorf("failed to get frame: %w", err)
	}
	var f world.Frame
	if err := json.Unmarshal(val, &f); err != nil {
		return world.Frame{}, fmt.Errorf("failed to unmarshal frame: %w", err)
	}
	return f, nil
}

// List returns the IDs of characters with a live status. Expired entries are
// pruned from the index first.
func (p *Publisher) List(ctx context.Context) ([]int, error) {
	now := float64(time.Now().Unix())
	err := p.client.ZRemRangeByScore(ctx, p.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired characters: %w", err)
	}

	members, err := p.client.ZRange(ctx, p.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Subscribe follows frames announced on the channel until ctx is done.
// Malformed messages are skipped.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan world.Frame, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	// Wait for the confirmation so no frame published afterwards is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan world.Frame)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var f world.Frame
				if err := json.Unmarshal([]byte(msg.Payload), &f); err != nil {
					continue
				}
				select {
				case out <- f:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
