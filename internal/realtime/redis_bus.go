package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"homebase/internal/logging"
)

// RedisOptions configures the redis bus.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Channel is the redis pub/sub channel every message travels on.
	Channel string
}

// RedisBus publishes JSON encoded messages on a single redis channel.
type RedisBus struct {
	log     *logging.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(ctx context.Context, log *logging.Logger, opts RedisOptions) (*RedisBus, error) {
	if log == nil {
		log = logging.Nop()
	}
	if opts.Addr == "" {
		return nil, errors.New("missing redis address")
	}
	if opts.Channel == "" {
		opts.Channel = "hb:events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		log:     log.With("component", "RedisBus"),
		rdb:     rdb,
		channel: opts.Channel,
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, msg Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, fn func(Message)) error {
	if fn == nil {
		return errors.New("subscriber callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	// Wait for the subscription confirmation so no message published after
	// Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad redis bus payload", "error", err)
					continue
				}
				fn(msg)
			}
		}
	}()

	return nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}
