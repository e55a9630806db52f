package realtime

import (
	"context"
	"fmt"

	"homebase/internal/config"
	"homebase/internal/logging"
)

// Bus carries messages between publishers and subscribers, possibly across
// processes.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	// Subscribe delivers every message published after it returns to fn, in
	// order, from a single goroutine, until ctx is done.
	Subscribe(ctx context.Context, fn func(Message)) error
	Close() error
}

// NewBus returns a redis bus when an address is configured and an in-process
// bus otherwise.
func NewBus(ctx context.Context, cfg config.RedisConfig, log *logging.Logger) (Bus, error) {
	if cfg.Addr == "" {
		return NewMemoryBus(log), nil
	}
	b, err := NewRedisBus(ctx, log, RedisOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Channel:  fmt.Sprintf("%s:events", cfg.Prefix),
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
