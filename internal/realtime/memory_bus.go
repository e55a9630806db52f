package realtime

import (
	"context"
	"errors"
	"sync"

	"homebase/internal/logging"
)

// ErrBusClosed is returned when publishing to or subscribing on a closed bus.
var ErrBusClosed = errors.New("bus closed")

const subscriberBuffer = 64

// MemoryBus fans messages out to subscribers in the same process.
type MemoryBus struct {
	log *logging.Logger

	mu     sync.RWMutex
	subs   map[*memorySub]struct{}
	closed bool
}

type memorySub struct {
	ch   chan Message
	done chan struct{}
}

func NewMemoryBus(log *logging.Logger) *MemoryBus {
	if log == nil {
		log = logging.Nop()
	}
	return &MemoryBus{
		log:  log.With("component", "MemoryBus"),
		subs: make(map[*memorySub]struct{}),
	}
}

// Publish never blocks. A subscriber whose buffer is full misses the message.
func (b *MemoryBus) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			b.log.Warn("dropping bus message; subscriber buffer full", "channel", msg.Channel, "event", msg.Event)
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, fn func(Message)) error {
	if fn == nil {
		return errors.New("subscriber callback required")
	}

	sub := &memorySub{ch: make(chan Message, subscriberBuffer), done: make(chan struct{})}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer b.remove(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case msg := <-sub.ch:
				fn(msg)
			}
		}
	}()
	return nil
}

func (b *MemoryBus) remove(sub *memorySub) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

// Close stops every subscription. Further publishes fail with ErrBusClosed.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.done)
	}
	return nil
}
