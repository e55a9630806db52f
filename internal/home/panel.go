package home

import (
	"context"
	"sync"
	"time"

	"homebase/internal/logging"
	"homebase/internal/realtime"
)

// Panel owns the relay state and tells listeners about each change.
type Panel struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
	now       func() time.Time
	log       *logging.Logger
}

func NewPanel(log *logging.Logger) *Panel {
	if log == nil {
		log = logging.Nop()
	}
	return &Panel{
		state:     NewState(),
		listeners: make(map[int]func(State)),
		now:       time.Now,
		log:       log,
	}
}

func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Listen registers fn and returns a func that removes it. fn runs outside
// the panel lock.
func (p *Panel) Listen(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Apply folds e into the state. A rejected event changes nothing and
// notifies nobody.
func (p *Panel) Apply(e Event) error {
	if e.At.IsZero() {
		e.At = p.now()
	}

	p.mu.Lock()
	next, err := Apply(p.state, e)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.state = next
	listeners := make([]func(State), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// Consume applies every home message from the bus until ctx is done.
func (p *Panel) Consume(ctx context.Context, bus realtime.Bus) error {
	return bus.Subscribe(ctx, func(msg realtime.Message) {
		if msg.Channel != realtime.ChannelHome {
			return
		}
		if err := p.Apply(Event{Name: msg.Event, Data: msg.Data}); err != nil {
			p.log.Warn("home event dropped", "event", msg.Event, "error", err)
		}
	})
}
