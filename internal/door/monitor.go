package door

import (
	"context"
	"sync"
	"time"

	"homebase/internal/logging"
	"homebase/internal/realtime"
)

// Listener receives a copy of the state after each change.
type Listener func(State)

// Monitor owns the door state. Updates are serialized and the last write wins.
type Monitor struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	now       func() time.Time
	log       *logging.Logger
}

func NewMonitor(log *logging.Logger) *Monitor {
	if log == nil {
		log = logging.Nop()
	}
	return &Monitor{
		state:     NewState(),
		listeners: make(map[int]Listener),
		now:       time.Now,
		log:       log,
	}
}

// State returns a snapshot of the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Listen registers fn and returns a func that removes it.
func (m *Monitor) Listen(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Apply folds a push event into the state.
func (m *Monitor) Apply(e Event) error {
	if e.At.IsZero() {
		e.At = m.now()
	}
	var applyErr error
	m.update(func(s State) State {
		next, err := Apply(s, e)
		if err != nil {
			applyErr = err
			return s
		}
		return next
	}, func() bool { return applyErr == nil })
	return applyErr
}

// SetPersonStatus records a successful poll and clears LastError.
func (m *Monitor) SetPersonStatus(status string) {
	m.update(func(s State) State {
		s.PersonStatus = status
		s.LastError = ""
		s.UpdatedAt = m.now()
		return s
	}, nil)
}

func (m *Monitor) SetServerStatus(status string) {
	m.update(func(s State) State {
		s.ServerStatus = status
		s.UpdatedAt = m.now()
		return s
	}, nil)
}

func (m *Monitor) SetImage(img []byte) {
	m.update(func(s State) State {
		s.Image = append([]byte(nil), img...)
		s.UpdatedAt = m.now()
		return s
	}, nil)
}

// SetError records a failed request. Other fields keep their last value.
func (m *Monitor) SetError(err error) {
	if err == nil {
		return
	}
	m.update(func(s State) State {
		s.LastError = err.Error()
		s.UpdatedAt = m.now()
		return s
	}, nil)
}

// Consume applies every door message from the bus until ctx is done.
func (m *Monitor) Consume(ctx context.Context, bus realtime.Bus) error {
	return bus.Subscribe(ctx, func(msg realtime.Message) {
		if msg.Channel != realtime.ChannelDoor {
			return
		}
		if err := m.Apply(Event{Name: msg.Event, Data: msg.Data}); err != nil {
			m.log.Warn("door event dropped", "event", msg.Event, "error", err)
		}
	})
}

// update runs fn under the lock and notifies listeners afterwards.
// changed, when set, decides whether listeners are told at all.
func (m *Monitor) update(fn func(State) State, changed func() bool) {
	m.mu.Lock()
	m.state = fn(m.state)
	if changed != nil && !changed() {
		m.mu.Unlock()
		return
	}
	snapshot := m.state
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot.Clone())
	}
}
