package door

import (
	"context"
	"time"

	"homebase/internal/logging"
)

// DefaultPollInterval matches the door panel's refresh period.
const DefaultPollInterval = 15 * time.Second

// StatusSource is the part of Client the poller needs.
type StatusSource interface {
	PersonStatus(ctx context.Context) (string, error)
}

// Poller refreshes the person status on a fixed interval.
type Poller struct {
	source   StatusSource
	monitor  *Monitor
	interval time.Duration
	log      *logging.Logger
}

func NewPoller(source StatusSource, monitor *Monitor, interval time.Duration, log *logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Poller{source: source, monitor: monitor, interval: interval, log: log}
}

// Run polls once per tick until ctx is cancelled. The first poll happens
// after one interval. Failures are recorded and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs a single status request and applies the result.
func (p *Poller) Poll(ctx context.Context) {
	status, err := p.source.PersonStatus(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("person status poll failed", "error", err)
		p.monitor.SetError(err)
		return
	}
	p.monitor.SetPersonStatus(status)
}
