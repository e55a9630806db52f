package api

import (
	"homebase/internal/config"
	"homebase/internal/door"
	"homebase/internal/logging"
	"homebase/internal/realtime"
	"homebase/internal/repository/sqlite"
	"homebase/internal/services"
)

// New wires a BusinessAPI from configuration. The door client is built
// only when a companion service URL is configured, and the status poller
// only when polling is switched on.
func New(cfg *config.Config, repo sqlite.Repository, bus realtime.Bus, log *logging.Logger) (BusinessAPI, error) {
	if log == nil {
		log = logging.Nop()
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	opts := Options{
		Services: services.NewServiceContainer(repo, cfg, bus, log),
		Monitor:  door.NewMonitor(log.With("component", "DoorMonitor")),
		Bus:      bus,
		Log:      log,
	}

	if cfg.Door.BaseURL != "" {
		client, err := door.NewClient(door.ClientConfig{
			BaseURL:    cfg.Door.BaseURL,
			Timeout:    cfg.Door.RequestTimeout,
			StatusPath: cfg.Door.StatusPath,
		})
		if err != nil {
			return nil, err
		}
		opts.Door = client
		if cfg.Door.Poll {
			opts.Poller = door.NewPoller(client, opts.Monitor, cfg.Door.PollInterval, log.With("component", "DoorPoller"))
		}
	}

	return NewBusinessAPI(opts), nil
}
