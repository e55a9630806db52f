package cli

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"homebase/internal/api"
	"homebase/internal/config"
	"homebase/internal/domain"
	"homebase/internal/errors"
)

// App holds what every command handler needs
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	out         io.Writer
	flags       *CommandFlags
	today       func() domain.Date
	registry    *CommandRegistry
}

// CommandFlags holds the per-command flag values. Cobra binds into it, and
// handlers read it when they run.
type CommandFlags struct {
	Due      string
	Sorted   bool
	Limit    int
	Out      string
	Device   bool
	Play     bool
	Interval time.Duration
}

// NewApp creates a new CLI application instance with dependency injection.
// Output goes to stdout when out is nil.
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer, flags *CommandFlags) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	if flags == nil {
		flags = &CommandFlags{}
	}
	app := &App{
		businessAPI: businessAPI,
		config:      cfg,
		out:         out,
		flags:       flags,
		today:       domain.Today,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes the named command, for example Run(ctx, "task add", args)
func (a *App) Run(ctx context.Context, name string, args []string) error {
	return a.registry.Execute(ctx, name, args)
}

// parseTaskID reads a positive task id argument
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", arg, "must be a positive number")
	}
	return id, nil
}
