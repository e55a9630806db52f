package cli

import (
	"context"
	"maps"
	"slices"
	"strings"

	"homebase/internal/errors"
)

// Command is one leaf of the hb command tree.
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands. Names are space separated
// paths such as "task add".
type CommandRegistry struct {
	commands map[string]Command
}

// builtins maps each command path to its constructor.
var builtins = map[string]func(*App) Command{
	"task add":        func(a *App) Command { return NewTaskAddCommand(a) },
	"task list":       func(a *App) Command { return NewTaskListCommand(a) },
	"task done":       func(a *App) Command { return NewTaskDoneCommand(a) },
	"task edit":       func(a *App) Command { return NewTaskEditCommand(a) },
	"task rm":         func(a *App) Command { return NewTaskRemoveCommand(a) },
	"task stats":      func(a *App) Command { return NewTaskStatsCommand(a) },
	"task clear-done": func(a *App) Command { return NewTaskClearCommand(a) },

	"expense add":   func(a *App) Command { return NewExpenseAddCommand(a) },
	"expense list":  func(a *App) Command { return NewExpenseListCommand(a) },
	"expense rm":    func(a *App) Command { return NewExpenseRemoveCommand(a) },
	"expense clear": func(a *App) Command { return NewExpenseClearCommand(a) },
	"expense total": func(a *App) Command { return NewExpenseTotalCommand(a) },

	"cart catalog": func(a *App) Command { return NewCatalogCommand(a) },
	"cart add":     func(a *App) Command { return NewCartAddCommand(a) },
	"cart set":     func(a *App) Command { return NewCartSetCommand(a) },
	"cart show":    func(a *App) Command { return NewCartShowCommand(a) },
	"cart clear":   func(a *App) Command { return NewCartClearCommand(a) },

	"feedback add":   func(a *App) Command { return NewFeedbackAddCommand(a) },
	"feedback list":  func(a *App) Command { return NewFeedbackListCommand(a) },
	"feedback watch": func(a *App) Command { return NewFeedbackWatchCommand(a) },

	"door status":  func(a *App) Command { return NewDoorStatusCommand(a) },
	"door trigger": func(a *App) Command { return NewDoorTriggerCommand(a) },
	"door watch":   func(a *App) Command { return NewDoorWatchCommand(a) },

	"home state": func(a *App) Command { return NewHomeStateCommand(a) },
	"home press": func(a *App) Command { return NewHomePressCommand(a) },
	"home led":   func(a *App) Command { return NewHomeLEDCommand(a) },
	"home watch": func(a *App) Command { return NewHomeWatchCommand(a) },

	"slides": func(a *App) Command { return NewSlidesCommand(a) },
}

func NewCommandRegistry(app *App) *CommandRegistry {
	r := &CommandRegistry{commands: make(map[string]Command, len(builtins))}
	for name, build := range builtins {
		r.Register(name, build(app))
	}
	return r
}

// Register adds or replaces the command at name.
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// Names lists the registered command names in order
func (r *CommandRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.commands))
}

// GetUsage lists every command path on one line.
func (r *CommandRegistry) GetUsage() string {
	return "usage: hb " + strings.Join(r.Names(), " | hb ")
}
