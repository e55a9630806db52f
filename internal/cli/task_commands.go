package cli

import (
	"context"
	"fmt"
	"strings"

	"homebase/internal/api"
	"homebase/internal/domain"
	"homebase/internal/errors"
)

// TaskAddCommand handles "task add <text...> [--due YYYY-MM-DD]"
type TaskAddCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
	flags        *CommandFlags
}

// NewTaskAddCommand creates a new task add command handler
func NewTaskAddCommand(app *App) *TaskAddCommand {
	return &TaskAddCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}, flags: app.flags}
}

// Execute runs the task add command
func (c *TaskAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "task add", "usage: hb task add \"your text here\" [--due YYYY-MM-DD]")
	}
	task, err := c.businessAPI.AddTask(ctx, strings.Join(args, " "), c.flags.Due)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	c.out.printf("Added task %d: %s\n", task.ID, task.Text)
	return nil
}

// TaskListCommand handles "task list [--all-sorted]"
type TaskListCommand struct {
	businessAPI   api.BusinessAPI
	errorHandler  *ErrorHandler
	out           writer
	today         func() domain.Date
	overdueMarker string
	flags         *CommandFlags
}

// NewTaskListCommand creates a new task list command handler
func NewTaskListCommand(app *App) *TaskListCommand {
	return &TaskListCommand{
		businessAPI:   app.businessAPI,
		errorHandler:  NewErrorHandler(),
		out:           writer{app.out},
		today:         app.today,
		overdueMarker: app.config.Display.OverdueMarker,
		flags:         app.flags,
	}
}

// Execute runs the task list command
func (c *TaskListCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "task list", "usage: hb task list [--all-sorted]")
	}
	board, err := c.businessAPI.TaskBoard(ctx, c.flags.Sorted)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	if len(board.Tasks) == 0 {
		c.out.println("No tasks found")
		return nil
	}

	today := c.today()
	for _, task := range board.Tasks {
		c.out.println(formatTaskLine(task, today, c.overdueMarker))
	}
	c.out.printf("\n%d of %d tasks remaining\n", board.Stats.Remaining, board.Stats.Total)
	return nil
}

// formatTaskLine renders "  3 [x] text (due 2024-01-31) overdue"
func formatTaskLine(task domain.Task, today domain.Date, overdueMarker string) string {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%3d %s %s", task.ID, box, task.Text)
	if task.Due != nil {
		line += fmt.Sprintf(" (due %s)", task.Due)
	}
	if domain.IsOverdue(task, today) {
		line += " " + overdueMarker
	}
	return line
}

// TaskDoneCommand toggles completion of a task
type TaskDoneCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewTaskDoneCommand creates a new task done command handler
func NewTaskDoneCommand(app *App) *TaskDoneCommand {
	return &TaskDoneCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the task done command
func (c *TaskDoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "task done", "usage: hb task done <id>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.Handle("toggle task", err)
	}

	task, found, err := c.businessAPI.ToggleTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("toggle task", err)
	}
	switch {
	case !found:
		c.out.printf("No task with id %d\n", id)
	case task.Completed:
		c.out.printf("Completed task %d: %s\n", task.ID, task.Text)
	default:
		c.out.printf("Reopened task %d: %s\n", task.ID, task.Text)
	}
	return nil
}

// TaskEditCommand handles "task edit <id> <text...> [--due YYYY-MM-DD]"
type TaskEditCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
	flags        *CommandFlags
}

// NewTaskEditCommand creates a new task edit command handler
func NewTaskEditCommand(app *App) *TaskEditCommand {
	return &TaskEditCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}, flags: app.flags}
}

// Execute runs the task edit command
func (c *TaskEditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("command", "task edit", "usage: hb task edit <id> \"new text\" [--due YYYY-MM-DD]")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.Handle("update task", err)
	}

	task, err := c.businessAPI.UpdateTask(ctx, id, strings.Join(args[1:], " "), c.flags.Due)
	if err != nil {
		return c.errorHandler.Handle("update task", err)
	}
	c.out.printf("Updated task %d: %s\n", task.ID, task.Text)
	return nil
}

// TaskRemoveCommand deletes a task
type TaskRemoveCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewTaskRemoveCommand creates a new task rm command handler
func NewTaskRemoveCommand(app *App) *TaskRemoveCommand {
	return &TaskRemoveCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the task rm command
func (c *TaskRemoveCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "task rm", "usage: hb task rm <id>")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	if err := c.businessAPI.DeleteTask(ctx, id); err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	c.out.printf("Deleted task %d\n", id)
	return nil
}

// TaskStatsCommand prints the list summary
type TaskStatsCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewTaskStatsCommand creates a new task stats command handler
func NewTaskStatsCommand(app *App) *TaskStatsCommand {
	return &TaskStatsCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the task stats command
func (c *TaskStatsCommand) Execute(ctx context.Context, args []string) error {
	stats, err := c.businessAPI.TaskStats(ctx)
	if err != nil {
		return c.errorHandler.Handle("load task stats", err)
	}
	c.out.printf("%d of %d tasks remaining\n", stats.Remaining, stats.Total)
	c.out.printf("Completed: %d\n", stats.Completed)
	c.out.printf("Overdue:   %d\n", stats.Overdue)
	c.out.printf("Progress:  %.0f%%\n", stats.Progress)
	return nil
}

// TaskClearCommand removes every completed task
type TaskClearCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewTaskClearCommand creates a new task clear-done command handler
func NewTaskClearCommand(app *App) *TaskClearCommand {
	return &TaskClearCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the task clear-done command
func (c *TaskClearCommand) Execute(ctx context.Context, args []string) error {
	n, err := c.businessAPI.ClearCompleted(ctx)
	if err != nil {
		return c.errorHandler.Handle("clear completed tasks", err)
	}
	c.out.printf("Removed %d completed task(s)\n", n)
	return nil
}
