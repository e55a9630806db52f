package cli

import (
	"context"
	"strconv"
	"strings"

	"homebase/internal/api"
	"homebase/internal/domain"
	"homebase/internal/errors"
)

// FeedbackAddCommand handles "feedback add <name> <rating> <message...>"
type FeedbackAddCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewFeedbackAddCommand creates a new feedback add command handler
func NewFeedbackAddCommand(app *App) *FeedbackAddCommand {
	return &FeedbackAddCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the feedback add command
func (c *FeedbackAddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.NewInvalidInputError("command", "feedback add", "usage: hb feedback add <name> <rating> <message...>")
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return c.errorHandler.Handle("submit feedback", errors.NewInvalidInputError("rating", args[1], "must be a number from 1 to 5"))
	}

	fb, err := c.businessAPI.SubmitFeedback(ctx, args[0], strings.Join(args[2:], " "), rating)
	if err != nil {
		return c.errorHandler.Handle("submit feedback", err)
	}
	c.out.printf("Thanks %s, your feedback was recorded\n", fb.Name)
	return nil
}

// FeedbackListCommand prints the most recent entries
type FeedbackListCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
	flags        *CommandFlags
}

// NewFeedbackListCommand creates a new feedback list command handler
func NewFeedbackListCommand(app *App) *FeedbackListCommand {
	return &FeedbackListCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}, flags: app.flags}
}

// Execute runs the feedback list command
func (c *FeedbackListCommand) Execute(ctx context.Context, args []string) error {
	entries, err := c.businessAPI.RecentFeedback(ctx, c.flags.Limit)
	if err != nil {
		return c.errorHandler.Handle("list feedback", err)
	}
	printFeedback(c.out, entries)
	return nil
}

// FeedbackWatchCommand reprints the wall whenever someone submits
type FeedbackWatchCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
	flags        *CommandFlags
}

// NewFeedbackWatchCommand creates a new feedback watch command handler
func NewFeedbackWatchCommand(app *App) *FeedbackWatchCommand {
	return &FeedbackWatchCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}, flags: app.flags}
}

// Execute blocks until ctx is cancelled
func (c *FeedbackWatchCommand) Execute(ctx context.Context, args []string) error {
	err := c.businessAPI.WatchFeedback(ctx, c.flags.Limit, func(entries []domain.Feedback) {
		c.out.println("---")
		printFeedback(c.out, entries)
	})
	if err != nil && ctx.Err() == nil {
		return c.errorHandler.Handle("watch feedback", err)
	}
	return nil
}

func printFeedback(out writer, entries []domain.Feedback) {
	if len(entries) == 0 {
		out.println("No feedback yet")
		return
	}
	for _, fb := range entries {
		out.printf("%s %-5s %s: %s\n", fb.CreatedAt.Format("2006-01-02 15:04"), strings.Repeat("*", fb.Rating), fb.Name, fb.Message)
	}
}
