package cli

import (
	"context"
	"os"

	"homebase/internal/api"
	"homebase/internal/door"
	"homebase/internal/errors"
)

// DoorStatusCommand asks the door service who is at the door
type DoorStatusCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewDoorStatusCommand creates a new door status command handler
func NewDoorStatusCommand(app *App) *DoorStatusCommand {
	return &DoorStatusCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute runs the door status command
func (c *DoorStatusCommand) Execute(ctx context.Context, args []string) error {
	server, err := c.businessAPI.ServerStatus(ctx)
	if err != nil {
		return c.errorHandler.Handle("reach door service", err)
	}
	person, err := c.businessAPI.PersonStatus(ctx)
	if err != nil {
		return c.errorHandler.Handle("read person status", err)
	}
	c.out.printf("Server: %s\n", server)
	c.out.printf("Person: %s\n", person)
	return nil
}

// DoorTriggerCommand presses the doorbell button and fetches the snapshot
type DoorTriggerCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
	flags        *CommandFlags
}

// NewDoorTriggerCommand creates a new door trigger command handler
func NewDoorTriggerCommand(app *App) *DoorTriggerCommand {
	return &DoorTriggerCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}, flags: app.flags}
}

// Execute runs the door trigger command
func (c *DoorTriggerCommand) Execute(ctx context.Context, args []string) error {
	result, err := c.businessAPI.TriggerDoor(ctx)
	if err != nil {
		return c.errorHandler.Handle("trigger door", err)
	}
	if result.Reply != "" {
		c.out.printf("Door service: %s\n", result.Reply)
	}

	if c.flags.Out == "" {
		c.out.printf("Received %d byte image\n", len(result.Image))
		return nil
	}
	if err := os.WriteFile(c.flags.Out, result.Image, 0o644); err != nil {
		return c.errorHandler.Handle("save image", err)
	}
	c.out.printf("Saved image to %s\n", c.flags.Out)
	return nil
}

// DoorWatchCommand prints the door state after every change
type DoorWatchCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewDoorWatchCommand creates a new door watch command handler
func NewDoorWatchCommand(app *App) *DoorWatchCommand {
	return &DoorWatchCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute blocks until ctx is cancelled
func (c *DoorWatchCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "door watch", "usage: hb door watch")
	}
	err := c.businessAPI.WatchDoor(ctx, func(s door.State) {
		c.out.println(formatDoorState(s))
	})
	if err != nil && ctx.Err() == nil {
		return c.errorHandler.Handle("watch door", err)
	}
	return nil
}

func formatDoorState(s door.State) string {
	line := s.Presence()
	if s.DoorStatus != "" {
		line += " | door: " + s.DoorStatus
	}
	if s.ArduinoStatus != "" {
		line += " | device: " + s.ArduinoStatus
	}
	if s.LastError != "" {
		line += " | error: " + s.LastError
	}
	return line
}
