package cli

import (
	"context"
	"encoding/json"

	"homebase/internal/api"
	"homebase/internal/errors"
	"homebase/internal/home"
)

// HomeStateCommand prints the relay state
type HomeStateCommand struct {
	businessAPI api.BusinessAPI
	out         writer
}

func NewHomeStateCommand(app *App) *HomeStateCommand {
	return &HomeStateCommand{businessAPI: app.businessAPI, out: writer{app.out}}
}

func (c *HomeStateCommand) Execute(ctx context.Context, args []string) error {
	c.out.println(formatHomeState(c.businessAPI.HomeState()))
	return nil
}

// HomePressCommand sends a button click to the other clients
type HomePressCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

// NewHomePressCommand creates a new home press command handler
func NewHomePressCommand(app *App) *HomePressCommand {
	return &HomePressCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

// Execute relays btnClick. An optional argument is sent as the JSON payload.
func (c *HomePressCommand) Execute(ctx context.Context, args []string) error {
	var data json.RawMessage
	if len(args) > 0 {
		if !json.Valid([]byte(args[0])) {
			return errors.NewInvalidInputError("payload", args[0], "must be JSON")
		}
		data = json.RawMessage(args[0])
	}
	if err := c.businessAPI.PublishHomeEvent(ctx, home.EventButtonClick, data); err != nil {
		return c.errorHandler.Handle("press button", err)
	}
	c.out.println("Button press relayed")
	return nil
}

// HomeLEDCommand reports the LED state the way a device does
type HomeLEDCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
}

func NewHomeLEDCommand(app *App) *HomeLEDCommand {
	return &HomeLEDCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}}
}

func (c *HomeLEDCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != home.LEDOn && args[0] != home.LEDOff) {
		return errors.NewInvalidInputError("command", "home led", "usage: hb home led <on|off>")
	}
	if err := c.businessAPI.PublishHomeEvent(ctx, home.EventLEDState, home.LEDPayload(args[0])); err != nil {
		return c.errorHandler.Handle("report LED state", err)
	}
	c.out.printf("LED is %s\n", args[0])
	return nil
}

// HomeWatchCommand prints the relay state after every event. With --device
// it also answers each click by toggling the LED and reporting the result.
type HomeWatchCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          writer
	flags        *CommandFlags
}

func NewHomeWatchCommand(app *App) *HomeWatchCommand {
	return &HomeWatchCommand{businessAPI: app.businessAPI, errorHandler: NewErrorHandler(), out: writer{app.out}, flags: app.flags}
}

// Execute blocks until ctx is cancelled
func (c *HomeWatchCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.NewInvalidInputError("command", "home watch", "usage: hb home watch [--device]")
	}

	var seen home.State
	first := true
	err := c.businessAPI.WatchHome(ctx, func(s home.State) {
		c.out.println(formatHomeState(s))
		clicked := !first && !s.PressedAt.IsZero() && !s.PressedAt.Equal(seen.PressedAt)
		first = false
		seen = s
		if !clicked || !c.flags.Device {
			return
		}
		if err := c.businessAPI.PublishHomeEvent(ctx, home.EventLEDState, home.LEDPayload(home.Toggle(s.LED))); err != nil && ctx.Err() == nil {
			c.out.println(c.errorHandler.Handle("report LED state", err).Error())
		}
	})
	if err != nil && ctx.Err() == nil {
		return c.errorHandler.Handle("watch home", err)
	}
	return nil
}

func formatHomeState(s home.State) string {
	line := "LED: " + s.LED
	if !s.PressedAt.IsZero() {
		line += " | last press: " + s.PressedAt.Format("15:04:05")
	}
	return line
}
