package cli

import (
	"context"
	"strconv"
	"time"

	"homebase/internal/api"
	"homebase/internal/errors"
)

// defaultSlideInterval is how long autoplay shows each slide.
const defaultSlideInterval = 4 * time.Second

// SlidesCommand prints the carousel positioned at an optional index, or
// with --play advances through it until interrupted
type SlidesCommand struct {
	businessAPI api.BusinessAPI
	out         writer
	flags       *CommandFlags
}

// NewSlidesCommand creates a new slides command handler
func NewSlidesCommand(app *App) *SlidesCommand {
	return &SlidesCommand{businessAPI: app.businessAPI, out: writer{app.out}, flags: app.flags}
}

// Execute runs the slides command
func (c *SlidesCommand) Execute(ctx context.Context, args []string) error {
	index := 0
	if len(args) > 0 {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.NewInvalidInputError("index", args[0], "must be a number")
		}
		index = i
	}
	if c.flags.Play {
		return c.play(ctx, index)
	}

	view := c.businessAPI.Carousel(index)
	if view.Total == 0 {
		c.out.println("No slides")
		return nil
	}
	for i, slide := range view.Slides {
		marker := " "
		if i == view.Index {
			marker = ">"
		}
		c.out.printf("%s %d. %s - %s\n", marker, i+1, slide.Title, slide.Subtitle)
	}
	return nil
}

func (c *SlidesCommand) play(ctx context.Context, start int) error {
	interval := c.flags.Interval
	if interval == 0 {
		interval = defaultSlideInterval
	}
	return c.businessAPI.PlaySlides(ctx, start, interval, func(view api.CarouselView) {
		c.out.printf("%d/%d %s - %s\n", view.Index+1, view.Total, view.Slide.Title, view.Slide.Subtitle)
	})
}
