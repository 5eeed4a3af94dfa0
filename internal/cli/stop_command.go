package cli

import (
	"context"
	"fmt"
	"time"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/indicator"
)

// StopCommand handles the stop command
type StopCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewStopCommand creates a new stop command handler
func NewStopCommand(app *App) *StopCommand {
	return &StopCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the stop command: [DATETIME]
func (c *StopCommand) Execute(ctx context.Context, args []string) error {
	var at *time.Time
	if len(args) > 0 {
		parsed, err := parseStopArgs(args, c.app.now())
		if err != nil {
			return err
		}
		at = &parsed
	}

	stopped, err := c.businessAPI.StopRunning(ctx, at)
	if err != nil {
		return c.errorHandler.Handle("stop entry", err)
	}
	if stopped == nil || stopped.Entry.Stop == nil {
		fmt.Fprintln(c.app.out, indicator.IdleMessage)
		return nil
	}
	fmt.Fprintln(c.app.out, indicator.StoppedMessage(c.app.formatter, stopped.Description(), *stopped.Entry.Stop))
	return nil
}
