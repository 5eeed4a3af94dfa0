package cli

import (
	"context"
	"fmt"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/indicator"
)

// StartCommand handles the start command
type StartCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the start command: DESCR [@PROJECT] [DATETIME]
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	params, err := parseStartArgs(args, c.app.now())
	if err != nil {
		return err
	}

	result, err := c.businessAPI.StartEntry(ctx, params)
	if err != nil {
		return c.errorHandler.Handle("start entry", err)
	}
	printStartResult(c.app, result)
	return nil
}

// printStartResult is shared by start and continue
func printStartResult(app *App, result *api.StartResult) {
	if result.Stopped != nil && result.Stopped.Entry.Stop != nil {
		fmt.Fprintln(app.out, indicator.StoppedMessage(app.formatter, result.Stopped.Description(), *result.Stopped.Entry.Stop))
	}
	fmt.Fprintln(app.out, indicator.StartedMessage(app.formatter, result.Started.Description(), result.Started.Entry.Start))
}
