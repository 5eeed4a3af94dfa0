package cli

import (
	"context"
	"fmt"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/datetime"
)

// AddCommand submits a completed entry
type AddCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the add command: DESCR [@PROJECT] START (dDURATION|END)
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	params, err := parseAddArgs(args, c.app.now())
	if err != nil {
		return err
	}

	added, err := c.businessAPI.AddEntry(ctx, params)
	if err != nil {
		return c.errorHandler.Handle("add entry", err)
	}

	entry := added.Entry
	fmt.Fprintf(c.app.out, "Added %s: %s - %s (%s)\n",
		added.Description(),
		c.app.formatter.Format(entry.Start),
		c.app.formatter.FormatPtr(entry.Stop, "running"),
		datetime.FormatDuration(entry.Duration),
	)
	return nil
}
