package cli

import (
	"context"
	"fmt"

	"indicator-toggl/internal/api"
)

// WWWCommand opens the web timer
type WWWCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewWWWCommand creates a new www command handler
func NewWWWCommand(app *App) *WWWCommand {
	return &WWWCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the www command
func (c *WWWCommand) Execute(ctx context.Context, args []string) error {
	if err := requireNoArgs("www", args); err != nil {
		return err
	}

	url := c.businessAPI.WebURL()
	fmt.Fprintf(c.app.out, "Opening %s\n", url)
	if err := c.app.openBrowser(url); err != nil {
		return c.errorHandler.Handle("open browser", err)
	}
	return nil
}
