package cli

import (
	"context"
	"strings"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/errors"
)

// ContinueCommand starts a new entry like the most recent one with a description
type ContinueCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewContinueCommand creates a new continue command handler
func NewContinueCommand(app *App) *ContinueCommand {
	return &ContinueCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the continue command: DESCR
func (c *ContinueCommand) Execute(ctx context.Context, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if !argValidator.IsNonEmptyString(description) {
		return errors.NewUsageError("continue", "a description is required")
	}

	result, err := c.businessAPI.ContinueEntry(ctx, description)
	if err != nil {
		return c.errorHandler.Handle("continue entry", err)
	}
	printStartResult(c.app, result)
	return nil
}
