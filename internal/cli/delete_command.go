package cli

import (
	"context"
	"fmt"
	"strconv"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/errors"
)

// DeleteCommand handles the rm command
type DeleteCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the rm command: ID
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewUsageError("rm", "exactly one entry id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return errors.NewParseError("entry id", args[0], "a positive number as shown by ls")
	}

	deleted, err := c.businessAPI.DeleteEntry(ctx, id)
	if err != nil {
		return c.errorHandler.Handle(fmt.Sprintf("delete entry %d", id), err)
	}

	if deleted.Description() == "" {
		fmt.Fprintf(c.app.out, "Deleted entry %d\n", id)
		return nil
	}
	fmt.Fprintf(c.app.out, "Deleted entry %d: %s\n", id, deleted.Description())
	return nil
}
