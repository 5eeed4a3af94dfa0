package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/datetime"
)

// ListCommand handles the ls command
type ListCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the ls command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	if err := requireNoArgs("ls", args); err != nil {
		return err
	}

	views, err := c.businessAPI.ListEntries(ctx)
	if err != nil {
		return c.errorHandler.Handle("list entries", err)
	}
	if len(views) == 0 {
		fmt.Fprintf(c.app.out, "No time entries in the last %d days\n", c.app.config.ListDays)
		return nil
	}
	return c.printEntries(views)
}

// printEntries prints one line per entry, newest first:
// id, description, project, start, stop or "running", duration
func (c *ListCommand) printEntries(views []api.EntryView) error {
	now := c.app.now()
	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tPROJECT\tSTART\tSTOP\tDURATION")
	for _, view := range views {
		entry := view.Entry
		project := view.Project
		if project != "" {
			project = "@" + project
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			strconv.FormatInt(entry.ID, 10),
			entry.Description,
			project,
			c.app.formatter.Format(entry.Start),
			c.app.formatter.FormatPtr(entry.Stop, "running"),
			datetime.FormatDuration(entry.Elapsed(now)),
		)
	}
	return w.Flush()
}
