package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/datetime"
	"indicator-toggl/internal/indicator"
)

// NowCommand shows the running entry
type NowCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewNowCommand creates a new now command handler
func NewNowCommand(app *App) *NowCommand {
	return &NowCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the now command
func (c *NowCommand) Execute(ctx context.Context, args []string) error {
	if err := requireNoArgs("now", args); err != nil {
		return err
	}
	current, err := c.businessAPI.Current(ctx)
	if err != nil {
		return c.errorHandler.Handle("get running entry", err)
	}
	if current == nil {
		fmt.Fprintln(c.app.out, indicator.IdleMessage)
		return nil
	}

	now := c.app.now()
	start := current.Entry.Start
	label := current.Description()
	if current.Project != "" {
		label = strings.TrimSpace(label + " @" + current.Project)
	}
	fmt.Fprintf(c.app.out, "%s (%s), running for %s\n",
		indicator.StartedMessage(c.app.formatter, label, start),
		humanize.RelTime(start, now, "ago", "from now"),
		datetime.FormatDuration(current.Entry.Elapsed(now)),
	)
	return nil
}
