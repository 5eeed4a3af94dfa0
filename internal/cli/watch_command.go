package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/indicator"
)

// WatchCommand polls for the running entry until interrupted
type WatchCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App) *WatchCommand {
	return &WatchCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the watch loop, and the status endpoint when watch.listen is set.
// It returns when ctx is cancelled.
func (c *WatchCommand) Execute(ctx context.Context, args []string) error {
	if err := requireNoArgs("watch", args); err != nil {
		return err
	}

	settings := c.app.config.Watch
	if settings.Interval < time.Second {
		return errors.NewUsageError("watch", fmt.Sprintf("interval %s is shorter than 1s", settings.Interval))
	}
	watcher := indicator.NewWatcher(polledSource{c.businessAPI}, settings.Interval, c.app.out, c.app.formatter, c.app.log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchDone := make(chan error, 1)
	go func() { watchDone <- watcher.Run(ctx) }()

	if settings.Listen == "" {
		return <-watchDone
	}

	gin.SetMode(gin.ReleaseMode)
	router := indicator.NewRouter(watcher, c.app.log)
	serveErr := indicator.Serve(ctx, settings.Listen, router, c.app.log)

	cancel()
	watchErr := <-watchDone
	if serveErr != nil {
		return c.errorHandler.Handle("serve status endpoint",
			errors.WrapError(serveErr, errors.ErrorTypeRemote, "cannot listen on "+settings.Listen))
	}
	return watchErr
}

// polledSource asks the service for the running entry alone on every tick
type polledSource struct {
	businessAPI api.BusinessAPI
}

func (p polledSource) Current(ctx context.Context) (*api.EntryView, error) {
	return p.businessAPI.PollCurrent(ctx)
}
