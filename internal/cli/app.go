package cli

import (
	"io"
	"log/slog"
	"time"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/config"
	"indicator-toggl/internal/datetime"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// BrowserOpener opens a URL in the user's browser
type BrowserOpener func(url string) error

// App carries what every command handler needs
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	out         io.Writer
	log         *slog.Logger
	formatter   *datetime.Formatter
	location    *time.Location
	openBrowser BrowserOpener
	registry    *CommandRegistry

	// set from the --refresh flag of the reference list commands
	refreshReferences bool
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer, log *slog.Logger) *App {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	app := &App{
		businessAPI: businessAPI,
		config:      cfg,
		out:         out,
		log:         log,
		formatter:   datetime.NewFormatter(cfg.TimeFormat, loc),
		location:    loc,
		openBrowser: openBrowser,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// now returns the current time in the configured zone, so that bare dates
// and clock times typed by the user are read in that zone
func (a *App) now() time.Time {
	return timeNow().In(a.location)
}
