package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options selects the verbosity of the process logger.
type Options struct {
	Quiet   bool
	Verbose bool
	Debug   bool
}

// DebugEnabled returns true if debug mode is enabled via TOGGL_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TOGGL_DEBUG") != ""
}

// Level maps the command-line verbosity flags to a slog level.
// Debug wins over verbose, verbose wins over quiet.
func (o Options) Level() slog.Level {
	switch {
	case o.Debug || DebugEnabled():
		return slog.LevelDebug
	case o.Verbose:
		return slog.LevelInfo
	case o.Quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New builds a text logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     opts.Level(),
		AddSource: opts.Debug,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops everything; used by tests and quiet helpers.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
