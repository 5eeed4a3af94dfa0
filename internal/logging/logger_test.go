package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("TOGGL_DEBUG", "")
	assert.False(t, DebugEnabled(), "empty TOGGL_DEBUG should not enable debug")

	t.Setenv("TOGGL_DEBUG", "1")
	assert.True(t, DebugEnabled(), "any TOGGL_DEBUG value should enable debug")
}

func TestOptions_Level(t *testing.T) {
	t.Setenv("TOGGL_DEBUG", "")

	tests := []struct {
		name     string
		opts     Options
		expected slog.Level
	}{
		{"default is warn", Options{}, slog.LevelWarn},
		{"quiet is error", Options{Quiet: true}, slog.LevelError},
		{"verbose is info", Options{Verbose: true}, slog.LevelInfo},
		{"debug is debug", Options{Debug: true}, slog.LevelDebug},
		{"verbose beats quiet", Options{Quiet: true, Verbose: true}, slog.LevelInfo},
		{"debug beats verbose", Options{Verbose: true, Debug: true}, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.opts.Level())
		})
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	t.Setenv("TOGGL_DEBUG", "")

	var buf bytes.Buffer
	logger := New(&buf, Options{Verbose: true})

	logger.Debug("hidden message")
	logger.Info("reloaded entries", slog.Int("count", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "reloaded entries")
	assert.Contains(t, out, "count=3")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotNil(t, logger)
	logger.Error("goes nowhere")
}
