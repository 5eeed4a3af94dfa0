// Package indicator polls the service for the running entry and reports
// changes, the way a status-bar indicator would.
package indicator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/datetime"
	"indicator-toggl/internal/errors"
)

// Source reports the running entry. Satisfied by api.BusinessAPI.
type Source interface {
	Current(ctx context.Context) (*api.EntryView, error)
}

// Status is the last observed state.
type Status struct {
	Running     bool       `json:"running"`
	ID          int64      `json:"id,omitempty"`
	Description string     `json:"description,omitempty"`
	Project     string     `json:"project,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	Elapsed     int64      `json:"elapsed_seconds"`
	ElapsedText string     `json:"elapsed"`
	CheckedAt   time.Time  `json:"checked_at"`
	Error       string     `json:"error,omitempty"`
}

// Watcher polls a Source on a fixed interval. Polls never overlap.
type Watcher struct {
	source    Source
	interval  time.Duration
	out       io.Writer
	formatter *datetime.Formatter
	log       *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	status  Status
	polled  bool
	current *api.EntryView
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) { w.now = now }
}

// NewWatcher creates a watcher that prints transitions to out.
func NewWatcher(source Source, interval time.Duration, out io.Writer, formatter *datetime.Formatter, log *slog.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:    source,
		interval:  interval,
		out:       out,
		formatter: formatter,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls immediately and then on every tick until ctx is cancelled.
// Failed polls are logged and do not end the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Poll(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn("poll failed", "error", errors.GetUserMessage(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll checks the running entry once and prints a line when it changed.
func (w *Watcher) Poll(ctx context.Context) (Status, error) {
	current, err := w.source.Current(ctx)
	checkedAt := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.status.CheckedAt = checkedAt
		w.status.Error = errors.GetUserMessage(err)
		return w.status, err
	}

	w.announce(current, checkedAt)
	w.current = current
	w.polled = true
	w.status = buildStatus(current, checkedAt)
	return w.status, nil
}

// Status returns the last observed state, with the elapsed time of a running
// entry brought up to date.
func (w *Watcher) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := w.status
	if status.Running && status.Start != nil {
		status.Elapsed = int64(w.now().Sub(*status.Start) / time.Second)
		status.ElapsedText = datetime.FormatDuration(status.Elapsed)
	}
	return status
}

// Healthy reports whether the last poll succeeded.
func (w *Watcher) Healthy() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polled && w.status.Error == ""
}

// announce prints the transition from the previous poll. Caller holds mu.
func (w *Watcher) announce(next *api.EntryView, at time.Time) {
	prev := w.current

	switch {
	case !w.polled && next == nil:
		w.println(IdleMessage)
	case prev != nil && (next == nil || next.Entry.ID != prev.Entry.ID):
		// the stop instant is unknown until the entry is fetched again
		w.println(StoppedMessage(w.formatter, prev.Description(), at))
		if next == nil {
			w.println(IdleMessage)
		}
	}

	if next != nil && (prev == nil || next.Entry.ID != prev.Entry.ID) {
		w.println(StartedMessage(w.formatter, next.Description(), next.Entry.Start))
	}
}

func (w *Watcher) println(line string) {
	w.log.Info(line)
	fmt.Fprintln(w.out, line)
}

func buildStatus(current *api.EntryView, checkedAt time.Time) Status {
	if current == nil {
		return Status{CheckedAt: checkedAt, ElapsedText: datetime.FormatDuration(0)}
	}
	start := current.Entry.Start
	elapsed := current.Entry.Elapsed(checkedAt)
	return Status{
		Running:     true,
		ID:          current.Entry.ID,
		Description: current.Entry.Description,
		Project:     current.Project,
		Start:       &start,
		Elapsed:     elapsed,
		ElapsedText: datetime.FormatDuration(elapsed),
		CheckedAt:   checkedAt,
	}
}
