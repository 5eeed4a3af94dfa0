package indicator

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/datetime"
	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/logging"
)

var watchNow = time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)

// scriptedSource returns one prepared answer per call and repeats the last one
type scriptedSource struct {
	mu      sync.Mutex
	answers []answer
	calls   int
}

type answer struct {
	view *api.EntryView
	err  error
}

func (s *scriptedSource) Current(ctx context.Context) (*api.EntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.answers) {
		i = len(s.answers) - 1
	}
	s.calls++
	return s.answers[i].view, s.answers[i].err
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func running(id int64, description string, start time.Time) *api.EntryView {
	return &api.EntryView{
		Entry:   domain.TimeEntry{ID: id, Description: description, Start: start, Duration: -1},
		Project: "blog",
	}
}

func setupWatcher(t *testing.T, answers ...answer) (*Watcher, *scriptedSource, *bytes.Buffer) {
	t.Helper()
	source := &scriptedSource{answers: answers}
	out := &bytes.Buffer{}
	formatter := datetime.NewFormatter("15:04", time.UTC)
	w := NewWatcher(source, time.Minute, out, formatter, logging.Discard(), WithClock(func() time.Time { return watchNow }))
	return w, source, out
}

func pollAll(t *testing.T, w *Watcher, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := w.Poll(context.Background())
		require.NoError(t, err)
	}
}

func TestWatcher_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		answers  []answer
		expected []string
	}{
		{
			name:     "idle from the start",
			answers:  []answer{{}, {}},
			expected: []string{IdleMessage},
		},
		{
			name: "entry starts",
			answers: []answer{
				{},
				{view: running(1, "writing", watchNow.Add(-5*time.Minute))},
				{view: running(1, "writing", watchNow.Add(-5*time.Minute))},
			},
			expected: []string{IdleMessage, "writing started at 13:55"},
		},
		{
			name: "entry stops",
			answers: []answer{
				{view: running(1, "writing", watchNow.Add(-time.Hour))},
				{},
			},
			expected: []string{"writing started at 13:00", "writing stopped at 14:00", IdleMessage},
		},
		{
			name: "switch to another entry",
			answers: []answer{
				{view: running(1, "writing", watchNow.Add(-time.Hour))},
				{view: running(2, "review", watchNow.Add(-time.Minute))},
			},
			expected: []string{"writing started at 13:00", "writing stopped at 14:00", "review started at 13:59"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, out := setupWatcher(t, tt.answers...)
			pollAll(t, w, len(tt.answers))

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestWatcher_Status(t *testing.T) {
	w, _, _ := setupWatcher(t, answer{view: running(7, "writing", watchNow.Add(-90*time.Minute))})
	assert.False(t, w.Healthy(), "not healthy before the first poll")

	status, err := w.Poll(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Running)
	assert.Equal(t, int64(7), status.ID)
	assert.Equal(t, "writing", status.Description)
	assert.Equal(t, "blog", status.Project)
	assert.Equal(t, int64(5400), status.Elapsed)
	assert.Equal(t, "1:30:00", status.ElapsedText)
	assert.Equal(t, watchNow, status.CheckedAt)
	assert.True(t, w.Healthy())

	// elapsed keeps counting between polls
	w.now = func() time.Time { return watchNow.Add(time.Minute) }
	assert.Equal(t, int64(5460), w.Status().Elapsed)
}

func TestWatcher_PollFailure(t *testing.T) {
	w, _, out := setupWatcher(t,
		answer{view: running(1, "writing", watchNow.Add(-time.Hour))},
		answer{err: errors.NewNetworkError("list time entries", nil)},
		answer{view: running(1, "writing", watchNow.Add(-time.Hour))},
	)
	ctx := context.Background()

	_, err := w.Poll(ctx)
	require.NoError(t, err)

	status, err := w.Poll(ctx)
	require.Error(t, err)
	assert.True(t, status.Running, "keeps the last known state")
	assert.Contains(t, status.Error, "unreachable")
	assert.False(t, w.Healthy())

	_, err = w.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, w.Healthy())

	// no transition is reported around the failure
	assert.Equal(t, "writing started at 13:00\n", out.String())
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	source := &scriptedSource{answers: []answer{{}}}
	w := NewWatcher(source, 10*time.Millisecond, &bytes.Buffer{}, datetime.NewFormatter("", time.UTC), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return source.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
