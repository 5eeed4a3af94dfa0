package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/config"
	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/logging"
	"indicator-toggl/internal/services"
)

var testNow = time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC)

// mockBusinessAPI implements the BusinessAPI interface for testing.
// Entries are kept newest first, like the real list.
type mockBusinessAPI struct {
	entries  []domain.TimeEntry
	projects []domain.Project
	clients  []domain.Client
	users    []domain.User
	nextID   int64

	// err is returned by every call when set
	err error

	startParams []services.EntryParams
	addParams   []services.EntryParams
	deletedIDs  []int64
	reloads     int
	polls       int
	closed      bool
}

func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		projects: []domain.Project{
			{ID: 42, WorkspaceID: 7, Name: "Docs", Active: true},
			{ID: 43, WorkspaceID: 7, Name: "Legacy", Active: false},
		},
		clients: []domain.Client{{ID: 3, WorkspaceID: 7, Name: "Acme"}},
		users:   []domain.User{{ID: 9, Name: "Sam", Email: "sam@example.com"}},
		nextID:  100,
	}
}

func (m *mockBusinessAPI) withEntries(entries ...domain.TimeEntry) *mockBusinessAPI {
	m.entries = append(m.entries, entries...)
	return m
}

func (m *mockBusinessAPI) StartEntry(ctx context.Context, params services.EntryParams) (*api.StartResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.startParams = append(m.startParams, params)

	start := testNow
	if params.Start != nil {
		start = *params.Start
	}
	entry := domain.NewTimeEntry(params.Description, start)
	if params.Project != "" {
		project, ok := m.findProject(params.Project)
		if !ok {
			return nil, errors.NewUnknownProjectError(params.Project)
		}
		entry.ProjectID = &project.ID
	}
	return m.startAfterStopping(entry), nil
}

func (m *mockBusinessAPI) ContinueEntry(ctx context.Context, description string) (*api.StartResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.entries {
		if e.Description == description {
			if e.IsRunning() {
				return nil, errors.NewValidationError(description+" is already running", nil)
			}
			return m.startAfterStopping(e.Continued(testNow)), nil
		}
	}
	return nil, errors.NewValidationError("no recent time entry named "+description, nil)
}

func (m *mockBusinessAPI) startAfterStopping(entry domain.TimeEntry) *api.StartResult {
	result := &api.StartResult{}
	if i := m.runningIndex(); i >= 0 {
		m.entries[i] = m.entries[i].WithStop(entry.Start)
		stopped := m.view(m.entries[i])
		result.Stopped = &stopped
	}
	entry.ID = m.nextID
	m.nextID++
	m.entries = append([]domain.TimeEntry{entry}, m.entries...)
	result.Started = m.view(entry)
	return result
}

func (m *mockBusinessAPI) StopRunning(ctx context.Context, at *time.Time) (*api.EntryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := m.runningIndex()
	if i < 0 {
		return nil, nil
	}
	stop := testNow
	if at != nil {
		stop = *at
	}
	if stop.Before(m.entries[i].Start) {
		return nil, errors.NewValidationError("stop is before start", nil)
	}
	m.entries[i] = m.entries[i].WithStop(stop)
	view := m.view(m.entries[i])
	return &view, nil
}

func (m *mockBusinessAPI) AddEntry(ctx context.Context, params services.EntryParams) (*api.EntryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.addParams = append(m.addParams, params)

	entry := domain.NewTimeEntry(params.Description, *params.Start)
	switch {
	case params.Duration != nil:
		entry = entry.WithDuration(*params.Duration)
	case params.Stop != nil:
		entry = entry.WithStop(*params.Stop)
	}
	if params.Project != "" {
		project, ok := m.findProject(params.Project)
		if !ok {
			return nil, errors.NewUnknownProjectError(params.Project)
		}
		entry.ProjectID = &project.ID
	}
	entry.ID = m.nextID
	m.nextID++
	m.entries = append([]domain.TimeEntry{entry}, m.entries...)
	view := m.view(entry)
	return &view, nil
}

func (m *mockBusinessAPI) DeleteEntry(ctx context.Context, id int64) (*api.EntryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			m.deletedIDs = append(m.deletedIDs, id)
			view := m.view(e)
			return &view, nil
		}
	}
	return nil, errors.NewRemoteError("delete time entry", 404, "")
}

func (m *mockBusinessAPI) ListEntries(ctx context.Context) ([]api.EntryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	views := make([]api.EntryView, 0, len(m.entries))
	for _, e := range m.entries {
		views = append(views, m.view(e))
	}
	return views, nil
}

func (m *mockBusinessAPI) Current(ctx context.Context) (*api.EntryView, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := m.runningIndex()
	if i < 0 {
		return nil, nil
	}
	view := m.view(m.entries[i])
	return &view, nil
}

func (m *mockBusinessAPI) PollCurrent(ctx context.Context) (*api.EntryView, error) {
	m.polls++
	return m.Current(ctx)
}

func (m *mockBusinessAPI) Projects(ctx context.Context) ([]domain.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.projects, nil
}

func (m *mockBusinessAPI) Clients(ctx context.Context) ([]domain.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.clients, nil
}

func (m *mockBusinessAPI) Users(ctx context.Context) ([]domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *mockBusinessAPI) ReloadReferences(ctx context.Context) error {
	m.reloads++
	return m.err
}

func (m *mockBusinessAPI) WebURL() string {
	return "https://track.toggl.com/timer"
}

func (m *mockBusinessAPI) Close() error {
	m.closed = true
	return nil
}

func (m *mockBusinessAPI) runningIndex() int {
	for i, e := range m.entries {
		if e.IsRunning() {
			return i
		}
	}
	return -1
}

func (m *mockBusinessAPI) findProject(name string) (domain.Project, bool) {
	for _, p := range m.projects {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Project{}, false
}

func (m *mockBusinessAPI) view(entry domain.TimeEntry) api.EntryView {
	view := api.EntryView{Entry: entry}
	if entry.ProjectID != nil {
		for _, p := range m.projects {
			if p.ID == *entry.ProjectID {
				view.Project = p.Name
			}
		}
	}
	return view
}

// testConfig is a valid configuration reading and printing in UTC
func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.APIToken = "secret"
	cfg.Timezone = "UTC"
	cfg.TimeFormat = "2006-01-02 15:04"
	cfg.ListDays = 9
	return cfg
}

// setupTestAppWithMockBusinessAPI builds an App around the mock with a fixed clock
func setupTestAppWithMockBusinessAPI(t *testing.T, mock *mockBusinessAPI) (*App, *bytes.Buffer) {
	t.Helper()

	original := timeNow
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() { timeNow = original })

	out := &bytes.Buffer{}
	app := NewApp(mock, testConfig(), out, logging.Discard())
	app.openBrowser = func(url string) error { return nil }
	return app, out
}

func todayAt(hour, minute int) time.Time {
	return time.Date(2024, 3, 13, hour, minute, 0, 0, time.UTC)
}

func stoppedEntry(id int64, description string, start, stop time.Time) domain.TimeEntry {
	entry := domain.NewTimeEntry(description, start).WithStop(stop)
	entry.ID = id
	return entry
}

func runningEntry(id int64, description string, start time.Time) domain.TimeEntry {
	entry := domain.NewTimeEntry(description, start)
	entry.ID = id
	return entry
}

func projectID(id int64) *int64 {
	return &id
}
