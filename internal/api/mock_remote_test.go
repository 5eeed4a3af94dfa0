package api

import (
	"context"

	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
)

// mockRemote is an in-memory stand-in for the Toggl service
type mockRemote struct {
	entries  []domain.TimeEntry
	projects []domain.Project
	clients  []domain.Client
	users    map[int64][]domain.User
	me       domain.User
	nextID   int64

	listErr    error
	deleteErr  error
	currentErr error

	meCalls      int
	listCalls    int
	currentCalls int
	projectCalls int
	userCalls    int
	deletedWIDs  []int64
	createdWIDs  []int64
}

func newMockRemote() *mockRemote {
	return &mockRemote{
		nextID: 100,
		me:     domain.User{ID: 1, Name: "Ada", DefaultWorkspaceID: 11},
		users:  map[int64][]domain.User{},
	}
}

func (m *mockRemote) Me(ctx context.Context) (domain.User, error) {
	m.meCalls++
	return m.me, nil
}

func (m *mockRemote) ListTimeEntries(ctx context.Context, opts domain.SearchOptions) ([]domain.TimeEntry, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.TimeEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *mockRemote) CurrentTimeEntry(ctx context.Context) (*domain.TimeEntry, error) {
	m.currentCalls++
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	running := m.running()
	if len(running) == 0 {
		return nil, nil
	}
	return &running[0], nil
}

func (m *mockRemote) CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	m.nextID++
	entry.ID = m.nextID
	m.createdWIDs = append(m.createdWIDs, entry.WorkspaceID)
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *mockRemote) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == entry.ID {
			m.entries[i] = entry
			return entry, nil
		}
	}
	return domain.TimeEntry{}, errors.NewRemoteError("update time entry", 404, "")
}

func (m *mockRemote) DeleteTimeEntry(ctx context.Context, workspaceID, id int64) error {
	m.deletedWIDs = append(m.deletedWIDs, workspaceID)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return errors.NewRemoteError("delete time entry", 404, "")
}

func (m *mockRemote) ListProjects(ctx context.Context) ([]domain.Project, error) {
	m.projectCalls++
	return m.projects, nil
}

func (m *mockRemote) ListClients(ctx context.Context) ([]domain.Client, error) {
	return m.clients, nil
}

func (m *mockRemote) ListWorkspaceUsers(ctx context.Context, workspaceID int64) ([]domain.User, error) {
	m.userCalls++
	return m.users[workspaceID], nil
}

func (m *mockRemote) running() []domain.TimeEntry {
	var out []domain.TimeEntry
	for _, entry := range m.entries {
		if entry.IsRunning() {
			out = append(out, entry)
		}
	}
	return out
}
