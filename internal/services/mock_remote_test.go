package services

import (
	"context"

	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
)

// fakeRemote keeps entries in memory and assigns ids on create.
type fakeRemote struct {
	entries   []domain.TimeEntry
	nextID    int64
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	lastOpts    domain.SearchOptions
	created     []domain.TimeEntry
	updated     []domain.TimeEntry
	deletedWIDs []int64
	listCalls   int
}

func newFakeRemote(entries ...domain.TimeEntry) *fakeRemote {
	return &fakeRemote{entries: entries, nextID: 1000}
}

func (f *fakeRemote) ListTimeEntries(ctx context.Context, opts domain.SearchOptions) ([]domain.TimeEntry, error) {
	f.listCalls++
	f.lastOpts = opts
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.TimeEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeRemote) CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	f.created = append(f.created, entry)
	if f.createErr != nil {
		return domain.TimeEntry{}, f.createErr
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeRemote) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	f.updated = append(f.updated, entry)
	if f.updateErr != nil {
		return domain.TimeEntry{}, f.updateErr
	}
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = entry
			return entry, nil
		}
	}
	return domain.TimeEntry{}, errors.NewRemoteError("update time entry", 404, "")
}

func (f *fakeRemote) DeleteTimeEntry(ctx context.Context, workspaceID, id int64) error {
	f.deletedWIDs = append(f.deletedWIDs, workspaceID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errors.NewRemoteError("delete time entry", 404, "")
}

type fakeProjects map[string]domain.Project

func (p fakeProjects) FindByName(ctx context.Context, name string) (domain.Project, bool, error) {
	project, ok := p[name]
	return project, ok, nil
}
