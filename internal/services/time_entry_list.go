package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/validation"
)

// timeEntryListImpl implements the TimeEntryList interface
type timeEntryListImpl struct {
	remote    TimeEntryRemote
	window    func() domain.SearchOptions
	validator *validation.TimeEntryValidator
	log       *slog.Logger
	entries   []domain.TimeEntry
	loaded    bool
}

// NewTimeEntryList creates an empty list. window is evaluated on every Reload.
func NewTimeEntryList(remote TimeEntryRemote, window func() domain.SearchOptions, log *slog.Logger) TimeEntryList {
	return &timeEntryListImpl{
		remote:    remote,
		window:    window,
		validator: validation.NewTimeEntryValidator(),
		log:       log,
	}
}

// Reload replaces the cached entries. On failure the previous entries are kept.
func (l *timeEntryListImpl) Reload(ctx context.Context) error {
	opts := l.window()
	if err := l.validator.ValidateSearchOptions(opts); err != nil {
		return validation.ToAppError(err)
	}
	entries, err := l.remote.ListTimeEntries(ctx, opts)
	if err != nil {
		return err
	}
	sortNewestFirst(entries)
	l.entries = entries
	l.loaded = true
	l.log.Debug("reloaded time entries", "count", len(entries))
	return nil
}

// Loaded reports whether Reload has succeeded at least once
func (l *timeEntryListImpl) Loaded() bool {
	return l.loaded
}

// Entries returns a copy of the cached entries, newest first
func (l *timeEntryListImpl) Entries() []domain.TimeEntry {
	out := make([]domain.TimeEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Now returns the single running entry
func (l *timeEntryListImpl) Now() (*domain.TimeEntry, error) {
	var running []domain.TimeEntry
	for _, entry := range l.entries {
		if entry.IsRunning() {
			running = append(running, entry)
		}
	}

	switch len(running) {
	case 0:
		return nil, nil
	case 1:
		return &running[0], nil
	default:
		ids := make([]int64, len(running))
		for i, entry := range running {
			ids[i] = entry.ID
		}
		return nil, errors.NewConsistencyError(fmt.Sprintf("%d time entries are running at once", len(running))).
			WithContext("ids", ids)
	}
}

// FindByDescription returns the most recent entry with exactly this description
func (l *timeEntryListImpl) FindByDescription(description string) (*domain.TimeEntry, bool) {
	for i := range l.entries {
		if l.entries[i].Description == description {
			entry := l.entries[i]
			return &entry, true
		}
	}
	return nil, false
}

// FindByID returns the entry with the given id
func (l *timeEntryListImpl) FindByID(id int64) (*domain.TimeEntry, bool) {
	for i := range l.entries {
		if l.entries[i].ID == id {
			entry := l.entries[i]
			return &entry, true
		}
	}
	return nil, false
}

// Put records an entry created or changed by this process, replacing one with the same id
func (l *timeEntryListImpl) Put(entry domain.TimeEntry) {
	for i := range l.entries {
		if l.entries[i].ID == entry.ID {
			l.entries[i] = entry
			sortNewestFirst(l.entries)
			return
		}
	}
	l.entries = append(l.entries, entry)
	sortNewestFirst(l.entries)
}

// Remove drops the entry with the given id from the cache
func (l *timeEntryListImpl) Remove(id int64) bool {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func sortNewestFirst(entries []domain.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.After(entries[j].Start)
	})
}
