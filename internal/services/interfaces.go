package services

import (
	"context"
	"time"

	"indicator-toggl/internal/domain"
)

// TimeEntryRemote is the part of the service API the entry services need.
type TimeEntryRemote interface {
	ListTimeEntries(ctx context.Context, opts domain.SearchOptions) ([]domain.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, workspaceID, id int64) error
}

// ProjectLookup resolves @project tokens. Satisfied by *cache.Cache[domain.Project].
type ProjectLookup interface {
	FindByName(ctx context.Context, name string) (domain.Project, bool, error)
}

// WorkspaceFunc returns the workspace new entries go to when no project decides it.
type WorkspaceFunc func(ctx context.Context) (int64, error)

// EntryParams describes an entry as typed on the command line. Stop and
// Duration are mutually exclusive; a nil Start means now.
type EntryParams struct {
	Description string
	Project     string
	Tags        []string
	Start       *time.Time
	Stop        *time.Time
	Duration    *int64
}

// EntryService handles the lifecycle of single time entries
type EntryService interface {
	// NewEntry builds an unsaved entry, resolving the project by name
	NewEntry(ctx context.Context, params EntryParams) (domain.TimeEntry, error)

	// PrepareStart validates an unsaved entry and resolves its workspace
	PrepareStart(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
	// Start creates a running entry remotely; the id is set only on success
	Start(ctx context.Context, entry *domain.TimeEntry) error
	// Stop ends the running entry at the given instant
	Stop(ctx context.Context, entry *domain.TimeEntry, at time.Time) error
	// Continue starts a new entry carrying over the metadata of an old one
	Continue(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
	// Add submits a completed entry after the fact
	Add(ctx context.Context, entry *domain.TimeEntry) error
	// Delete removes a saved entry
	Delete(ctx context.Context, entry domain.TimeEntry) error
}

// TimeEntryList holds the recent entries, newest first
type TimeEntryList interface {
	Reload(ctx context.Context) error
	Loaded() bool
	Entries() []domain.TimeEntry

	// Now returns the running entry, nil when idle, and a consistency error
	// when the service reports more than one
	Now() (*domain.TimeEntry, error)
	FindByDescription(description string) (*domain.TimeEntry, bool)
	FindByID(id int64) (*domain.TimeEntry, bool)

	Put(entry domain.TimeEntry)
	Remove(id int64) bool
}
