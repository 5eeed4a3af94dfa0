package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"indicator-toggl/internal/cache"
	"indicator-toggl/internal/config"
	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/repository/sqlite"
	"indicator-toggl/internal/services"
)

// EntryView is a time entry with its project name resolved for display
type EntryView struct {
	Entry   domain.TimeEntry `json:"entry"`
	Project string           `json:"project,omitempty"`
}

// Description returns the entry description
func (v EntryView) Description() string {
	return v.Entry.Description
}

// StartResult describes a start or continue: the new running entry and the
// one that had to be stopped to make room for it, if any
type StartResult struct {
	Started EntryView  `json:"started"`
	Stopped *EntryView `json:"stopped,omitempty"`
}

// BusinessAPI is the set of workflows behind the command line
type BusinessAPI interface {
	// ========== Time Entry Workflows ==========

	// StartEntry stops the running entry, if any, and starts a new one
	StartEntry(ctx context.Context, params services.EntryParams) (*StartResult, error)

	// ContinueEntry starts a new entry copying the most recent one with this description
	ContinueEntry(ctx context.Context, description string) (*StartResult, error)

	// StopRunning stops the running entry at the given instant (now when nil).
	// It returns nil without error when nothing is running.
	StopRunning(ctx context.Context, at *time.Time) (*EntryView, error)

	// AddEntry submits a completed entry
	AddEntry(ctx context.Context, params services.EntryParams) (*EntryView, error)

	// DeleteEntry removes an entry by id
	DeleteEntry(ctx context.Context, id int64) (*EntryView, error)

	// ========== Query Operations ==========

	// ListEntries returns the recent entries, newest first
	ListEntries(ctx context.Context) ([]EntryView, error)

	// Current returns the running entry, or nil when idle
	Current(ctx context.Context) (*EntryView, error)

	// PollCurrent asks the service for the running entry alone, leaving the
	// entry list untouched
	PollCurrent(ctx context.Context) (*EntryView, error)

	// ========== Reference Lists ==========

	Projects(ctx context.Context) ([]domain.Project, error)
	Clients(ctx context.Context) ([]domain.Client, error)
	Users(ctx context.Context) ([]domain.User, error)

	// ReloadReferences drops the memoized and stored reference lists
	ReloadReferences(ctx context.Context) error

	// WebURL is the address of the web timer
	WebURL() string

	Close() error
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	remote    Remote
	config    *config.Config
	log       *slog.Logger
	now       func() time.Time
	store     *sqlite.Store
	workspace workspaceResolver

	projects *cache.Cache[domain.Project]
	clients  *cache.Cache[domain.Client]
	users    *cache.Cache[domain.User]
	entries  services.EntryService
	list     services.TimeEntryList
}

// ========== Time Entry Workflows ==========

func (b *businessAPIImpl) StartEntry(ctx context.Context, params services.EntryParams) (*StartResult, error) {
	// Build and check the entry first so a rejected start never stops the running one
	entry, err := b.entries.NewEntry(ctx, params)
	if err != nil {
		return nil, err
	}
	if !entry.IsRunning() {
		return nil, errors.NewValidationError("a started entry cannot have an end time or duration", nil)
	}
	if _, err := b.entries.PrepareStart(ctx, entry); err != nil {
		return nil, err
	}

	return b.startAfterStopping(ctx, entry.Start, func() (domain.TimeEntry, error) {
		if err := b.entries.Start(ctx, &entry); err != nil {
			return domain.TimeEntry{}, err
		}
		return entry, nil
	})
}

func (b *businessAPIImpl) ContinueEntry(ctx context.Context, description string) (*StartResult, error) {
	if err := b.list.Reload(ctx); err != nil {
		return nil, err
	}

	previous, ok := b.list.FindByDescription(description)
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("no recent time entry named %q", description), nil)
	}
	if previous.IsRunning() {
		return nil, errors.NewValidationError(fmt.Sprintf("%q is already running", description), nil).
			WithContext("id", previous.ID)
	}

	next, err := b.entries.PrepareStart(ctx, previous.Continued(b.now()))
	if err != nil {
		return nil, err
	}

	return b.startAfterStopping(ctx, next.Start, func() (domain.TimeEntry, error) {
		return b.entries.Continue(ctx, *previous)
	})
}

// startAfterStopping keeps at most one entry running: the current one is
// stopped at the new start before start is called
func (b *businessAPIImpl) startAfterStopping(ctx context.Context, at time.Time, start func() (domain.TimeEntry, error)) (*StartResult, error) {
	stopped, err := b.stopCurrent(ctx, at)
	if err != nil {
		return nil, err
	}

	started, err := start()
	if err != nil {
		return nil, err
	}
	b.list.Put(started)

	view, err := b.view(ctx, started)
	if err != nil {
		return nil, err
	}
	return &StartResult{Started: view, Stopped: stopped}, nil
}

func (b *businessAPIImpl) StopRunning(ctx context.Context, at *time.Time) (*EntryView, error) {
	stopAt := b.now()
	if at != nil {
		stopAt = *at
	}
	return b.stopCurrent(ctx, stopAt)
}

func (b *businessAPIImpl) stopCurrent(ctx context.Context, at time.Time) (*EntryView, error) {
	if err := b.list.Reload(ctx); err != nil {
		return nil, err
	}
	running, err := b.list.Now()
	if err != nil {
		return nil, err
	}
	if running == nil {
		return nil, nil
	}

	entry := *running
	if err := b.entries.Stop(ctx, &entry, at); err != nil {
		return nil, err
	}
	b.list.Put(entry)

	view, err := b.view(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (b *businessAPIImpl) AddEntry(ctx context.Context, params services.EntryParams) (*EntryView, error) {
	entry, err := b.entries.NewEntry(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := b.entries.Add(ctx, &entry); err != nil {
		return nil, err
	}
	b.list.Put(entry)

	view, err := b.view(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (b *businessAPIImpl) DeleteEntry(ctx context.Context, id int64) (*EntryView, error) {
	if err := b.list.Reload(ctx); err != nil {
		return nil, err
	}

	// entries older than the list window are still deletable by id
	entry := domain.TimeEntry{ID: id}
	if known, ok := b.list.FindByID(id); ok {
		entry = *known
	}

	if err := b.entries.Delete(ctx, entry); err != nil {
		if errors.IsNotFound(err) {
			// deleted elsewhere since the list was fetched
			b.list.Remove(id)
			return nil, errors.NewEntryNotFoundError(id, err)
		}
		return nil, err
	}
	b.list.Remove(id)

	view, err := b.view(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ========== Query Operations ==========

func (b *businessAPIImpl) ListEntries(ctx context.Context) ([]EntryView, error) {
	if err := b.list.Reload(ctx); err != nil {
		return nil, err
	}

	entries := b.list.Entries()
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		view, err := b.view(ctx, entry)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (b *businessAPIImpl) Current(ctx context.Context) (*EntryView, error) {
	if err := b.list.Reload(ctx); err != nil {
		return nil, err
	}
	running, err := b.list.Now()
	if err != nil || running == nil {
		return nil, err
	}

	view, err := b.view(ctx, *running)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (b *businessAPIImpl) PollCurrent(ctx context.Context) (*EntryView, error) {
	running, err := b.remote.CurrentTimeEntry(ctx)
	if err != nil || running == nil {
		return nil, err
	}

	view, err := b.view(ctx, *running)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ========== Reference Lists ==========

func (b *businessAPIImpl) Projects(ctx context.Context) ([]domain.Project, error) {
	return b.projects.List(ctx)
}

func (b *businessAPIImpl) Clients(ctx context.Context) ([]domain.Client, error) {
	return b.clients.List(ctx)
}

func (b *businessAPIImpl) Users(ctx context.Context) ([]domain.User, error) {
	return b.users.List(ctx)
}

func (b *businessAPIImpl) ReloadReferences(ctx context.Context) error {
	b.projects.Invalidate()
	b.clients.Invalidate()
	b.users.Invalidate()
	if b.store != nil {
		if err := b.store.ClearAll(ctx); err != nil {
			return err
		}
	}
	b.log.Info("reference lists invalidated")
	return nil
}

func (b *businessAPIImpl) WebURL() string {
	return b.config.WebURL
}

func (b *businessAPIImpl) Close() error {
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}

// view resolves the project name of an entry through the projects cache
func (b *businessAPIImpl) view(ctx context.Context, entry domain.TimeEntry) (EntryView, error) {
	view := EntryView{Entry: entry}
	if !entry.HasProject() {
		return view, nil
	}
	project, ok, err := b.projects.FindByID(ctx, *entry.ProjectID)
	if err != nil {
		return EntryView{}, err
	}
	if ok {
		view.Project = project.Name
	}
	return view, nil
}
