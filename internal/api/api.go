package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"indicator-toggl/internal/cache"
	"indicator-toggl/internal/config"
	"indicator-toggl/internal/domain"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/repository/sqlite"
	"indicator-toggl/internal/services"
	"indicator-toggl/internal/toggl"
	"indicator-toggl/internal/validation"
)

// Remote is everything the business layer needs from the service.
// Satisfied by *toggl.Client.
type Remote interface {
	services.TimeEntryRemote
	CurrentTimeEntry(ctx context.Context) (*domain.TimeEntry, error)
	Me(ctx context.Context) (domain.User, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListWorkspaceUsers(ctx context.Context, workspaceID int64) ([]domain.User, error)
}

// Option configures the business API.
type Option func(*businessAPIImpl)

// WithClock replaces time.Now for every component built by New.
func WithClock(now func() time.Time) Option {
	return func(b *businessAPIImpl) { b.now = now }
}

// WithSnapshotStore persists reference lists in store for the configured cache TTL.
func WithSnapshotStore(store *sqlite.Store) Option {
	return func(b *businessAPIImpl) { b.store = store }
}

// New builds the business API on top of the real service client, opening the
// reference cache database when the configuration enables it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (BusinessAPI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := toggl.NewClient(cfg.BaseURL, cfg.APIToken, cfg.Timeout, logger)

	store, err := config.OpenSnapshotStore(ctx, cfg, logger)
	if err != nil {
		// carry on without the snapshot store
		logger.Warn("reference cache disabled", "path", cfg.Cache.Path, "error", err)
		store = nil
	}
	if store != nil {
		opts = append([]Option{WithSnapshotStore(store)}, opts...)
	}
	return NewWithRemote(client, cfg, logger, opts...), nil
}

// NewWithRemote wires caches, entry services and the entry list around remote.
func NewWithRemote(remote Remote, cfg *config.Config, logger *slog.Logger, opts ...Option) BusinessAPI {
	b := &businessAPIImpl{
		remote: remote,
		config: cfg,
		log:    logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.projects = cache.New[domain.Project]("projects", remote.ListProjects, cacheOptions[domain.Project](b, projectsSnapshot(b.store))...)
	b.clients = cache.New[domain.Client]("clients", remote.ListClients, cacheOptions[domain.Client](b, clientsSnapshot(b.store))...)
	b.users = cache.New[domain.User]("users", b.fetchUsers, cacheOptions[domain.User](b, usersSnapshot(b.store))...)

	limits := validation.NewTimeEntryValidatorWithLimits(validation.Limits{
		DescriptionMaxLength: cfg.Limits.DescriptionMaxLength,
		MaxDuration:          cfg.Limits.MaxEntryDuration,
	})
	b.entries = services.NewEntryService(remote, b.projects, b.workspaceID, logger,
		services.WithClock(b.now), services.WithValidator(limits))
	b.list = services.NewTimeEntryList(remote, func() domain.SearchOptions {
		return domain.LastDays(b.now(), cfg.ListDays)
	}, logger)
	return b
}

func cacheOptions[T domain.Named](b *businessAPIImpl, snapshot cache.Snapshot[T]) []cache.Option[T] {
	opts := []cache.Option[T]{
		cache.WithLogger[T](b.log),
		cache.WithClock[T](b.now),
	}
	if snapshot != nil {
		opts = append(opts, cache.WithSnapshot(snapshot, b.config.Cache.TTL))
	}
	return opts
}

func projectsSnapshot(store *sqlite.Store) cache.Snapshot[domain.Project] {
	if store == nil {
		return nil
	}
	return store.Projects()
}

func clientsSnapshot(store *sqlite.Store) cache.Snapshot[domain.Client] {
	if store == nil {
		return nil
	}
	return store.Clients()
}

func usersSnapshot(store *sqlite.Store) cache.Snapshot[domain.User] {
	if store == nil {
		return nil
	}
	return store.Users()
}

// workspace resolution: configured id, otherwise the account default (asked once)
type workspaceResolver struct {
	mu  sync.Mutex
	id  int64
	set bool
}

func (b *businessAPIImpl) workspaceID(ctx context.Context) (int64, error) {
	if b.config.WorkspaceID > 0 {
		return b.config.WorkspaceID, nil
	}

	b.workspace.mu.Lock()
	defer b.workspace.mu.Unlock()
	if b.workspace.set {
		return b.workspace.id, nil
	}

	me, err := b.remote.Me(ctx)
	if err != nil {
		return 0, err
	}
	if me.DefaultWorkspaceID == 0 {
		return 0, errors.NewConsistencyError("the account has no default workspace, set workspace_id in the configuration")
	}
	b.workspace.id = me.DefaultWorkspaceID
	b.workspace.set = true
	b.log.Debug("resolved default workspace", "workspace_id", me.DefaultWorkspaceID)
	return b.workspace.id, nil
}

func (b *businessAPIImpl) fetchUsers(ctx context.Context) ([]domain.User, error) {
	wid, err := b.workspaceID(ctx)
	if err != nil {
		return nil, err
	}
	return b.remote.ListWorkspaceUsers(ctx, wid)
}
