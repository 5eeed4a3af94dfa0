// Package cache memoizes the reference lists fetched from the service.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"indicator-toggl/internal/domain"
)

// Fetcher retrieves a complete list from the service.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Snapshot persists a list between process runs.
type Snapshot[T any] interface {
	Load(ctx context.Context) ([]T, time.Time, error)
	Save(ctx context.Context, items []T, fetchedAt time.Time) error
	Clear(ctx context.Context) error
}

// Cache is a lazily fetched list. The first List call performs exactly one
// fetch; later calls reuse the result until Invalidate or Reload. Failed
// fetches are not memoized and are not retried.
type Cache[T domain.Named] struct {
	name     string
	fetch    Fetcher[T]
	snapshot Snapshot[T]
	ttl      time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	items  []T
	loaded bool
	// set by Invalidate so the next load goes to the service
	bypassSnapshot bool
}

// Option configures a Cache.
type Option[T domain.Named] func(*Cache[T])

// WithSnapshot persists fetched lists and reuses them while younger than ttl.
func WithSnapshot[T domain.Named](snapshot Snapshot[T], ttl time.Duration) Option[T] {
	return func(c *Cache[T]) {
		c.snapshot = snapshot
		c.ttl = ttl
	}
}

// WithLogger sets the logger.
func WithLogger[T domain.Named](log *slog.Logger) Option[T] {
	return func(c *Cache[T]) { c.log = log }
}

// WithClock replaces time.Now.
func WithClock[T domain.Named](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.now = now }
}

// New creates an empty cache named for log output.
func New[T domain.Named](name string, fetch Fetcher[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		name:  name,
		fetch: fetch,
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the list name.
func (c *Cache[T]) Name() string {
	return c.name
}

// List returns the memoized list, loading it on first use.
func (c *Cache[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return c.items, nil
}

// FindByName returns the first item whose name matches exactly (case-sensitive).
// Absence is reported through the bool, never as an error.
func (c *Cache[T]) FindByName(ctx context.Context, name string) (T, bool, error) {
	return c.find(ctx, func(item T) bool { return item.GetName() == name })
}

// FindByID returns the item with the given id.
func (c *Cache[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	return c.find(ctx, func(item T) bool { return item.GetID() == id })
}

// Names returns the names in list order.
func (c *Cache[T]) Names(ctx context.Context) ([]string, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.GetName()
	}
	return names, nil
}

// Invalidate drops the memoized list. The next access fetches from the service.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.loaded = false
	c.bypassSnapshot = true
}

// Reload fetches the list again right away.
func (c *Cache[T]) Reload(ctx context.Context) ([]T, error) {
	c.Invalidate()
	return c.List(ctx)
}

// Loaded reports whether the list is currently memoized.
func (c *Cache[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Cache[T]) find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if match(item) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

func (c *Cache[T]) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	if c.snapshot != nil && c.ttl > 0 && !c.bypassSnapshot {
		items, fetchedAt, err := c.snapshot.Load(ctx)
		switch {
		case err != nil:
			c.log.Debug("snapshot unavailable", "list", c.name, "error", err)
		case c.now().Sub(fetchedAt) < c.ttl:
			c.log.Debug("using snapshot", "list", c.name, "count", len(items), "fetched_at", fetchedAt)
			c.items, c.loaded = items, true
			return nil
		default:
			c.log.Debug("snapshot expired", "list", c.name, "fetched_at", fetchedAt)
		}
	}

	items, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	c.log.Debug("fetched list", "list", c.name, "count", len(items))
	c.items, c.loaded, c.bypassSnapshot = items, true, false

	if c.snapshot != nil && c.ttl > 0 {
		if err := c.snapshot.Save(ctx, items, c.now()); err != nil {
			c.log.Warn("could not store snapshot", "list", c.name, "error", err)
		}
	}
	return nil
}
