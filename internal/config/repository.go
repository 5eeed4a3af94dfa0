package config

import (
	"context"
	"log/slog"

	"indicator-toggl/internal/repository/sqlite"
)

// OpenSnapshotStore opens the reference cache database when the configuration
// enables it. It returns nil without error when caching is off.
func OpenSnapshotStore(ctx context.Context, config *Config, logger *slog.Logger) (*sqlite.Store, error) {
	if !config.CacheEnabled() {
		return nil, nil
	}
	return sqlite.New(ctx, config.Cache.Path, logger)
}
