package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicator-toggl/internal/logging"
)

func TestOpenSnapshotStore_Disabled(t *testing.T) {
	cfg := validConfig()

	store, err := OpenSnapshotStore(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, store)

	// enabled without a TTL is still off
	cfg.Cache.Enabled = true
	store, err = OpenSnapshotStore(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestOpenSnapshotStore_Enabled(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Hour
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache", "reference.db")

	store, err := OpenSnapshotStore(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.FileExists(t, cfg.Cache.Path)
}
