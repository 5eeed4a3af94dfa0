package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicator-toggl/internal/config"
	"indicator-toggl/internal/logging"
)

func newProjectsServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/projects" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":42,"workspace_id":7,"client_id":null,"name":"blog","active":true}]`)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConfig(baseURL, cachePath string) *config.Config {
	cfg := config.NewConfig()
	cfg.APIToken = "token"
	cfg.BaseURL = baseURL
	cfg.Cache = config.CacheConfig{Enabled: true, TTL: time.Hour, Path: cachePath}
	return cfg
}

func TestNew_PersistsReferenceLists(t *testing.T) {
	srv, hits := newProjectsServer(t)
	cfg := testConfig(srv.URL, filepath.Join(t.TempDir(), "cache", "reference.db"))
	ctx := context.Background()

	first, err := New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	projects, err := first.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "blog", projects[0].Name)
	require.NoError(t, first.Close())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	// a later run reads the stored list
	second, err := New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	defer second.Close()
	projects, err = second.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "blog", projects[0].Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	require.NoError(t, second.ReloadReferences(ctx))
	_, err = second.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestNew_WithoutCache(t *testing.T) {
	srv, hits := newProjectsServer(t)
	cfg := testConfig(srv.URL, "")
	cfg.Cache.Enabled = false
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b, err := New(ctx, cfg, logging.Discard())
		require.NoError(t, err)
		_, err = b.Projects(ctx)
		require.NoError(t, err)
		require.NoError(t, b.Close())
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestNew_UnusableCachePath(t *testing.T) {
	srv, hits := newProjectsServer(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	cfg := testConfig(srv.URL, filepath.Join(blocker, "reference.db"))
	ctx := context.Background()

	b, err := New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()

	_, err := New(context.Background(), cfg, logging.Discard())

	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_token", cfgErr.Field)
}
