package console

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/dto"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/mockapi"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/mutation"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer, *httptest.Server) {
	t.Helper()

	mockCfg := config.MockConfig{JWTSecret: "test_secret", TokenTTL: time.Hour}
	ts := httptest.NewServer(mockapi.NewServer(mockCfg, mockapi.SeedFixtures(), nil, nil).Handler())
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		Env: config.EnvDevelopment,
		API: config.APIConfig{
			BaseURL:   ts.URL + "/api/v1",
			Timeout:   5 * time.Second,
			TokenFile: filepath.Join(t.TempDir(), "token"),
		},
		Cache: config.CacheConfig{MaxAge: time.Minute, Retention: 5 * time.Minute, MaxIdleEntries: 64},
	}

	app, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	out := &bytes.Buffer{}
	app.out = out

	require.NoError(t, app.login(context.Background(), "admin", "water123"))
	return app, out, ts
}

func TestAwaitSettlesWithCollection(t *testing.T) {
	app, _, _ := newTestApp(t)

	view, err := app.await(context.Background(),
		app.stores.Connections.Key("", ""),
		app.stores.Connections.Fetch("", ""),
		app.stores.Connections.Restore())
	require.NoError(t, err)

	conns := items[models.Connection](view)
	assert.Len(t, conns, 4)
}

func TestZoneFiltersGetDistinctCacheEntries(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	zone1, err := app.await(ctx,
		app.stores.Connections.Key("", "zone-1"),
		app.stores.Connections.Fetch("", "zone-1"),
		app.stores.Connections.Restore())
	require.NoError(t, err)

	zone2, err := app.await(ctx,
		app.stores.Connections.Key("", "zone-2"),
		app.stores.Connections.Fetch("", "zone-2"),
		app.stores.Connections.Restore())
	require.NoError(t, err)

	require.Len(t, items[models.Connection](zone1), 2)
	require.Len(t, items[models.Connection](zone2), 1)
	for _, conn := range items[models.Connection](zone1) {
		assert.Equal(t, "zone-1", conn.Zone)
	}
	for _, conn := range items[models.Connection](zone2) {
		assert.Equal(t, "zone-2", conn.Zone, "zone-2 consumer must not see the zone-1 entry")
	}
}

func TestMutationInvalidatesCachedList(t *testing.T) {
	app, out, _ := newTestApp(t)
	ctx := context.Background()

	key := app.stores.Connections.Key("pending", "")
	fetch := app.stores.Connections.Fetch("pending", "")
	restore := app.stores.Connections.Restore()

	view, err := app.await(ctx, key, fetch, restore)
	require.NoError(t, err)
	require.Len(t, items[models.Connection](view), 2)

	_, err = app.exec.Execute(ctx, mutation.ApproveConnection(app.stores), "con-002",
		dto.ApproveRequest{ID: "con-002"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[success] Approve connection")

	// The pending list was invalidated, so the next await refetches.
	view, err = app.await(ctx, key, fetch, restore)
	require.NoError(t, err)
	assert.Len(t, items[models.Connection](view), 1)
}

func TestMutationErrorSurfacesBackendMessage(t *testing.T) {
	app, out, _ := newTestApp(t)

	_, err := app.exec.Execute(context.Background(), mutation.ApproveConnection(app.stores), "con-001",
		dto.ApproveRequest{ID: "con-001"})
	require.Error(t, err)
	assert.Contains(t, out.String(), "only pending connections can be approved")
}

func TestRefreshFailureKeepsCachedRows(t *testing.T) {
	app, out, ts := newTestApp(t)
	ctx := context.Background()

	key := app.stores.Connections.Key("", "")
	fetch := app.stores.Connections.Fetch("", "")
	restore := app.stores.Connections.Restore()

	view, err := app.await(ctx, key, fetch, restore)
	require.NoError(t, err)
	require.Len(t, items[models.Connection](view), 4)

	// Backend goes away; the forced refetch fails but the cached rows stay.
	ts.Close()
	app.queries.Invalidate(query.K("connections"))

	view, err = app.await(ctx, key, fetch, restore)
	require.Error(t, err)
	assert.Len(t, items[models.Connection](view), 4, "error view retains the previous rows")

	require.True(t, app.staleFallback(view, err))
	assert.Contains(t, out.String(), "showing cached data")
}
