package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/api"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/events"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/mutation"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/metrics"
)

// App wires the sync layer for the terminal console: one query store, one
// mutation executor and one event bus shared by every command.
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	bus       *events.Bus
	queries   *query.Store
	stores    *api.Stores
	exec      *mutation.Executor
	metrics   *metrics.Service
	snapshots *query.RedisSnapshotStore
	out       io.Writer
}

// NewApp assembles the console against the configured backend.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	metricsService := metrics.NewService()
	bus := events.NewBus(logger)

	var snapshots *query.RedisSnapshotStore
	var snapshotStore query.SnapshotStore
	if cfg.Snapshot.Enabled {
		store, err := query.NewRedisSnapshotStore(cfg.Snapshot, logger)
		if err != nil {
			// Warm-start is an optimization; a cold cache still works.
			logger.Warn("snapshot store unavailable, starting cold", zap.Error(err))
		} else {
			snapshots = store
			snapshotStore = store
		}
	}

	queries := query.NewStore(query.StoreConfig{
		MaxAge:         cfg.Cache.MaxAge,
		Retention:      cfg.Cache.Retention,
		MaxIdleEntries: cfg.Cache.MaxIdleEntries,
		FetchTimeout:   cfg.API.Timeout,
		Snapshots:      snapshotStore,
		Logger:         logger,
		Metrics:        metricsService,
	})

	client := api.NewClient(cfg.API, api.FileTokenSource{Path: cfg.API.TokenFile}, logger)
	stores := api.NewStores(client)

	exec := mutation.NewExecutor(mutation.ExecutorParams{
		Queries: queries,
		Bus:     bus,
		Logger:  logger,
		Metrics: metricsService,
	})

	app := &App{
		cfg:       cfg,
		logger:    logger,
		bus:       bus,
		queries:   queries,
		stores:    stores,
		exec:      exec,
		metrics:   metricsService,
		snapshots: snapshots,
		out:       os.Stdout,
	}

	bus.Subscribe(events.EventNotify, func(e events.Event) {
		if n, ok := e.Payload.(events.Notification); ok {
			fmt.Fprintf(app.out, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
		}
	})

	return app, nil
}

// Close releases held connections.
func (a *App) Close() {
	if a.snapshots != nil {
		_ = a.snapshots.Close()
	}
}

// await subscribes to a key and blocks until the entry settles: a fresh
// success, or an error. Stale data served from cache or snapshot is skipped
// over while its revalidation runs.
func (a *App) await(ctx context.Context, key query.Key, fetch query.Fetcher, restore query.Restorer) (query.View, error) {
	updates := make(chan query.View, 8)
	sub := a.queries.Subscribe(key, fetch, func(v query.View) {
		select {
		case updates <- v:
		default:
		}
	}, query.SubscribeOptions{Restore: restore})
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return sub.Current(), ctx.Err()
		case v := <-updates:
			if v.Status == query.StatusError {
				return v, v.Err
			}
			if v.Status == query.StatusSuccess && !v.Stale {
				return v, nil
			}
		}
	}
}

// staleFallback reports whether a failed refresh left cached rows worth
// rendering. When it does, a notice marks the rows as not live before the
// caller prints them.
func (a *App) staleFallback(view query.View, err error) bool {
	if err == nil || view.Data == nil {
		return false
	}
	if view.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "refresh failed (%v); showing cached data\n", err)
	} else {
		fmt.Fprintf(a.out, "refresh failed (%v); showing cached data from %s\n",
			err, view.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return true
}

// items extracts the typed collection from a settled view.
func items[T any](view query.View) []T {
	rs, ok := view.Data.(api.ResultSet[T])
	if !ok {
		return nil
	}
	return rs.Items
}

// login authenticates against the backend and writes the bearer token where
// the file token source reads it.
func (a *App) login(ctx context.Context, username, password string) error {
	// The login call itself carries no token.
	anon := api.NewClient(a.cfg.API, nil, a.logger)
	raw, err := anon.Do(ctx, "POST", "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Token == "" {
		return appErrors.Clone(appErrors.ErrServer, "login response had no token")
	}
	if err := os.WriteFile(a.cfg.API.TokenFile, []byte(body.Token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
