package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

const snapshotPrefix = "agaspay:query:"

// RedisSnapshotStore persists cache entries to Redis so a fresh console run
// can serve stale data immediately while revalidating.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type snapshotPayload struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewRedisSnapshotStore connects to Redis and verifies the connection.
func NewRedisSnapshotStore(cfg config.SnapshotConfig, logger *zap.Logger) (*RedisSnapshotStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &RedisSnapshotStore{client: client, ttl: ttl, logger: logger}, nil
}

// Load retrieves the persisted value and its original fetch time.
func (r *RedisSnapshotStore) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	raw, err := r.client.Get(ctx, snapshotPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, time.Time{}, appErrors.ErrCacheMiss
		}
		return nil, time.Time{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal snapshot for %s: %w", key, err)
	}
	return payload.Value, payload.UpdatedAt, nil
}

// Save stores the value with the configured TTL.
func (r *RedisSnapshotStore) Save(ctx context.Context, key string, value []byte, updatedAt time.Time) error {
	payload, err := json.Marshal(snapshotPayload{Value: value, UpdatedAt: updatedAt})
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", key, err)
	}
	if err := r.client.Set(ctx, snapshotPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisSnapshotStore) Close() error {
	return r.client.Close()
}
