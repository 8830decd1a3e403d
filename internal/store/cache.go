package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/optiondata/chaincache/internal/model"
)

// latestKey is where the serialized latest snapshot lives in Redis.
const latestKey = "chaincache:latest"

// cacheTTL bounds staleness if the process dies between refreshes.
const cacheTTL = 24 * time.Hour

// CachedStore layers a Redis read cache over another Store. Writes go to
// the inner store first; the cache is updated only after the inner
// append succeeds, so the cache never gets ahead of durable storage. A
// cache miss or a Redis failure falls through to the inner store.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

// NewCachedStore creates a CachedStore. The Redis URL is parsed with
// redis.ParseURL (e.g. "redis://localhost:6379/0").
func NewCachedStore(inner Store, redisURL string, logger *slog.Logger) (*CachedStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{
		inner:  inner,
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

// Append persists via the inner store, then refreshes the cache.
// Cache write failures are logged, never surfaced: durability already
// succeeded.
func (s *CachedStore) Append(ctx context.Context, snap *model.Snapshot) error {
	if err := s.inner.Append(ctx, snap); err != nil {
		return err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("failed to encode snapshot for cache", "err", err)
		return nil
	}
	if err := s.client.Set(ctx, latestKey, payload, cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to update snapshot cache", "err", err)
	}
	return nil
}

// Latest serves from Redis when possible and falls back to the inner
// store on a miss, a Redis failure, or a corrupt cache entry.
func (s *CachedStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	payload, err := s.client.Get(ctx, latestKey).Bytes()
	if err == nil {
		var snap model.Snapshot
		if jsonErr := json.Unmarshal(payload, &snap); jsonErr == nil {
			return &snap, nil
		}
		s.logger.Warn("corrupt snapshot cache entry, falling back to store")
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("snapshot cache read failed, falling back to store", "err", err)
	}

	return s.inner.Latest(ctx)
}

// Close releases the Redis connection.
func (s *CachedStore) Close() error {
	return s.client.Close()
}
