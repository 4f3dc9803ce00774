package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/types"
)

// CachedStore wraps a Store with a Redis read-through cache for profile
// lookups. Cache failures degrade to the underlying store; writes and counter
// bumps invalidate the cached document.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewCachedStore connects to Redis and wraps the given store. The connection
// is verified up front so a misconfigured cache fails at startup, not on the
// first lookup.
func NewCachedStore(ctx context.Context, inner Store, addr, password string, db, ttlSeconds int, logger logging.Logger) (*CachedStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info("Redis profile cache enabled", "addr", addr, "ttl_seconds", ttlSeconds)
	return &CachedStore{
		inner:  inner,
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		logger: logger,
	}, nil
}

func profileCacheKey(id types.ProfileID) string {
	return "discoverme:profile:" + id.String()
}

// GetProfile serves from the cache when possible and falls through to the
// underlying store otherwise.
func (c *CachedStore) GetProfile(ctx context.Context, id types.ProfileID) (*types.Profile, error) {
	key := profileCacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var p types.Profile
		if jsonErr := json.Unmarshal(data, &p); jsonErr == nil {
			return &p, nil
		}
		// Corrupt entry: drop it and fall through.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "Redis read failed, falling through", "key", key, "error", err)
	}

	p, err := c.inner.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "Redis write failed", "key", key, "error", err)
		}
	}
	return p, nil
}

func (c *CachedStore) invalidate(ctx context.Context, id types.ProfileID) {
	if err := c.client.Del(ctx, profileCacheKey(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "Redis invalidation failed", "profile_id", id, "error", err)
	}
}

// CreateProfile passes through and invalidates the cached document.
func (c *CachedStore) CreateProfile(ctx context.Context, profile *types.Profile) error {
	if err := c.inner.CreateProfile(ctx, profile); err != nil {
		return err
	}
	c.invalidate(ctx, profile.ID)
	return nil
}

// UpdateProfile passes through and invalidates the cached document.
func (c *CachedStore) UpdateProfile(ctx context.Context, profile *types.Profile) error {
	if err := c.inner.UpdateProfile(ctx, profile); err != nil {
		return err
	}
	c.invalidate(ctx, profile.ID)
	return nil
}

// IncrementCounter passes through and invalidates the cached document.
func (c *CachedStore) IncrementCounter(ctx context.Context, id types.ProfileID, counter string) error {
	if err := c.inner.IncrementCounter(ctx, id, counter); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// IncrementProfileViews passes through and invalidates the cached document.
func (c *CachedStore) IncrementProfileViews(ctx context.Context, id types.ProfileID) error {
	if err := c.inner.IncrementProfileViews(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Collection scans always hit the underlying store; only single-profile
// lookups are cached.

func (c *CachedStore) FindProfilesByName(ctx context.Context, substring string) ([]types.Profile, error) {
	return c.inner.FindProfilesByName(ctx, substring)
}

func (c *CachedStore) FindProfilesBySkills(ctx context.Context, names []string, matchAll bool) ([]types.Profile, error) {
	return c.inner.FindProfilesBySkills(ctx, names, matchAll)
}

func (c *CachedStore) ListProfiles(ctx context.Context) ([]types.Profile, error) {
	return c.inner.ListProfiles(ctx)
}

func (c *CachedStore) FindConnectionsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Connection, error) {
	return c.inner.FindConnectionsByOwner(ctx, ownerID)
}

func (c *CachedStore) AddConnection(ctx context.Context, conn *types.Connection) error {
	return c.inner.AddConnection(ctx, conn)
}

func (c *CachedStore) FindRecommendationsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Recommendation, error) {
	return c.inner.FindRecommendationsByOwner(ctx, ownerID)
}

func (c *CachedStore) AddRecommendation(ctx context.Context, rec *types.Recommendation) error {
	return c.inner.AddRecommendation(ctx, rec)
}

// HealthCheck checks both the cache and the underlying store.
func (c *CachedStore) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return c.inner.HealthCheck(ctx)
}

// Close closes the cache connection and the underlying store.
func (c *CachedStore) Close() error {
	cacheErr := c.client.Close()
	storeErr := c.inner.Close()
	if cacheErr != nil {
		return cacheErr
	}
	return storeErr
}
