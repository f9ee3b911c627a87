package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chargegrid/internal/scope"
)

// ScopeCache keeps resolved permission scopes in redis so the per-request
// store lookups are skipped for hot users. Entries expire after ttl and are
// invalidated explicitly whenever assignments change.
type ScopeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScopeCache returns a redis-backed scope cache.
func NewScopeCache(client *redis.Client, ttl time.Duration) *ScopeCache {
	return &ScopeCache{client: client, ttl: ttl}
}

func (c *ScopeCache) key(userID int64) string {
	return fmt.Sprintf("scope:user:%d", userID)
}

// Get returns the cached scope or scope.ErrCacheMiss.
func (c *ScopeCache) Get(ctx context.Context, userID int64) (scope.Scope, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return scope.Scope{}, scope.ErrCacheMiss
		}
		return scope.Scope{}, err
	}
	var sc scope.Scope
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return scope.Scope{}, err
	}
	return sc, nil
}

// Save caches a resolved scope.
func (c *ScopeCache) Save(ctx context.Context, userID int64, sc scope.Scope) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

// Invalidate drops the cached scope for a user.
func (c *ScopeCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
