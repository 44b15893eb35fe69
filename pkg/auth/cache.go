package auth

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/curatorhq/curator/pkg/rbac"
)

// CachedPrincipal is a cache entry: the resolved principal together with
// the owning session's expiry. Resolve must never honor an entry past that
// expiry, no matter how long the cache itself keeps it.
type CachedPrincipal struct {
	Principal rbac.Principal `json:"principal"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// PrincipalCache is an optional read-through cache in front of Resolve.
// Implementations MUST be invalidated on logout, password change, and
// deactivation; a cache that outlives those events serves stale
// authorization decisions. Entries additionally carry a short TTL (well
// below the session TTL) to bound staleness from any path the service
// misses.
type PrincipalCache interface {
	Get(ctx context.Context, tokenHash string) (CachedPrincipal, bool)
	Put(ctx context.Context, tokenHash string, entry CachedPrincipal)
	Invalidate(ctx context.Context, tokenHash string)
	InvalidateUser(ctx context.Context, userID int64)
}

// DefaultCacheTTL bounds how long a cached principal may be served without
// rechecking the store.
const DefaultCacheTTL = 30 * time.Second

// LRUCache is an in-process PrincipalCache backed by an expirable LRU.
// Suitable for single-instance deployments; multi-instance deployments
// should use RedisCache so invalidations reach every instance.
type LRUCache struct {
	lru *expirable.LRU[string, CachedPrincipal]
}

// NewLRUCache creates an LRUCache holding up to size entries, each expiring
// after ttl.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LRUCache{lru: expirable.NewLRU[string, CachedPrincipal](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, tokenHash string) (CachedPrincipal, bool) {
	return c.lru.Get(tokenHash)
}

func (c *LRUCache) Put(_ context.Context, tokenHash string, entry CachedPrincipal) {
	c.lru.Add(tokenHash, entry)
}

func (c *LRUCache) Invalidate(_ context.Context, tokenHash string) {
	c.lru.Remove(tokenHash)
}

// InvalidateUser drops every cached principal for a user. The cache is
// small and short-lived, so a scan is acceptable here.
func (c *LRUCache) InvalidateUser(_ context.Context, userID int64) {
	for _, key := range c.lru.Keys() {
		if e, ok := c.lru.Peek(key); ok && e.Principal.UserID == userID {
			c.lru.Remove(key)
		}
	}
}
