package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	redisPrincipalKeyPrefix = "curator:principal:"
	redisUserSetKeyPrefix   = "curator:principal_tokens:"
)

// RedisCache is a PrincipalCache shared across server instances. Alongside
// each principal entry it maintains a per-user set of token hashes so
// InvalidateUser can drop every session of a user without a scan.
//
// Cache failures are never fatal: a miss is returned instead, and the
// caller falls through to the store.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisCache creates a RedisCache with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logrus.New()
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func (c *RedisCache) Get(ctx context.Context, tokenHash string) (CachedPrincipal, bool) {
	data, err := c.client.Get(ctx, redisPrincipalKeyPrefix+tokenHash).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("principal cache read failed")
		}
		return CachedPrincipal{}, false
	}

	var entry CachedPrincipal
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.WithError(err).Warn("principal cache entry is corrupt")
		return CachedPrincipal{}, false
	}
	return entry, true
}

func (c *RedisCache) Put(ctx context.Context, tokenHash string, entry CachedPrincipal) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, redisPrincipalKeyPrefix+tokenHash, data, c.ttl)
	userSet := userSetKey(entry.Principal.UserID)
	pipe.SAdd(ctx, userSet, tokenHash)
	pipe.Expire(ctx, userSet, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WithError(err).Warn("principal cache write failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, tokenHash string) {
	if err := c.client.Del(ctx, redisPrincipalKeyPrefix+tokenHash).Err(); err != nil {
		c.log.WithError(err).Warn("principal cache invalidation failed")
	}
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userID int64) {
	userSet := userSetKey(userID)
	hashes, err := c.client.SMembers(ctx, userSet).Result()
	if err != nil {
		c.log.WithError(err).Warn("principal cache user invalidation failed")
		return
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, redisPrincipalKeyPrefix+h)
	}
	keys = append(keys, userSet)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).Warn("principal cache user invalidation failed")
	}
}

func userSetKey(userID int64) string {
	return fmt.Sprintf("%s%d", redisUserSetKeyPrefix, userID)
}
