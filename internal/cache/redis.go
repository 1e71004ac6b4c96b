package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/oggyb/muzz-dating/internal/config"
	"github.com/redis/go-redis/v9"
)

// LikeCountTTL bounds how long a cached like count lives without access.
const LikeCountTTL = time.Hour

// likeGenTTL outlives any count it guards.
const likeGenTTL = 24 * LikeCountTTL

// RedisCache wraps the Redis client used for like-count caching.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikeCount generates Redis key for a user's received-like count
func (c *RedisCache) KeyForLikeCount(userID string) string {
	return "likes:count:" + userID
}

// KeyForLikeGeneration generates the Redis key bumped on every invalidation
// of a user's like count.
func (c *RedisCache) KeyForLikeGeneration(userID string) string {
	return "likes:gen:" + userID
}

// GetLikeCount returns the cached count and whether it was present.
// A hit refreshes the TTL since the user is active.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID string) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// corrupt entry: drop it and treat as a miss
		_ = c.Client.Del(ctx, key).Err()
		return 0, false, nil
	}
	_ = c.Client.Expire(ctx, key, LikeCountTTL).Err()
	return n, true, nil
}

// LikeCountGeneration returns the current invalidation generation for
// userID. Read it before computing a count and pass it to SetLikeCountIfFresh.
func (c *RedisCache) LikeCountGeneration(ctx context.Context, userID string) (string, error) {
	gen, err := c.Client.Get(ctx, c.KeyForLikeGeneration(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return gen, err
}

// SetLikeCountIfFresh stores count only if no invalidation happened since gen
// was read. It reports whether the value was written.
func (c *RedisCache) SetLikeCountIfFresh(ctx context.Context, userID, gen string, count int64) (bool, error) {
	genKey := c.KeyForLikeGeneration(userID)
	stored := false

	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.KeyForLikeCount(userID), count, LikeCountTTL)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		// generation moved while we were writing
		return false, nil
	}
	return stored, err
}

// InvalidateLikeCount drops the cached count and bumps the generation so a
// fill computed before this call cannot write its stale value back.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID string) error {
	genKey := c.KeyForLikeGeneration(userID)
	_, err := c.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Expire(ctx, genKey, likeGenTTL)
		p.Del(ctx, c.KeyForLikeCount(userID))
		return nil
	})
	return err
}
