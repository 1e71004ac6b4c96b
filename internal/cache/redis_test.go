package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-dating/internal/cache"
	"github.com/oggyb/muzz-dating/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0
	return cache.NewRedisCache(cfg), mr
}

func TestLikeCount_MissSetHit(t *testing.T) {
	ctx := context.Background()
	rc, mr := newCache(t)
	require.NoError(t, rc.Ping(ctx))

	_, hit, err := rc.GetLikeCount(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, hit)

	stored, err := rc.SetLikeCountIfFresh(ctx, "bob", "", 7)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, cache.LikeCountTTL, mr.TTL("likes:count:bob"))

	n, hit, err := rc.GetLikeCount(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), n)
}

func TestLikeCount_Invalidate(t *testing.T) {
	ctx := context.Background()
	rc, mr := newCache(t)

	_, err := rc.SetLikeCountIfFresh(ctx, "alice", "", 2)
	require.NoError(t, err)
	require.NoError(t, rc.InvalidateLikeCount(ctx, "alice"))
	assert.False(t, mr.Exists("likes:count:alice"))

	gen, err := rc.LikeCountGeneration(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

// TestLikeCount_StaleFillIsDropped interleaves an invalidation between the
// generation read and the fill; the old count must not reach the cache.
func TestLikeCount_StaleFillIsDropped(t *testing.T) {
	ctx := context.Background()
	rc, mr := newCache(t)

	gen, err := rc.LikeCountGeneration(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "", gen)

	// a like lands while the count is being computed
	require.NoError(t, rc.InvalidateLikeCount(ctx, "bob"))

	stored, err := rc.SetLikeCountIfFresh(ctx, "bob", gen, 2)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("likes:count:bob"))

	// a fill started after the invalidation goes through
	gen, err = rc.LikeCountGeneration(ctx, "bob")
	require.NoError(t, err)
	stored, err = rc.SetLikeCountIfFresh(ctx, "bob", gen, 3)
	require.NoError(t, err)
	assert.True(t, stored)

	n, hit, err := rc.GetLikeCount(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(3), n)
}

func TestLikeCount_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	rc, mr := newCache(t)

	require.NoError(t, mr.Set("likes:count:carol", "not-a-number"))

	_, hit, err := rc.GetLikeCount(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("likes:count:carol"))
}
