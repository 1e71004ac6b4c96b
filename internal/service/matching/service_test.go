package matching_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
	"github.com/oggyb/muzz-dating/internal/service/matching"
	"github.com/oggyb/muzz-dating/internal/testutil"
)

//
// Test helpers
//

// setupService wires an isolated SQLite DB and miniredis into a Matching
// service, seeded with:
//   - users alice, bob, carol
//   - alice → bob like (not reciprocated)
//   - carol → bob like
func setupService(t *testing.T) (*matching.Service, *app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	appCtx, mr := testutil.NewAppContext(t)
	require.NoError(t, db.SeedMinimalTestData(appCtx.DB))
	return matching.NewMatchingService(appCtx), appCtx, mr
}

func countMatches(t *testing.T, appCtx *app.AppContext) int64 {
	t.Helper()
	var n int64
	require.NoError(t, appCtx.DB.Model(&db.Match{}).Count(&n).Error)
	return n
}

//
// Tests
//

// TestRecordLike_ReciprocalCreatesMatch walks the Alice/Bob scenario: the
// completing like creates the match oriented liker → liked.
func TestRecordLike_ReciprocalCreatesMatch(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	res, err := svc.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, res.Match)

	assert.Equal(t, "bob", res.Like.LikerID)
	assert.Equal(t, "alice", res.Like.LikedID)
	assert.Equal(t, "bob", res.Match.User1ID)
	assert.Equal(t, "alice", res.Match.User2ID)
	assert.True(t, res.Match.AllowBothFirstMove)
	assert.Equal(t, int64(1), countMatches(t, appCtx))
}

// TestRecordLike_NoReciprocal returns only the like.
func TestRecordLike_NoReciprocal(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	res, err := svc.RecordLike(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Like.ID)
	assert.Nil(t, res.Match)
	assert.Equal(t, int64(0), countMatches(t, appCtx))
}

// TestRecordLike_RepeatedLikesReuseMatch ensures further likes in either
// direction return the same match and never create a second one.
func TestRecordLike_RepeatedLikesReuseMatch(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	first, err := svc.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, first.Match)

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}, {"alice", "bob"}} {
		res, err := svc.RecordLike(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.NotNil(t, res.Match)
		assert.Equal(t, first.Match.ID, res.Match.ID)
		assert.Equal(t, "bob", res.Match.User1ID)
	}

	assert.Equal(t, int64(1), countMatches(t, appCtx))

	// duplicate likes accumulate
	var likes int64
	require.NoError(t, appCtx.DB.Model(&db.Like{}).Where("liker_id = ? AND liked_id = ?", "alice", "bob").Count(&likes).Error)
	assert.Equal(t, int64(3), likes)
}

func TestRecordLike_SelfLike(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	for _, id := range []string{"alice", "someone-unknown"} {
		_, err := svc.RecordLike(ctx, id, id)
		assert.True(t, errors.Is(err, svcErr.ErrSelfLike))
	}

	var likes int64
	require.NoError(t, appCtx.DB.Model(&db.Like{}).Count(&likes).Error)
	assert.Equal(t, int64(2), likes) // only the seeded ones
}

func TestRecordLike_EmptyIDs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.RecordLike(ctx, "", "bob")
	var ve *svcErr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "liker_id", ve.Field)

	_, err = svc.RecordLike(ctx, "", "")
	require.True(t, errors.As(err, &ve))
	assert.False(t, errors.Is(err, svcErr.ErrSelfLike))
}

// TestRecordLike_ConcurrentSamePair hammers one pair from both sides at once;
// every caller must observe the same single match.
func TestRecordLike_ConcurrentSamePair(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	// reciprocal like exists already, but no match yet
	require.NoError(t, appCtx.DB.Create(&db.Like{LikerID: "bob", LikedID: "alice"}).Error)

	const workers = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[string]int{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			liker, liked := "alice", "bob"
			if i%2 == 0 {
				liker, liked = liked, liker
			}
			res, err := svc.RecordLike(ctx, liker, liked)
			if !assert.NoError(t, err) || !assert.NotNil(t, res.Match) {
				return
			}
			mu.Lock()
			ids[res.Match.ID]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, int64(1), countMatches(t, appCtx))
}

// TestListMatchesForUser_Stable checks either-participant lookup and that
// unrelated operations do not change a user's match set.
func TestListMatchesForUser_Stable(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	res, err := svc.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)

	before, err := svc.ListMatchesForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, res.Match.ID, before[0].ID)

	// unrelated activity between bob, carol and dana
	require.NoError(t, appCtx.DB.Create(&db.User{ID: "dana", Name: "Dana", Gender: "female", Seeking: "male"}).Error)
	_, err = svc.RecordLike(ctx, "bob", "carol")
	require.NoError(t, err)
	_, err = svc.RecordLike(ctx, "dana", "bob")
	require.NoError(t, err)
	_, err = svc.RecordLike(ctx, "bob", "dana")
	require.NoError(t, err)

	after, err := svc.ListMatchesForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	bobs, err := svc.ListMatchesForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 3) // alice, carol (carol liked bob first), dana

	empty, err := svc.ListMatchesForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// TestCountLikesReceived_Cache verifies distinct counting, the cache hit and
// invalidation on a new like.
func TestCountLikesReceived_Cache(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := setupService(t)

	// duplicate like does not change the distinct count
	_, err := svc.RecordLike(ctx, "alice", "bob")
	require.NoError(t, err)

	// First call → DB
	n, err := svc.CountLikesReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, mr.Exists("likes:count:bob"))

	// Second call → cache
	require.NoError(t, mr.Set("likes:count:bob", "42"))
	n, err = svc.CountLikesReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	// new like invalidates
	_, err = svc.RecordLike(ctx, "dana", "bob")
	require.NoError(t, err)
	assert.False(t, mr.Exists("likes:count:bob"))

	n, err = svc.CountLikesReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

// TestCountLikesReceived_CacheDown falls back to the DB when Redis is gone.
func TestCountLikesReceived_CacheDown(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := setupService(t)
	mr.Close()

	n, err := svc.CountLikesReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// likes still record without the cache
	res, err := svc.RecordLike(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.NotNil(t, res.Match)
}

func TestCountLikesReceived_EmptyID(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.CountLikesReceived(context.Background(), " ")
	var ve *svcErr.ValidationError
	assert.True(t, errors.As(err, &ve))
}

// TestCountLikesReceived_LikeDuringCount lands a like right after the DB count
// and before the cache fill; the stale count must not be cached.
func TestCountLikesReceived_LikeDuringCount(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, mr := setupService(t)
	require.NoError(t, appCtx.DB.Create(&db.User{ID: "dana", Name: "Dana", Gender: "female", Seeking: "male"}).Error)

	var fired atomic.Bool
	require.NoError(t, appCtx.DB.Callback().Query().After("gorm:query").Register("test:like_during_count", func(tx *gorm.DB) {
		if tx.Statement.Table != "likes" || !fired.CompareAndSwap(false, true) {
			return
		}
		_, err := svc.RecordLike(context.Background(), "dana", "bob")
		assert.NoError(t, err)
	}))

	first, err := svc.CountLikesReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), first)
	require.True(t, fired.Load())
	assert.False(t, mr.Exists("likes:count:bob"))

	second, err := svc.CountLikesReceived(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), second)
}

// TestRecordLike_IDsUsedVerbatim keeps ids as given: a padded id is a
// different user for likes, matches and messages alike.
func TestRecordLike_IDsUsedVerbatim(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)

	res, err := svc.RecordLike(ctx, " bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, " bob", res.Like.LikerID)
	assert.Nil(t, res.Match)
	assert.Equal(t, int64(0), countMatches(t, appCtx))

	_, err = svc.RecordLike(ctx, "bob ", "bob")
	assert.False(t, errors.Is(err, svcErr.ErrSelfLike))
}
