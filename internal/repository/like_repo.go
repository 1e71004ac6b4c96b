package repository

import (
	"context"

	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/store"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries related to directed likes between users.
type LikeRepository struct {
	store *store.Store
}

// NewLikeRepository creates a new repository bound to the given store.
func NewLikeRepository(s *store.Store) *LikeRepository {
	return &LikeRepository{store: s}
}

// Create inserts a like made by liker -> liked.
//
// Behavior:
//   - Always inserts a new row; repeated likes accumulate.
//   - The store assigns ID and CreatedAt.
func (r *LikeRepository) Create(ctx context.Context, l *db.Like) error {
	return r.store.Insert(ctx, l)
}

// FindLike returns any like made by liker on liked, or (nil, nil).
//
// Example:
//
//	repo.FindLike(ctx, "bob", "alice") // non-nil if Bob liked Alice
func (r *LikeRepository) FindLike(ctx context.Context, likerID, likedID string) (*db.Like, error) {
	var l db.Like
	found, err := r.store.FindOne(ctx, &l, store.Where(store.Clause{
		"liker_id": likerID,
		"liked_id": likedID,
	}))
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

// CountLikers returns how many distinct users liked the given recipient.
// Duplicate likes from one user count once.
func (r *LikeRepository) CountLikers(ctx context.Context, likedID string) (int64, error) {
	return r.store.CountDistinct(ctx, &db.Like{}, "liker_id", store.Where(store.Clause{"liked_id": likedID}))
}
