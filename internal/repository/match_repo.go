package repository

import (
	"context"
	"fmt"

	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
	"github.com/oggyb/muzz-dating/internal/store"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	store *store.Store
}

// NewMatchRepository creates a new repository bound to the given store.
func NewMatchRepository(s *store.Store) *MatchRepository {
	return &MatchRepository{store: s}
}

// Get returns the match with the given id or (nil, nil).
func (r *MatchRepository) Get(ctx context.Context, id string) (*db.Match, error) {
	var m db.Match
	found, err := r.store.FindByID(ctx, &m, id)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// FindBetween returns the match for the unordered pair {a, b}, checking both
// orientations, or (nil, nil).
func (r *MatchRepository) FindBetween(ctx context.Context, a, b string) (*db.Match, error) {
	var m db.Match
	found, err := r.store.FindOne(ctx, &m, store.Or(
		store.Clause{"user1_id": a, "user2_id": b},
		store.Clause{"user1_id": b, "user2_id": a},
	))
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// CreateIfAbsent inserts m unless a match for the same unordered pair exists,
// and returns whichever row the database holds for the pair.
//
// Behavior:
//   - Insert uses ON CONFLICT(pair_key) DO NOTHING, so concurrent callers
//     cannot create two rows for one pair.
//   - created reports whether m itself was written; when false the returned
//     match is the existing row, re-read by pair key.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, m *db.Match) (match *db.Match, created bool, err error) {
	created, err = r.store.InsertIfAbsent(ctx, m, "pair_key")
	if err != nil {
		return nil, false, err
	}
	if created {
		return m, true, nil
	}

	var existing db.Match
	found, err := r.store.FindOne(ctx, &existing, store.Where(store.Clause{"pair_key": m.PairKey}))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, svcErr.Store("find matches", fmt.Errorf("match for pair %s missing after conflict", m.PairKey))
	}
	return &existing, false, nil
}

// ListForUser returns matches where the user is either participant, in
// insertion order.
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	matches := []db.Match{}
	err := r.store.FindMany(ctx, &matches, store.Or(
		store.Clause{"user1_id": userID},
		store.Clause{"user2_id": userID},
	), store.Asc("created_at"), store.Asc("id"))
	return matches, err
}
