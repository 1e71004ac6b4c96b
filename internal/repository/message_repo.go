package repository

import (
	"context"

	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/store"
)

// MessageRepository provides data access methods for the Message model.
type MessageRepository struct {
	store *store.Store
}

// NewMessageRepository creates a new repository bound to the given store.
func NewMessageRepository(s *store.Store) *MessageRepository {
	return &MessageRepository{store: s}
}

// Create inserts a validated message; CreatedAt is assigned by the store.
func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	return r.store.Insert(ctx, m)
}

// ListByMatch returns all messages of a match, oldest first. Ties on
// created_at are broken by id so repeated reads return the same order.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID string) ([]db.Message, error) {
	msgs := []db.Message{}
	err := r.store.FindMany(ctx, &msgs, store.Where(store.Clause{"match_id": matchID}),
		store.Asc("created_at"), store.Asc("id"))
	return msgs, err
}
