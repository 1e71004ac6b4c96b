package repository

import (
	"context"

	"github.com/oggyb/muzz-dating/internal/db"
	"github.com/oggyb/muzz-dating/internal/store"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	store *store.Store
}

// NewUserRepository creates a new repository bound to the given store.
func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// Create inserts a validated user; the store assigns its id.
func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	return r.store.Insert(ctx, u)
}

// Get returns the user or (nil, nil) when absent.
func (r *UserRepository) Get(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	found, err := r.store.FindByID(ctx, &u, id)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// List returns every user in creation order.
func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	users := []db.User{}
	err := r.store.FindMany(ctx, &users, store.Filter{}, store.Asc("created_at"), store.Asc("id"))
	return users, err
}
