package profile

import (
	"context"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
	"github.com/oggyb/muzz-dating/internal/repository"
	"github.com/oggyb/muzz-dating/internal/validation"
)

// CreateUserRequest carries the fields of a new profile.
type CreateUserRequest struct {
	Name      string  `json:"name"`
	Gender    string  `json:"gender"`
	Seeking   string  `json:"seeking"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Service manages user profiles.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewProfileService creates a new Profile service with dependencies from AppContext.
func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.Store),
	}
}

// CreateUser validates and stores a new profile, returning it with its id.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*db.User, error) {
	u := &db.User{
		Name:      req.Name,
		Gender:    req.Gender,
		Seeking:   req.Seeking,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	validation.NormalizeUser(u)
	if err := validation.ValidateUser(u); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		s.appCtx.Logger.Error("create user failed", "err", err)
		return nil, err
	}

	s.appCtx.Logger.Info("user created", "user_id", u.ID, "gender", u.Gender, "seeking", u.Seeking)
	return u, nil
}

// GetUser returns a single profile or UserNotFoundError.
func (s *Service) GetUser(ctx context.Context, userID string) (*db.User, error) {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &svcErr.UserNotFoundError{UserID: userID}
	}
	return u, nil
}

// ListUsers returns every profile in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]db.User, error) {
	return s.userRepo.List(ctx)
}
