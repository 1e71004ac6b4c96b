package matching

import (
	"context"
	"strings"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
	"github.com/oggyb/muzz-dating/internal/repository"
	"github.com/oggyb/muzz-dating/internal/validation"
)

// LikeResult is the outcome of RecordLike. Match is set once the pair has
// liked each other, on the completing like and on every like after it.
type LikeResult struct {
	Like  *db.Like  `json:"like"`
	Match *db.Match `json:"match,omitempty"`
}

// Service is the matching engine: it records likes and turns reciprocal
// likes into exactly one Match per unordered pair.
type Service struct {
	appCtx    *app.AppContext
	likeRepo  *repository.LikeRepository
	matchRepo *repository.MatchRepository
}

// NewMatchingService creates a new Matching service with dependencies from AppContext.
func NewMatchingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		likeRepo:  repository.NewLikeRepository(appCtx.Store),
		matchRepo: repository.NewMatchRepository(appCtx.Store),
	}
}

// RecordLike stores a like from liker to liked and returns the pair's match
// if the like is reciprocated.
//
// Behavior:
//   - Rejects blank ids (ValidationError) and self-likes (ErrSelfLike).
//     Ids are used exactly as given.
//   - Always inserts a new Like row; repeated likes are not deduplicated.
//   - Drops the liked user's cached like count.
//   - Without a reciprocal like, returns the like alone.
//   - With one, returns the existing match for the pair, or creates it with
//     user1 = liker, user2 = liked and allow_both_first_move = true.
//     Creation is a conditional insert on the pair key, so concurrent calls
//     for the same pair still leave a single match.
//
// Example:
//
//	svc.RecordLike(ctx, "alice", "bob") // -> {like}
//	svc.RecordLike(ctx, "bob", "alice") // -> {like, match{user1: bob, user2: alice}}
func (s *Service) RecordLike(ctx context.Context, likerID, likedID string) (*LikeResult, error) {
	s.appCtx.Logger.Debug("RecordLike called", "liker", likerID, "liked", likedID)

	like := &db.Like{LikerID: likerID, LikedID: likedID}
	if err := validation.ValidateLike(like); err != nil {
		return nil, err
	}
	if like.LikerID == like.LikedID {
		return nil, svcErr.ErrSelfLike
	}

	if err := s.likeRepo.Create(ctx, like); err != nil {
		s.appCtx.Logger.Error("create like failed", "err", err)
		return nil, err
	}

	if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, like.LikedID); err != nil {
		s.appCtx.Logger.Warn("like count invalidation failed", "user_id", like.LikedID, "err", err)
	}

	result := &LikeResult{Like: like}

	reciprocal, err := s.likeRepo.FindLike(ctx, like.LikedID, like.LikerID)
	if err != nil {
		return nil, err
	}
	if reciprocal == nil {
		return result, nil
	}

	match, err := s.matchRepo.FindBetween(ctx, like.LikerID, like.LikedID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		match, err = s.createMatch(ctx, like)
		if err != nil {
			return nil, err
		}
	}

	result.Match = match
	return result, nil
}

func (s *Service) createMatch(ctx context.Context, trigger *db.Like) (*db.Match, error) {
	candidate := &db.Match{
		User1ID:            trigger.LikerID,
		User2ID:            trigger.LikedID,
		AllowBothFirstMove: true,
	}
	if err := validation.ValidateMatch(candidate); err != nil {
		return nil, err
	}

	match, created, err := s.matchRepo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		s.appCtx.Logger.Error("create match failed", "err", err)
		return nil, err
	}
	if created {
		s.appCtx.Logger.Info("match created", "match_id", match.ID, "user1", match.User1ID, "user2", match.User2ID)
	} else {
		s.appCtx.Logger.Debug("match already created concurrently", "match_id", match.ID)
	}
	return match, nil
}

// ListMatchesForUser returns every match the user participates in, in
// insertion order.
func (s *Service) ListMatchesForUser(ctx context.Context, userID string) ([]db.Match, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, svcErr.Invalid("user_id", "is required")
	}
	return s.matchRepo.ListForUser(ctx, userID)
}

// CountLikesReceived returns how many distinct users liked userID.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID), refreshing its TTL.
//  2. On miss or cache error, falls back to DB via repository.CountLikers.
//  3. On DB fetch, updates Redis with a 1h TTL unless a like landed while
//     counting (the invalidation generation moved).
func (s *Service) CountLikesReceived(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, svcErr.Invalid("user_id", "is required")
	}

	// try cache first
	n, hit, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Warn("like count cache read failed", "user_id", userID, "err", err)
	} else if hit {
		return n, nil
	}

	gen, genErr := s.appCtx.RedisCache.LikeCountGeneration(ctx, userID)

	// fallback: DB
	count, err := s.likeRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if genErr != nil {
		return count, nil
	}
	stored, err := s.appCtx.RedisCache.SetLikeCountIfFresh(ctx, userID, gen, count)
	switch {
	case err != nil:
		s.appCtx.Logger.Warn("like count cache write failed", "user_id", userID, "err", err)
	case !stored:
		s.appCtx.Logger.Debug("like count changed while counting, not cached", "user_id", userID)
	}
	return count, nil
}
