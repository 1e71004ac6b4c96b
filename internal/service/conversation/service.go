package conversation

import (
	"context"
	"strings"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
	"github.com/oggyb/muzz-dating/internal/repository"
	"github.com/oggyb/muzz-dating/internal/validation"
)

// Service gates messaging on match membership.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
}

// NewConversationService creates a new Conversation service with dependencies from AppContext.
func NewConversationService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.Store),
		messageRepo: repository.NewMessageRepository(appCtx.Store),
	}
}

// SendMessage stores text from sender on the given match.
//
// Behavior:
//   - Unknown match → MatchNotFoundError.
//   - Sender outside the match's two users → NotParticipantError.
//   - Text must be 1-1000 characters → ValidationError.
//   - Either participant may send first; allow_both_first_move is not read.
func (s *Service) SendMessage(ctx context.Context, matchID, senderID, text string) (*db.Message, error) {
	s.appCtx.Logger.Debug("SendMessage called", "match_id", matchID, "sender", senderID)

	if strings.TrimSpace(matchID) == "" {
		return nil, svcErr.Invalid("match_id", "is required")
	}
	if strings.TrimSpace(senderID) == "" {
		return nil, svcErr.Invalid("sender_id", "is required")
	}

	match, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, &svcErr.MatchNotFoundError{MatchID: matchID}
	}
	if !match.HasParticipant(senderID) {
		s.appCtx.Logger.Warn("message from non-participant rejected", "match_id", matchID, "sender", senderID)
		return nil, &svcErr.NotParticipantError{MatchID: matchID, UserID: senderID}
	}

	msg := &db.Message{MatchID: match.ID, SenderID: senderID, Text: text}
	validation.NormalizeMessage(msg)
	if err := validation.ValidateMessage(msg); err != nil {
		return nil, err
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		s.appCtx.Logger.Error("create message failed", "err", err)
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the match's messages oldest first. An unknown match
// yields an empty list.
func (s *Service) ListMessages(ctx context.Context, matchID string) ([]db.Message, error) {
	return s.messageRepo.ListByMatch(ctx, matchID)
}
