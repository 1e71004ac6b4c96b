package conversation_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
	"github.com/oggyb/muzz-dating/internal/service/conversation"
	"github.com/oggyb/muzz-dating/internal/service/matching"
	"github.com/oggyb/muzz-dating/internal/testutil"
)

// setupService seeds alice/bob/carol, lets Bob like Alice back and returns
// the conversation service together with the resulting match.
func setupService(t *testing.T) (*conversation.Service, *db.Match) {
	t.Helper()

	appCtx, _ := testutil.NewAppContext(t)
	require.NoError(t, db.SeedMinimalTestData(appCtx.DB))

	res, err := matching.NewMatchingService(appCtx).RecordLike(context.Background(), "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, res.Match)

	return conversation.NewConversationService(appCtx), res.Match
}

func TestSendMessage_ParticipantsCanSend(t *testing.T) {
	ctx := context.Background()
	svc, match := setupService(t)

	// the liked party may send first as well
	fromAlice, err := svc.SendMessage(ctx, match.ID, "alice", "Hi Bob!")
	require.NoError(t, err)
	assert.NotEmpty(t, fromAlice.ID)
	assert.False(t, fromAlice.CreatedAt.IsZero())

	fromBob, err := svc.SendMessage(ctx, match.ID, "bob", "Hey Alice")
	require.NoError(t, err)
	assert.Equal(t, match.ID, fromBob.MatchID)
}

func TestSendMessage_NotParticipant(t *testing.T) {
	ctx := context.Background()
	svc, match := setupService(t)

	_, err := svc.SendMessage(ctx, match.ID, "carol", "let me in")
	var np *svcErr.NotParticipantError
	require.True(t, errors.As(err, &np))
	assert.Equal(t, "carol", np.UserID)
	assert.Equal(t, match.ID, np.MatchID)

	msgs, err := svc.ListMessages(ctx, match.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendMessage_MatchNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.SendMessage(ctx, "no-such-match", "bob", "hello?")
	var nf *svcErr.MatchNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "no-such-match", nf.MatchID)
}

func TestSendMessage_Validation(t *testing.T) {
	ctx := context.Background()
	svc, match := setupService(t)

	tests := []struct {
		name              string
		matchID, sender   string
		text, wantedField string
	}{
		{"empty text", match.ID, "bob", "", "text"},
		{"too long", match.ID, "bob", strings.Repeat("x", 1001), "text"},
		{"missing match id", "", "bob", "hi", "match_id"},
		{"missing sender", match.ID, "", "hi", "sender_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendMessage(ctx, tt.matchID, tt.sender, tt.text)
			var ve *svcErr.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantedField, ve.Field)
		})
	}
}

func TestListMessages_Ordered(t *testing.T) {
	ctx := context.Background()
	svc, match := setupService(t)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sender := "alice"
			if i%2 == 0 {
				sender = "bob"
			}
			_, err := svc.SendMessage(ctx, match.ID, sender, "ping")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	msgs, err := svc.ListMessages(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 6)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt), "messages out of order at %d", i)
	}

	// pure read: asking again yields the same sequence
	again, err := svc.ListMessages(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, msgs, again)
}

func TestListMessages_UnknownMatchIsEmpty(t *testing.T) {
	svc, _ := setupService(t)

	msgs, err := svc.ListMessages(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestSendMessage_StoresComposedText(t *testing.T) {
	ctx := context.Background()
	svc, match := setupService(t)

	_, err := svc.SendMessage(ctx, match.ID, "bob", strings.Repeat("a\u0301", 1000))
	require.NoError(t, err)

	msgs, err := svc.ListMessages(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(msgs[0].Text), 1000)

	_, err = svc.SendMessage(ctx, match.ID, "bob", strings.Repeat("a\u0301", 1001))
	var ve *svcErr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "text", ve.Field)
}
