package db

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	SeekingBoth  = "both"
)

// User is a dating profile. Never mutated after creation.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:60;not null" json:"name"`
	Gender    string    `gorm:"size:16;not null" json:"gender"`
	Seeking   string    `gorm:"size:16;not null" json:"seeking"`
	Bio       *string   `gorm:"size:280" json:"bio"`
	AvatarURL *string   `gorm:"size:2048" json:"avatar_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Like is a directed expression of interest.
//
// Indexes:
//   - idx_like_pair(liker_id, liked_id)
//     Optimizes the reciprocal-like lookup in RecordLike.
//   - idx_like_liked(liked_id, liker_id)
//     Optimizes distinct liker counts for a recipient.
//
// Repeated likes for the same direction are stored as separate rows.
type Like struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	LikerID   string    `gorm:"size:36;not null;index:idx_like_pair,priority:1;index:idx_like_liked,priority:2" json:"liker_id"`
	LikedID   string    `gorm:"size:36;not null;index:idx_like_pair,priority:2;index:idx_like_liked,priority:1" json:"liked_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Match records that two users liked each other.
//
// User1ID/User2ID keep the orientation of the like that completed the pair
// (User1ID is the liker). PairKey is the same for both orientations and is
// unique, so the database holds at most one Match per unordered pair.
type Match struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	User1ID            string    `gorm:"size:36;not null;index" json:"user1_id"`
	User2ID            string    `gorm:"size:36;not null;index" json:"user2_id"`
	PairKey            string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	AllowBothFirstMove bool      `gorm:"not null;default:true" json:"allow_both_first_move"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// HasParticipant reports whether userID is one of the two matched users.
func (m *Match) HasParticipant(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Message is a single chat line inside a match, ordered by CreatedAt.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	MatchID   string    `gorm:"size:36;not null;index:idx_message_match_created,priority:1" json:"match_id"`
	SenderID  string    `gorm:"size:36;not null" json:"sender_id"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_match_created,priority:2" json:"created_at"`
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{&User{}, &Like{}, &Match{}, &Message{}}
}

// PairKey returns the canonical key for the unordered pair {a, b}:
// a hex blake2b-256 digest of min(a,b) and max(a,b).
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	sum := blake2b.Sum256([]byte(a + "\x00" + b))
	return hex.EncodeToString(sum[:])
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate assigns the store identifier.
func (u *User) BeforeCreate(_ *gorm.DB) error { newID(&u.ID); return nil }

// BeforeCreate assigns the store identifier.
func (l *Like) BeforeCreate(_ *gorm.DB) error { newID(&l.ID); return nil }

// BeforeCreate assigns the store identifier and the canonical pair key.
func (m *Match) BeforeCreate(_ *gorm.DB) error {
	newID(&m.ID)
	m.PairKey = PairKey(m.User1ID, m.User2ID)
	return nil
}

// BeforeCreate assigns the store identifier.
func (m *Message) BeforeCreate(_ *gorm.DB) error { newID(&m.ID); return nil }
