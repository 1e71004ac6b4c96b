// Package validation checks entity fields before they reach the store.
// Every failure is an *errors.ValidationError naming the field and the
// constraint it broke. Lengths are counted in characters of the value as
// stored; callers run NormalizeUser/NormalizeMessage first so a composed and a
// decomposed accent weigh the same.
package validation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/oggyb/muzz-dating/internal/db"
	svcErr "github.com/oggyb/muzz-dating/internal/errors"
)

const (
	NameMaxLen    = 60
	BioMaxLen     = 280
	MessageMaxLen = 1000
)

var (
	genders  = []string{db.GenderMale, db.GenderFemale}
	seekings = []string{db.GenderMale, db.GenderFemale, db.SeekingBoth}
)

// NormalizeUser rewrites the free-text profile fields to NFC in place.
func NormalizeUser(u *db.User) {
	u.Name = norm.NFC.String(u.Name)
	if u.Bio != nil {
		bio := norm.NFC.String(*u.Bio)
		u.Bio = &bio
	}
}

// NormalizeMessage rewrites the message text to NFC in place.
func NormalizeMessage(m *db.Message) {
	m.Text = norm.NFC.String(m.Text)
}

// ValidateUser checks a profile before creation.
func ValidateUser(u *db.User) error {
	if err := length("name", u.Name, 1, NameMaxLen); err != nil {
		return err
	}
	if err := oneOf("gender", u.Gender, genders); err != nil {
		return err
	}
	if err := oneOf("seeking", u.Seeking, seekings); err != nil {
		return err
	}
	if u.Bio != nil {
		if err := length("bio", *u.Bio, 0, BioMaxLen); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLike checks a directed like. Self-likes are rejected by the
// matching engine with a dedicated error, not here.
func ValidateLike(l *db.Like) error {
	if err := required("liker_id", l.LikerID); err != nil {
		return err
	}
	return required("liked_id", l.LikedID)
}

// ValidateMatch checks a match before it is persisted.
func ValidateMatch(m *db.Match) error {
	if err := required("user1_id", m.User1ID); err != nil {
		return err
	}
	if err := required("user2_id", m.User2ID); err != nil {
		return err
	}
	if m.User1ID == m.User2ID {
		return svcErr.Invalid("user2_id", "must differ from user1_id")
	}
	return nil
}

// ValidateMessage checks a message before it is persisted.
func ValidateMessage(m *db.Message) error {
	if err := required("match_id", m.MatchID); err != nil {
		return err
	}
	if err := required("sender_id", m.SenderID); err != nil {
		return err
	}
	return length("text", m.Text, 1, MessageMaxLen)
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return svcErr.Invalid(field, "is required")
	}
	return nil
}

func length(field, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	switch {
	case n < min && min == 1:
		return svcErr.Invalid(field, "is required")
	case n < min || n > max:
		return svcErr.Invalid(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return svcErr.Invalid(field, "must be one of "+strings.Join(allowed, ", "))
}
