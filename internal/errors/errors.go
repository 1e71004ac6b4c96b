package errors

import (
	"errors"
	"fmt"
)

// ErrSelfLike is returned when a user tries to like themselves.
var ErrSelfLike = errors.New("cannot like yourself")

// ValidationError names the field and the constraint it failed.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

// Invalid builds a ValidationError for field.
func Invalid(field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint}
}

// MatchNotFoundError is returned when a message references an unknown match.
type MatchNotFoundError struct {
	MatchID string
}

func (e *MatchNotFoundError) Error() string {
	return fmt.Sprintf("match %q not found", e.MatchID)
}

// UserNotFoundError is returned when a profile lookup misses.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.UserID)
}

// NotParticipantError is returned when the sender is not one of the match's two users.
type NotParticipantError struct {
	MatchID string
	UserID  string
}

func (e *NotParticipantError) Error() string {
	return fmt.Sprintf("user %q is not part of match %q", e.UserID, e.MatchID)
}

// StoreUnavailableError wraps a failure of the underlying store.
// Err is kept for logs; Error() never exposes it to callers.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s", e.Op)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// Store wraps err as a StoreUnavailableError unless it already is one.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreUnavailableError
	if errors.As(err, &se) {
		return err
	}
	return &StoreUnavailableError{Op: op, Err: err}
}
