// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Map converts domain/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		validation     *ValidationError
		matchNotFound  *MatchNotFoundError
		userNotFound   *UserNotFoundError
		notParticipant *NotParticipantError
		store          *StoreUnavailableError
	)

	switch {
	case errors.As(err, &validation), errors.Is(err, ErrSelfLike):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.As(err, &matchNotFound), errors.As(err, &userNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.As(err, &notParticipant):
		return status.Error(codes.PermissionDenied, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	case errors.As(err, &store):
		return status.Error(codes.Unavailable, store.Error())

	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// HTTPStatus returns the outward HTTP status and client-safe message for err.
func HTTPStatus(err error) (int, string) {
	var (
		validation     *ValidationError
		matchNotFound  *MatchNotFoundError
		userNotFound   *UserNotFoundError
		notParticipant *NotParticipantError
		store          *StoreUnavailableError
	)

	switch {
	case errors.As(err, &validation), errors.Is(err, ErrSelfLike):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &matchNotFound):
		return http.StatusNotFound, "Match not found"
	case errors.As(err, &userNotFound):
		return http.StatusNotFound, "User not found"
	case errors.As(err, &notParticipant):
		return http.StatusForbidden, "Not part of this match"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.As(err, &store):
		return http.StatusServiceUnavailable, store.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in transport code for malformed requests.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
