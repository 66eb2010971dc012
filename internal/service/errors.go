package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/rlee603166/sharify/internal/assignment"
	"github.com/rlee603166/sharify/internal/auth"
	"github.com/rlee603166/sharify/internal/middleware"
	"github.com/rlee603166/sharify/internal/money"
	"github.com/rlee603166/sharify/internal/session"
	"github.com/rlee603166/sharify/internal/storage"
)

var errNotOwner = errors.New("resource belongs to another user")

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, assignment.ErrInvalidParticipant),
		errors.Is(err, money.ErrInvalidPrice):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrItemNotFound),
		errors.Is(err, assignment.ErrItemNotFound),
		errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, session.ErrIngestionOff):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// requireUser returns the authenticated user ID from ctx.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
