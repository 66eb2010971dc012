package auth

import (
	"context"

	"github.com/rlee603166/sharify/internal/models"
)

// Authenticator turns an email and credential into the User who owns saved
// friends and groups and who is always the first member of a split party.
// AuthService depends only on this interface; PasswordAuthenticator is the
// bcrypt implementation.
type Authenticator interface {
	// Register creates an account. Emails are compared case-insensitively, so
	// "Bob@Example.com" and "bob@example.com" are the same account.
	// Returns ErrInvalidEmail, ErrEmailExists, or a ValidateCredential error.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account for email if credential matches it.
	// Unknown emails and wrong credentials both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials that Register would not accept.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
