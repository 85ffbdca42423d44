package auth

import (
	"context"

	"github.com/mmynk/rondo/internal/models"
)

// Authenticator is the identity boundary the services talk to. Only
// password login exists today; keeping the credential opaque here lets
// passkeys or OAuth slot in without touching the service layer.
type Authenticator interface {
	// Register creates an account for the email and credential, or
	// fails if the email is taken or the credential is too weak.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the user.
	// Failures surface as ErrInvalidCredentials regardless of whether
	// the email or the credential was wrong.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
