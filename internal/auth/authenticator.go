// Package auth registers and authenticates users and issues the session
// tokens the RPC layer turns into a models.Session.
package auth

import (
	"context"

	"github.com/mmynk/standbys/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Swapping password auth for another method does not touch the service layer.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, homePlatoon, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
