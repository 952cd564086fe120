package session

import (
	"context"

	"github.com/killallgit/jamboard-api/internal/models"
)

// SessionService defines the account and session operations of an instance
type SessionService interface {
	// Restore loads the persisted session; a malformed record counts as absent
	Restore(ctx context.Context) error

	// SignUp creates an account and signs it in
	SignUp(ctx context.Context, name, email, secret string) (models.User, error)

	// LogIn signs in with an exact email and secret match
	LogIn(ctx context.Context, email, secret string) (models.User, error)

	// LogOut clears the current session
	LogOut(ctx context.Context) error

	// UpdateProfile edits the signed-in user's own profile
	UpdateProfile(ctx context.Context, userID string, patch models.UserPatch) (models.User, error)

	// Current returns the signed-in user, if any
	Current() (models.User, bool)

	// SessionID identifies the current session; empty when signed out
	SessionID() string
}
