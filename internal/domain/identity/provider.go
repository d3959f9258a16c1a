// internal/domain/identity/provider.go
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnauthenticated is returned when an action needs a signed-in user
	ErrUnauthenticated = errors.New("identity: sign in required")
	// ErrInvalidCredentials is returned for a wrong email/password pair
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	// ErrReauthFailed is returned when a password re-check fails
	ErrReauthFailed = errors.New("identity: incorrect password")
	// ErrEmailTaken is returned when signing up with a registered email
	ErrEmailTaken = errors.New("identity: email already registered")
	// ErrInvalidToken is returned for a malformed, expired or revoked token
	ErrInvalidToken = errors.New("identity: invalid or expired token")
	// ErrWeakPassword is returned when a password is rejected by the provider
	ErrWeakPassword = errors.New("identity: password too weak")
)

// Identity is an authenticated user
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Token is a bearer credential issued on sign-in
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider issues and verifies user sessions
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, *Token, error)
	SignOut(ctx context.Context, uid string) error
	Verify(ctx context.Context, token string) (Identity, error)
	// Reauthenticate re-checks the password of an already signed-in user
	Reauthenticate(ctx context.Context, uid, password string) error
	UpdateEmail(ctx context.Context, uid, email string) error
	UpdatePassword(ctx context.Context, uid, password string) error
}
