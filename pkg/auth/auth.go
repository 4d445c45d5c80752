// Package auth models the identity-provider boundary: a Principal, the
// Provider interface the rest of the program signs in through, and a
// session Stream that replays the current sign-in state to subscribers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSignedOut is returned when an operation needs a signed-in principal.
	ErrSignedOut = errors.New("not signed in")

	// ErrNoToken is returned when the token source holds no token.
	ErrNoToken = errors.New("no identity token available")

	// ErrMissingEmail is returned when a token carries no email claim.
	ErrMissingEmail = errors.New("token has no email claim")
)

// Principal is a signed-in identity.
type Principal struct {
	Subject   string
	Email     string
	Name      string
	ExpiresAt time.Time

	token string
}

// Token returns the bearer token the principal was verified from.
func (p *Principal) Token() string {
	if p == nil {
		return ""
	}
	return p.token
}

// HasToken reports whether a bearer token is attached.
func (p *Principal) HasToken() bool {
	return p.Token() != ""
}

// Same reports whether a and b describe the same identity. Two nil
// principals are the same (both signed out).
func Same(a, b *Principal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Subject == b.Subject && a.Email == b.Email
}

// Provider is the identity-provider boundary.
type Provider interface {
	// SignIn performs an interactive sign-in and publishes the result.
	SignIn(ctx context.Context) (*Principal, error)

	// SignOut ends the session and publishes a signed-out value.
	SignOut(ctx context.Context) error

	// IDToken returns the current bearer token, re-verifying it when
	// forceRefresh is set.
	IDToken(ctx context.Context, forceRefresh bool) (string, error)

	// Subscribe registers fn for session changes. The current value is
	// replayed synchronously when already known.
	Subscribe(fn func(*Principal)) (unsubscribe func())
}

// AuthError wraps an identity-provider failure.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
