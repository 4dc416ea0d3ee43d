// Package session gates client commands on a stored login token.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/recipebox/backend/internal/types"
)

// LoginPath is where a caller without a session is sent
const LoginPath = "/login"

// ErrLoginRequired matches every *LoginRequiredError
var ErrLoginRequired = errors.New("login required")

// LoginRequiredError tells the caller to go to Redirect before continuing
type LoginRequiredError struct {
	Redirect string
	Reason   string
}

func (e *LoginRequiredError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("login required (go to %s)", e.Redirect)
	}
	return fmt.Sprintf("login required: %s (go to %s)", e.Reason, e.Redirect)
}

func (e *LoginRequiredError) Is(target error) bool {
	return target == ErrLoginRequired
}

// Guard decides whether a stored session is usable. By default any stored token is
// accepted. CheckExpiry additionally rejects tokens whose exp claim has passed; the
// signature is not verified client-side.
type Guard struct {
	Store       TokenStore
	CheckExpiry bool
	Now         func() time.Time
}

// Require returns the stored token or a *LoginRequiredError
func (g *Guard) Require() (string, error) {
	token, err := g.Store.Load()
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if token == "" {
		return "", &LoginRequiredError{Redirect: LoginPath}
	}

	if g.CheckExpiry {
		claims := &types.TokenClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return "", &LoginRequiredError{Redirect: LoginPath, Reason: "stored token is malformed"}
		}
		if claims.ExpiresAt != nil && !g.now().Before(claims.ExpiresAt.Time) {
			return "", &LoginRequiredError{Redirect: LoginPath, Reason: "session expired"}
		}
	}
	return token, nil
}

func (g *Guard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
