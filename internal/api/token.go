package api

import (
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

// TokenSource yields the bearer token for outgoing requests. It is injected
// into the client; nothing in this package holds process-wide auth state.
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource returns a fixed token, useful in tests.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token() (string, error) {
	return string(s), nil
}

// FileTokenSource reads the token written at login from disk on every call so
// a re-login takes effect without restarting the console.
type FileTokenSource struct {
	Path string
}

// Token implements TokenSource.
func (f FileTokenSource) Token() (string, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "not logged in")
	}
	return strings.TrimSpace(string(raw)), nil
}

// checkExpiry rejects an already-expired JWT before any round-trip. The
// signature is not verified here; the backend remains the authority.
func checkExpiry(token string, now time.Time) error {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque tokens pass through untouched.
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Time.Before(now) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "session expired, please log in again")
	}
	return nil
}
