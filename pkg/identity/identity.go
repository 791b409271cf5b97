// Package identity provides clients for the external identity provider that
// issues and owns sessions. This module never creates, mutates, or destroys a
// provider session beyond the sign-in/sign-out calls the provider exposes.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie carrying the provider session token.
const SessionCookieName = "__session"

// ErrNoSession signals that the request carries no verifiable session.
var ErrNoSession = errors.New("identity: no session")

// Provider error codes surfaced on sign-in failures.
const (
	CodeUnknownIdentifier    = "unknown-identifier"
	CodeWrongPassword        = "wrong-password"
	CodeVerificationRequired = "verification-required"
)

// ProviderError is a classified identity-provider failure.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return "identity: " + e.Code + ": " + e.Message
}

// Session is the read-only view of a provider session.
type Session struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	Active    bool
}

// Verifier resolves the session attached to an inbound request.
// Implementations return ErrNoSession when no usable session is present.
type Verifier interface {
	SessionFromRequest(ctx context.Context, r *http.Request) (Session, error)
}

// Client is the login-capable provider surface used by the session conflict
// resolver and the ops CLI.
type Client interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, sessionToken string) error
}

// TokenFromRequest extracts the raw session token from the Authorization
// header or the session cookie, in that order.
func TokenFromRequest(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			return strings.TrimSpace(header[7:])
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
