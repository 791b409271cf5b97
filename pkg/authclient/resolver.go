package authclient

import (
	"context"
	"errors"
	"time"

	"dealerportal/pkg/identity"
)

// StatusLevel categorizes resolver progress callbacks.
type StatusLevel string

const (
	LevelInfo    StatusLevel = "info"
	LevelSuccess StatusLevel = "success"
	LevelError   StatusLevel = "error"
)

// Fixed user-facing messages for known provider failure codes. Unknown codes
// fall back to the generic message; raw provider text never reaches the user.
const (
	msgUnknownIdentifier    = "No account found with this email address."
	msgWrongPassword        = "Incorrect password. Please try again."
	msgVerificationRequired = "Please verify your email address before signing in."
	msgGenericFailure       = "Sign-in failed. Please try again."
	msgSignOutFailure       = "Could not sign out the current session."
)

// Credentials are the newly supplied login credentials.
type Credentials struct {
	Email    string
	Password string
}

// SignOutFunc revokes the currently active session.
type SignOutFunc func(ctx context.Context) error

// LoginClient is the login-capable slice of the identity provider client.
type LoginClient interface {
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
}

// ResolverCallbacks report saga progress. Any callback may be nil.
type ResolverCallbacks struct {
	OnStatusUpdate func(level StatusLevel, message string)
	OnComplete     func()
	OnError        func(message string)
}

// ResolverOptions tunes the conflict resolver saga.
type ResolverOptions struct {
	// SettleDelay runs between sign-out and sign-in so the provider's
	// session state can settle. Default 1s.
	SettleDelay time.Duration
	Sleeper     Sleeper
}

// ResolveSessionConflict runs the logout → delay → login saga used when a
// login attempt conflicts with an already-active session under different
// credentials. There is no compensation: if sign-in fails after a successful
// sign-out, the caller stays logged out and retries manually. That is the
// accepted terminal state, not a bug to mask.
func ResolveSessionConflict(
	ctx context.Context,
	signOut SignOutFunc,
	client LoginClient,
	credentials Credentials,
	callbacks ResolverCallbacks,
	opts ResolverOptions,
) bool {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = time.Second
	}
	if opts.Sleeper == nil {
		opts.Sleeper = sleepContext
	}

	callbacks.statusUpdate(LevelInfo, "Signing out the current session...")
	if err := signOut(ctx); err != nil {
		callbacks.fail(msgSignOutFailure)
		return false
	}

	callbacks.statusUpdate(LevelInfo, "Waiting for the session to settle...")
	if err := opts.Sleeper(ctx, opts.SettleDelay); err != nil {
		callbacks.fail(msgGenericFailure)
		return false
	}

	callbacks.statusUpdate(LevelInfo, "Signing in with the new credentials...")
	if _, err := client.SignIn(ctx, credentials.Email, credentials.Password); err != nil {
		// Report the mapped message through OnError exactly once.
		callbacks.fail(loginFailureMessage(err))
		return false
	}

	callbacks.statusUpdate(LevelSuccess, "Signed in successfully.")
	callbacks.complete()
	return true
}

func loginFailureMessage(err error) string {
	var providerErr *identity.ProviderError
	if !errors.As(err, &providerErr) {
		return msgGenericFailure
	}
	switch providerErr.Code {
	case identity.CodeUnknownIdentifier:
		return msgUnknownIdentifier
	case identity.CodeWrongPassword:
		return msgWrongPassword
	case identity.CodeVerificationRequired:
		return msgVerificationRequired
	default:
		return msgGenericFailure
	}
}

func (c ResolverCallbacks) statusUpdate(level StatusLevel, message string) {
	if c.OnStatusUpdate != nil {
		c.OnStatusUpdate(level, message)
	}
}

func (c ResolverCallbacks) complete() {
	if c.OnComplete != nil {
		c.OnComplete()
	}
}

func (c ResolverCallbacks) fail(message string) {
	if c.OnError != nil {
		c.OnError(message)
	}
}
