package errors

import "errors"

var (
	ErrSessionRequired    = errors.New("identity session required")
	ErrEmailMissing       = errors.New("session has no resolvable email")
	ErrIdentityMismatch   = errors.New("asserted identity does not match session")
	ErrRecordNotFound     = errors.New("authorization record not found")
	ErrStoreUnavailable   = errors.New("authorization record store unavailable")
	ErrAdminRequired      = errors.New("admin capability required")
	ErrDuplicateRecord    = errors.New("authorization record already exists")
	ErrInvalidApplication = errors.New("invalid dealer application")
	ErrInvalidStatus      = errors.New("invalid dealer status")
)
