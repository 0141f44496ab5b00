package util

import "errors"

// Authentication failures (401). The gate propagates these unchanged so the
// client can tell a missing header from a bad or stale token.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrTokenExpired      = errors.New("token expired")
	ErrUnknownSubject    = errors.New("unknown subject")
)

var (
	// ErrRoleForbidden is an authorization failure (403), distinct from the
	// authentication failures above.
	ErrRoleForbidden = errors.New("role forbidden")

	ErrNotFound         = errors.New("resource not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError carries a client-facing message for malformed input (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// IsAuthError reports whether err is one of the authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUnknownSubject)
}
