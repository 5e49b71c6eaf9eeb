// Package common defines shared constants and sentinel errors used across
// the server, the operator CLI and their repositories. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInUse         = errors.New("still referenced")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Business-rule violations.
	ErrNoCopiesAvailable    = errors.New("no copies available")
	ErrAlreadyReturned      = errors.New("book already returned")
	ErrPendingRequestExists = errors.New("pending request already exists")
	ErrInvalidRole          = errors.New("invalid role")
	ErrMemberInactive       = errors.New("member is not active")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// IsBusinessError reports whether err is a rule violation that should be
// surfaced to the caller as a client error rather than logged as a failure.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrNoCopiesAvailable,
		ErrAlreadyReturned,
		ErrPendingRequestExists,
		ErrInvalidRole,
		ErrMemberInactive,
		ErrorValidation,
		ErrorAlreadyExists,
		ErrorInUse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
