package service

import (
	"errors"
	"fmt"

	"github.com/blogify-press/backend-go/internal/database/repository"
)

// Error taxonomy. Handlers map these roots to HTTP statuses; specific errors
// below wrap exactly one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = repository.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrUpstream           = errors.New("upstream failure")
)

// Service errors
var (
	ErrUserNotFound = repository.ErrUserNotFound
	ErrPostNotFound = repository.ErrPostNotFound

	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)

	ErrEmailAlreadyExists = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAlreadyDeleted     = fmt.Errorf("%w: already deleted", ErrConflict)
	ErrNotDeleted         = fmt.Errorf("%w: not deleted", ErrConflict)
	ErrPostDeleted        = fmt.Errorf("%w: post is deleted", ErrConflict)
	ErrDuplicatePost      = fmt.Errorf("%w: post with same title and body already exists", ErrConflict)
	ErrConcurrentChange   = fmt.Errorf("%w: record changed concurrently", ErrConflict)

	ErrNotOwner          = fmt.Errorf("%w: not the owner", ErrForbidden)
	ErrAdminOnly         = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrRestoreNotAllowed = fmt.Errorf("%w: account was deleted by an administrator", ErrForbidden)

	ErrCaptchaFailed     = fmt.Errorf("%w: reCAPTCHA verification failed", ErrValidation)
	ErrInvalidResetToken = fmt.Errorf("%w: invalid or expired token", ErrValidation)
)

// validationError reports rejected input before the store is touched.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// upstreamError wraps a store, hashing or third-party failure. The cause is
// kept for logging; handlers never echo it.
func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
