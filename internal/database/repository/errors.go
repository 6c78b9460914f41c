package repository

import (
	"errors"
	"fmt"
)

// Repository errors
var (
	// ErrNotFound is the root of every lookup miss. The service layer reports
	// it as a 404.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	ErrDuplicateEmail = errors.New("email already registered")
)
