package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns ErrInvalidCredentials on mismatch and an upstream
	// error for anything else.
	Compare(hash, password string) error
}

// BcryptHasher is the production PasswordHasher.
type BcryptHasher struct {
	cost  int
	dummy string
}

// NewBcryptHasher clamps cost to the range bcrypt accepts.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("blogify-dummy-password"), cost)
	if err != nil {
		dummy = []byte(fallbackDummyHash)
	}
	return &BcryptHasher{cost: cost, dummy: string(dummy)}
}

// DummyHash is a hash of no real password made at the hasher's cost.
// Comparing against it takes as long as checking a real account.
func (h *BcryptHasher) DummyHash() string {
	return h.dummy
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validationError("password must be at most 72 bytes")
	}
	if err != nil {
		return "", upstreamError("hash password", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidCredentials
	default:
		return upstreamError("compare password", err)
	}
}
