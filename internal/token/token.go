// Package token mints and verifies the signed, time-limited credentials used by
// the session layer. Each token class is bound to its own secret and lifetime,
// so a token of one class never validates as another.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Class identifies which secret and lifetime a token is bound to.
type Class string

const (
	Access  Class = "access"
	Refresh Class = "refresh"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultResetTTL   = 15 * time.Minute
)

var (
	// ErrInvalidToken covers bad signatures, expiry and malformed input alike.
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnknownClass = errors.New("unknown token class")
	ErrWeakSecrets  = errors.New("access and refresh secrets must be non-empty and distinct")
	ErrEmptySubject = errors.New("token subject is required")
)

// Options configures a Manager. Zero TTLs fall back to the defaults.
type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
	// Now overrides the clock used for issuing and validating. Tests use it to
	// simulate elapsed time.
	Now func() time.Time
}

// Manager issues and validates access, refresh and password-reset tokens.
type Manager struct {
	secrets  map[Class][]byte
	ttls     map[Class]time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewManager validates the secret material and returns a ready Manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.AccessSecret == "" || opts.RefreshSecret == "" || opts.AccessSecret == opts.RefreshSecret {
		return nil, ErrWeakSecrets
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		secrets: map[Class][]byte{
			Access:  []byte(opts.AccessSecret),
			Refresh: []byte(opts.RefreshSecret),
		},
		ttls: map[Class]time.Duration{
			Access:  orDefault(opts.AccessTTL, DefaultAccessTTL),
			Refresh: orDefault(opts.RefreshTTL, DefaultRefreshTTL),
		},
		resetTTL: orDefault(opts.ResetTTL, DefaultResetTTL),
		now:      now,
	}, nil
}

// TTL returns the lifetime bound to class, or zero for an unknown class.
func (m *Manager) TTL(class Class) time.Duration {
	return m.ttls[class]
}

// ResetTTL returns the lifetime of password-reset tokens.
func (m *Manager) ResetTTL() time.Duration {
	return m.resetTTL
}

// Issue signs a token for subject using the secret and lifetime of class.
// It returns the token string and its expiry.
func (m *Manager) Issue(class Class, subject string) (string, time.Time, error) {
	secret, ok := m.secrets[class]
	if !ok {
		return "", time.Time{}, ErrUnknownClass
	}
	return m.sign(subject, secret, m.ttls[class])
}

// Validate checks signature and expiry against the secret of class and
// returns the embedded subject.
func (m *Manager) Validate(class Class, tokenString string) (string, error) {
	secret, ok := m.secrets[class]
	if !ok {
		return "", ErrUnknownClass
	}
	return m.parse(tokenString, secret)
}

// IssueReset signs a password-reset token whose secret is derived from the
// access secret and the user's current password hash. Any password change
// therefore invalidates every reset token issued before it.
func (m *Manager) IssueReset(subject, passwordHash string) (string, time.Time, error) {
	return m.sign(subject, m.resetSecret(passwordHash), m.resetTTL)
}

// ValidateReset verifies a reset token against the user's current password
// hash and checks that it was issued for subject.
func (m *Manager) ValidateReset(tokenString, subject, passwordHash string) error {
	got, err := m.parse(tokenString, m.resetSecret(passwordHash))
	if err != nil {
		return err
	}
	if got != subject {
		return ErrInvalidToken
	}
	return nil
}

func (m *Manager) resetSecret(passwordHash string) []byte {
	return append(append([]byte{}, m.secrets[Access]...), passwordHash...)
}

func (m *Manager) sign(subject string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	issuedAt := m.now()
	expiresAt := issuedAt.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *Manager) parse(tokenString string, secret []byte) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
