package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogify-press/backend-go/internal/token"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newManager(t *testing.T, clock *fakeClock) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Options{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Now:           clock.Now,
	})
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsWeakSecrets(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
	}{
		{"empty access", "", "refresh"},
		{"empty refresh", "access", ""},
		{"identical secrets", "same", "same"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := token.NewManager(token.Options{AccessSecret: tt.access, RefreshSecret: tt.refresh})
			assert.ErrorIs(t, err, token.ErrWeakSecrets)
			assert.Nil(t, m)
		})
	}
}

func TestManager_IssueAndValidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(t, clock)

	for _, class := range []token.Class{token.Access, token.Refresh} {
		t.Run(string(class), func(t *testing.T) {
			tok, exp, err := m.Issue(class, "user-1")
			require.NoError(t, err)
			assert.Equal(t, clock.now.Add(m.TTL(class)), exp)

			subject, err := m.Validate(class, tok)
			require.NoError(t, err)
			assert.Equal(t, "user-1", subject)
		})
	}
}

func TestManager_DefaultLifetimes(t *testing.T) {
	m := newManager(t, &fakeClock{now: time.Now()})

	assert.Equal(t, 15*time.Minute, m.TTL(token.Access))
	assert.Equal(t, 7*24*time.Hour, m.TTL(token.Refresh))
}

func TestManager_ClassSeparation(t *testing.T) {
	m := newManager(t, &fakeClock{now: time.Now()})

	for _, subject := range []string{"a", "user-42", "0b6f8a9e-5d1c-4d8e-9c53-2a1b7f6c0e11"} {
		refresh, _, err := m.Issue(token.Refresh, subject)
		require.NoError(t, err)
		_, err = m.Validate(token.Access, refresh)
		assert.ErrorIs(t, err, token.ErrInvalidToken, "refresh token accepted as access for %q", subject)

		access, _, err := m.Issue(token.Access, subject)
		require.NoError(t, err)
		_, err = m.Validate(token.Refresh, access)
		assert.ErrorIs(t, err, token.ErrInvalidToken, "access token accepted as refresh for %q", subject)
	}
}

func TestManager_ExpiryEnforced(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(t, clock)

	tok, _, err := m.Issue(token.Access, "user-1")
	require.NoError(t, err)

	clock.Advance(14 * time.Minute)
	_, err = m.Validate(token.Access, tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = m.Validate(token.Access, tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestManager_RefreshExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newManager(t, clock)

	tok, _, err := m.Issue(token.Refresh, "user-1")
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour + time.Second)
	_, err = m.Validate(token.Refresh, tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestManager_RejectsTamperedAndMalformed(t *testing.T) {
	m := newManager(t, &fakeClock{now: time.Now()})

	tok, _, err := m.Issue(token.Access, "user-1")
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	if tampered == tok {
		tampered = tok[:len(tok)-2] + "yy"
	}

	for _, input := range []string{"", "not-a-jwt", tampered} {
		_, err := m.Validate(token.Access, input)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	}
}

func TestManager_IssueRequiresSubject(t *testing.T) {
	m := newManager(t, &fakeClock{now: time.Now()})

	_, _, err := m.Issue(token.Access, "")
	assert.ErrorIs(t, err, token.ErrEmptySubject)

	_, _, err = m.Issue(token.Class("bogus"), "user-1")
	assert.ErrorIs(t, err, token.ErrUnknownClass)
}

func TestManager_ResetTokenRotatesWithPasswordHash(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newManager(t, clock)

	oldHash := "$2a$10$oldhasholdhasholdhasholdhasholdhasholdhashold"
	newHash := "$2a$10$newhashnewhashnewhashnewhashnewhashnewhashnew"

	tok, _, err := m.IssueReset("user-1", oldHash)
	require.NoError(t, err)

	require.NoError(t, m.ValidateReset(tok, "user-1", oldHash))
	assert.ErrorIs(t, m.ValidateReset(tok, "user-2", oldHash), token.ErrInvalidToken)
	assert.ErrorIs(t, m.ValidateReset(tok, "user-1", newHash), token.ErrInvalidToken)

	// A reset token is not an access token.
	_, err = m.Validate(token.Access, tok)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	clock.Advance(16 * time.Minute)
	assert.ErrorIs(t, m.ValidateReset(tok, "user-1", oldHash), token.ErrInvalidToken)
}
