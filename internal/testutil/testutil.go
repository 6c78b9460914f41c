// Package testutil holds the shared fixtures of the package tests: mocks for
// the repository and service interfaces, an in-memory record store and
// ready-made accounts.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blogify-press/backend-go/internal/config"
	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/token"
)

const (
	TestAccessSecret  = "test-access-secret"
	TestRefreshSecret = "test-refresh-secret"
)

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestConfig returns a development config pointing at nothing external.
func NewTestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		AccessTokenSecret:      TestAccessSecret,
		RefreshTokenSecret:     TestRefreshSecret,
		AccessTokenExpiration:  900,
		RefreshTokenExpiration: 604800,
		ResetTokenExpiration:   900,
		BcryptCost:             4,
		RateLimitRequests:      20,
		RateLimitWindow:        15 * time.Minute,
		ActivityLogBackend:     "postgres",
		EmailProvider:          "log",
		SenderEmail:            "no-reply@blogify.test",
		SenderName:             "Blogify Test",
		FrontendURL:            "http://frontend.test",
	}
}

// NewTokenManager returns a manager using the test secrets and the given
// clock, or the wall clock when now is nil.
func NewTokenManager(t testing.TB, now func() time.Time) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Options{
		AccessSecret:  TestAccessSecret,
		RefreshSecret: TestRefreshSecret,
		Now:           now,
	})
	require.NoError(t, err)
	return m
}

// NewTestDB opens a private in-memory SQLite database with the schema
// migrated. Errors are translated the same way as in production.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database alive and serializes
	// the background activity writes.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.ActivityLog{}))
	return db
}

// SeedUser inserts an account whose password hash is hash.
func SeedUser(t testing.TB, db *gorm.DB, username string, role models.Role, hash string) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   hash,
		Role:       role,
		CanRestore: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedPost inserts a live post by author.
func SeedPost(t testing.TB, db *gorm.DB, author *models.User, title, body string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Body: body, AuthorID: author.ID}
	require.NoError(t, db.Omit("Author").Create(post).Error)
	return post
}

// InlineTasks runs submitted tasks synchronously, so that background work
// is finished by the time the call under test returns.
type InlineTasks struct {
	mu    sync.Mutex
	count int
}

func (t *InlineTasks) SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) bool {
	t.mu.Lock()
	t.count++
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	task(ctx)
	return true
}

// Count returns how many tasks ran.
func (t *InlineTasks) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
