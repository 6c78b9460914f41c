package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/repository"
	"github.com/blogify-press/backend-go/internal/testutil"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewTestDB(t))

	user := &models.User{Username: "alice", Email: "  Alice@Example.COM ", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)

	found, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.True(t, found.CanRestore)
	assert.False(t, found.IsDeleted)

	byID, err := repo.FindActiveByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.User{Username: "a", Email: "dup@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "b", Email: "DUP@example.com", Password: "y"})

	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewTestDB(t))

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_SoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	user := testutil.SeedUser(t, db, "bob", models.RoleUser, "hash")
	at := time.Now().UTC().Truncate(time.Second)

	applied, err := repo.SoftDelete(ctx, user.ID, false, at)
	require.NoError(t, err)
	assert.True(t, applied)

	// Active lookups skip the deleted account, plain ones still see it.
	_, err = repo.FindActiveByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.FindActiveByEmail(ctx, user.Email)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	deleted, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.CanRestore)
	require.NotNil(t, deleted.DeletedAt)
	assert.WithinDuration(t, at, *deleted.DeletedAt, time.Second)

	t.Run("second delete matches nothing", func(t *testing.T) {
		applied, err := repo.SoftDelete(ctx, user.ID, true, at)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("owner restore blocked when not restorable", func(t *testing.T) {
		applied, err := repo.Restore(ctx, user.ID, true, at)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("unconditional restore clears deletion", func(t *testing.T) {
		applied, err := repo.Restore(ctx, user.ID, false, at)
		require.NoError(t, err)
		assert.True(t, applied)

		restored, err := repo.FindActiveByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, restored.IsDeleted)
		assert.Nil(t, restored.DeletedAt)
		assert.True(t, restored.CanRestore)
	})

	t.Run("restore of live account matches nothing", func(t *testing.T) {
		applied, err := repo.Restore(ctx, user.ID, false, at)
		require.NoError(t, err)
		assert.False(t, applied)
	})
}

func TestUserRepository_UpdateProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	alice := testutil.SeedUser(t, db, "alice", models.RoleUser, "hash")
	bob := testutil.SeedUser(t, db, "bob", models.RoleUser, "hash")

	require.NoError(t, repo.UpdateProfile(ctx, alice.ID, "alice2", "Alice2@Example.com"))
	got, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "alice2@example.com", got.Email)

	err = repo.UpdateProfile(ctx, alice.ID, "alice2", bob.Email)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	require.NoError(t, repo.UpdatePassword(ctx, bob.ID, "newhash"))
	got, err = repo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.Password)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), repository.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	testutil.SeedUser(t, db, "a", models.RoleUser, "h")
	testutil.SeedUser(t, db, "b", models.RoleAdmin, "h")

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.c", repository.NormalizeEmail("  A@B.C\t"))
}
