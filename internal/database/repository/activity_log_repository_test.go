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

func TestActivityLogRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewActivityLogRepository(testutil.NewTestDB(t))
	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.ActivityLog{
			UserID:    userID,
			Action:    models.ActionLogin,
			Message:   "User logged in",
			Details:   map[string]any{"n": i},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt), "newest first")
	assert.Equal(t, models.LogInfo, page[0].Status)
	assert.EqualValues(t, 4, page[0].Details["n"])

	last, _, err := repo.List(ctx, 4, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)

	empty, total, err := repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, int64(5), total)
}
