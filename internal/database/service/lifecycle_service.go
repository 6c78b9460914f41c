package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/repository"
	"github.com/blogify-press/backend-go/internal/metrics"
)

// LifecycleService moves users and posts between the active and deleted
// states. Every transition is one conditional update; when it matches no row
// the record is re-read only to name the failure.
type LifecycleService interface {
	DeleteUser(ctx context.Context, actor *models.User, targetID uuid.UUID) (*models.User, error)
	RestoreUser(ctx context.Context, actor *models.User, targetID uuid.UUID) (*models.User, error)
	DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) (*models.Post, error)
	RestorePost(ctx context.Context, actor *models.User, postID uuid.UUID) (*models.Post, error)
}

type lifecycleService struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	activity ActivityService
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewLifecycleService creates a new lifecycle service instance
func NewLifecycleService(
	users repository.UserRepository,
	posts repository.PostRepository,
	activity ActivityService,
	m *metrics.Metrics,
	logger *slog.Logger,
) LifecycleService {
	return &lifecycleService{
		users:    users,
		posts:    posts,
		activity: activity,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *lifecycleService) DeleteUser(ctx context.Context, actor *models.User, targetID uuid.UUID) (user *models.User, err error) {
	defer func() { s.metrics.Transition("user", "delete", err) }()

	isOwner := actor.ID == targetID
	if !isOwner && !actor.IsAdmin() {
		s.logger.Warn("⚠️ [Lifecycle] Delete denied", "actor_id", actor.ID, "target_id", targetID)
		return nil, ErrNotOwner
	}

	// Self-deletion keeps the account self-restorable; an admin deleting
	// someone else locks the owner out of restoring it.
	canRestore := isOwner

	applied, err := s.users.SoftDelete(ctx, targetID, canRestore, s.now())
	if err != nil {
		return nil, upstreamError("soft delete user", err)
	}
	if !applied {
		current, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			return nil, s.lookupError("user", err)
		}
		if current.IsDeleted {
			return nil, ErrAlreadyDeleted
		}
		return nil, ErrConcurrentChange
	}

	user, err = s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, s.lookupError("user", err)
	}

	s.logger.Info("🗑️ [Lifecycle] User soft-deleted",
		"actor_id", actor.ID,
		"target_id", targetID,
		"can_restore", canRestore,
	)
	s.activity.Record(ctx, ActivityEntry{
		UserID:  actor.ID,
		Action:  models.ActionDeleteUser,
		Status:  models.LogSuccess,
		Message: "User account deleted",
		Details: map[string]any{"targetUserId": targetID.String(), "canRestore": canRestore},
	})
	return user.Sanitized(), nil
}

func (s *lifecycleService) RestoreUser(ctx context.Context, actor *models.User, targetID uuid.UUID) (user *models.User, err error) {
	defer func() { s.metrics.Transition("user", "restore", err) }()

	isAdmin := actor.IsAdmin()
	if actor.ID != targetID && !isAdmin {
		s.logger.Warn("⚠️ [Lifecycle] Restore denied", "actor_id", actor.ID, "target_id", targetID)
		return nil, ErrNotOwner
	}

	applied, err := s.users.Restore(ctx, targetID, !isAdmin, s.now())
	if err != nil {
		return nil, upstreamError("restore user", err)
	}
	if !applied {
		current, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			return nil, s.lookupError("user", err)
		}
		switch {
		case !current.IsDeleted:
			return nil, ErrNotDeleted
		case !current.CanRestore && !isAdmin:
			s.logger.Warn("⚠️ [Lifecycle] Self-restore of admin deletion denied", "target_id", targetID)
			return nil, ErrRestoreNotAllowed
		default:
			return nil, ErrConcurrentChange
		}
	}

	user, err = s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, s.lookupError("user", err)
	}

	s.logger.Info("♻️ [Lifecycle] User restored", "actor_id", actor.ID, "target_id", targetID)
	s.activity.Record(ctx, ActivityEntry{
		UserID:  actor.ID,
		Action:  models.ActionRestoreUser,
		Status:  models.LogSuccess,
		Message: "User account restored",
		Details: map[string]any{"targetUserId": targetID.String()},
	})
	return user.Sanitized(), nil
}

func (s *lifecycleService) DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) (post *models.Post, err error) {
	defer func() { s.metrics.Transition("post", "delete", err) }()

	if err := s.authorizePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	applied, err := s.posts.SoftDelete(ctx, postID, actor.ID, s.now())
	if err != nil {
		return nil, upstreamError("soft delete post", err)
	}
	if !applied {
		return nil, s.classifyPostMiss(ctx, postID, true)
	}

	post, err = s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, s.lookupError("post", err)
	}

	s.logger.Info("🗑️ [Lifecycle] Post soft-deleted", "actor_id", actor.ID, "post_id", postID)
	s.activity.Record(ctx, ActivityEntry{
		UserID:  actor.ID,
		Action:  models.ActionDeletePost,
		PostID:  &post.ID,
		Status:  models.LogSuccess,
		Message: "Post deleted",
		Details: map[string]any{"title": post.Title},
	})
	return post, nil
}

func (s *lifecycleService) RestorePost(ctx context.Context, actor *models.User, postID uuid.UUID) (post *models.Post, err error) {
	defer func() { s.metrics.Transition("post", "restore", err) }()

	if err := s.authorizePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	applied, err := s.posts.Restore(ctx, postID, s.now())
	if err != nil {
		return nil, upstreamError("restore post", err)
	}
	if !applied {
		return nil, s.classifyPostMiss(ctx, postID, false)
	}

	post, err = s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, s.lookupError("post", err)
	}

	s.logger.Info("♻️ [Lifecycle] Post restored", "actor_id", actor.ID, "post_id", postID)
	s.activity.Record(ctx, ActivityEntry{
		UserID:  actor.ID,
		Action:  models.ActionRestorePost,
		PostID:  &post.ID,
		Status:  models.LogSuccess,
		Message: "Post restored",
		Details: map[string]any{"title": post.Title},
	})
	return post, nil
}

// authorizePost checks ownership. The author never changes, so reading it
// ahead of the conditional update does not race with it.
func (s *lifecycleService) authorizePost(ctx context.Context, actor *models.User, postID uuid.UUID) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return s.lookupError("post", err)
	}
	if !post.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		s.logger.Warn("⚠️ [Lifecycle] Post transition denied", "actor_id", actor.ID, "post_id", postID)
		return ErrNotOwner
	}
	return nil
}

func (s *lifecycleService) classifyPostMiss(ctx context.Context, postID uuid.UUID, deleting bool) error {
	current, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return s.lookupError("post", err)
	}
	switch {
	case deleting && current.IsDeleted:
		return ErrAlreadyDeleted
	case !deleting && !current.IsDeleted:
		return ErrNotDeleted
	default:
		return ErrConcurrentChange
	}
}

func (s *lifecycleService) lookupError(entity string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return upstreamError("find "+entity, err)
}
