package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/repository"
)

// PostService defines the interface for post business logic. Deletion and
// restoration live in LifecycleService.
type PostService interface {
	Create(ctx context.Context, author *models.User, title, body string) (*models.Post, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, in PostUpdate) (*models.Post, error)
	// Get returns a live post to anyone. A deleted post is returned only to
	// its author or an admin; viewer may be nil.
	Get(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, title string) ([]models.Post, error)
	ListByAuthor(ctx context.Context, viewer *models.User, authorID uuid.UUID, title string) ([]models.Post, error)
}

// PostUpdate carries the optional fields of an edit.
type PostUpdate struct {
	Title *string
	Body  *string
}

type postService struct {
	postRepo repository.PostRepository
	activity ActivityService
	logger   *slog.Logger
}

// NewPostService creates a new post service instance
func NewPostService(postRepo repository.PostRepository, activity ActivityService, logger *slog.Logger) PostService {
	return &postService{
		postRepo: postRepo,
		activity: activity,
		logger:   logger,
	}
}

func (s *postService) Create(ctx context.Context, author *models.User, title, body string) (*models.Post, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, validationError("title and body are required")
	}

	post := &models.Post{Title: title, Body: body, AuthorID: author.ID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("❌ [PostService] Failed to create post", "error", err)
		return nil, upstreamError("create post", err)
	}

	s.logger.Info("📝 [PostService] Post created", "post_id", post.ID, "author_id", author.ID)
	s.activity.Record(ctx, ActivityEntry{
		UserID:  author.ID,
		Action:  models.ActionCreatePost,
		PostID:  &post.ID,
		Status:  models.LogSuccess,
		Message: "Post created",
		Details: map[string]any{"title": title},
	})
	return post, nil
}

func (s *postService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in PostUpdate) (*models.Post, error) {
	if in.Title == nil && in.Body == nil {
		return nil, validationError("at least one field (title or body) must be provided")
	}

	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, ErrNotOwner
	}
	if post.IsDeleted {
		return nil, ErrPostDeleted
	}

	title, body := post.Title, post.Body
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		body = strings.TrimSpace(*in.Body)
	}
	if title == "" || body == "" {
		return nil, validationError("title and body cannot be empty")
	}

	dup, err := s.postRepo.ExistsDuplicate(ctx, title, body, post.ID)
	if err != nil {
		return nil, upstreamError("check duplicate post", err)
	}
	if dup {
		return nil, ErrDuplicatePost
	}

	applied, err := s.postRepo.Update(ctx, post.ID, title, body)
	if err != nil {
		return nil, upstreamError("update post", err)
	}
	if !applied {
		// Deleted between the read and the write.
		return nil, ErrPostDeleted
	}

	updated, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✏️ [PostService] Post updated", "post_id", id, "actor_id", actor.ID)
	s.activity.Record(ctx, ActivityEntry{
		UserID:  actor.ID,
		Action:  models.ActionUpdatePost,
		PostID:  &updated.ID,
		Status:  models.LogSuccess,
		Message: "Post updated",
		Details: map[string]any{"title": title},
	})
	return updated, nil
}

func (s *postService) Get(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted && (viewer == nil || (!post.IsOwnedBy(viewer.ID) && !viewer.IsAdmin())) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, title string) ([]models.Post, error) {
	posts, err := s.postRepo.ListActive(ctx, title)
	if err != nil {
		s.logger.Error("❌ [PostService] Failed to list posts", "error", err)
		return nil, upstreamError("list posts", err)
	}
	return nonNil(posts), nil
}

func (s *postService) ListByAuthor(ctx context.Context, viewer *models.User, authorID uuid.UUID, title string) ([]models.Post, error) {
	posts, err := s.postRepo.ListActiveByAuthor(ctx, authorID, title)
	if err != nil {
		s.logger.Error("❌ [PostService] Failed to list author posts", "author_id", authorID, "error", err)
		return nil, upstreamError("list author posts", err)
	}

	entry := success(viewer.ID, models.ActionViewUserPosts, "Viewed posts of a user")
	entry.Details = map[string]any{"authorId": authorID.String(), "count": len(posts)}
	s.activity.Record(ctx, entry)
	return nonNil(posts), nil
}

func (s *postService) find(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, err
		}
		return nil, upstreamError("find post", err)
	}
	return post, nil
}

func nonNil(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
