package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blogify-press/backend-go/internal/database/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListActive(ctx context.Context, title string) ([]models.Post, error)
	ListActiveByAuthor(ctx context.Context, authorID uuid.UUID, title string) ([]models.Post, error)
	Update(ctx context.Context, id uuid.UUID, title, body string) (bool, error)
	ExistsDuplicate(ctx context.Context, title, body string, exclude uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error)
	Restore(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Author").First(post, "id = ?", post.ID).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListActive(ctx context.Context, title string) ([]models.Post, error) {
	return r.list(ctx, r.db.Where("is_deleted = ?", false), title)
}

func (r *postRepository) ListActiveByAuthor(ctx context.Context, authorID uuid.UUID, title string) ([]models.Post, error) {
	return r.list(ctx, r.db.Where("author_id = ? AND is_deleted = ?", authorID, false), title)
}

// Update rewrites title and body of a live post. It reports false when the
// post is missing or deleted.
func (r *postRepository) Update(ctx context.Context, id uuid.UUID, title, body string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"title":      title,
			"body":       body,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected == 1, res.Error
}

// ExistsDuplicate reports whether another live post carries exactly this
// title and body.
func (r *postRepository) ExistsDuplicate(ctx context.Context, title, body string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("title = ? AND body = ? AND is_deleted = ? AND id <> ?", title, body, false, exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) SoftDelete(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"deleted_by": actorID,
			"updated_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *postRepository) Restore(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]any{
			"is_deleted": false,
			"deleted_at": nil,
			"deleted_by": nil,
			"updated_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *postRepository) list(ctx context.Context, q *gorm.DB, title string) ([]models.Post, error) {
	if title = strings.TrimSpace(title); title != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(title))+"%")
	}

	var posts []models.Post
	if err := q.WithContext(ctx).Preload("Author").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
