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

// UserRepository defines the interface for user data operations.
//
// Lookups named Active skip soft-deleted accounts; the others return any
// record so that lifecycle transitions can classify their failures.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SoftDelete(ctx context.Context, id uuid.UUID, canRestore bool, at time.Time) (bool, error)
	Restore(ctx context.Context, id uuid.UUID, requireRestorable bool, at time.Time) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// NormalizeEmail trims and lower-cases an address. Every read and write of
// users.email goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, r.db.Where("email = ?", NormalizeEmail(email)))
}

func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, r.db.Where("email = ? AND is_deleted = ?", NormalizeEmail(email), false))
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, r.db.Where("id = ?", id))
}

func (r *userRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, r.db.Where("id = ? AND is_deleted = ?", id, false))
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"username":   username,
			"email":      NormalizeEmail(email),
			"updated_at": time.Now().UTC(),
		})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"password":   passwordHash,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SoftDelete flips a live account to deleted in a single conditional update.
// It reports false when no live row matched.
func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID, canRestore bool, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted":  true,
			"deleted_at":  at,
			"can_restore": canRestore,
			"updated_at":  at,
		})
	return res.RowsAffected == 1, res.Error
}

// Restore flips a deleted account back to live. With requireRestorable the
// update only matches accounts whose owner may restore them.
func (r *userRepository) Restore(ctx context.Context, id uuid.UUID, requireRestorable bool, at time.Time) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", id, true)
	if requireRestorable {
		q = q.Where("can_restore = ?", true)
	}
	res := q.Updates(map[string]any{
		"is_deleted":  false,
		"deleted_at":  nil,
		"can_restore": true,
		"updated_at":  at,
	})
	return res.RowsAffected == 1, res.Error
}

func (r *userRepository) first(ctx context.Context, q *gorm.DB) (*models.User, error) {
	var user models.User
	err := q.WithContext(ctx).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
