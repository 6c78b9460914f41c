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

// UserService defines the interface for user business logic
type UserService interface {
	GetUser(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, actor *models.User) ([]models.User, error)
	UpdateProfile(ctx context.Context, actor *models.User, username, email string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	activity ActivityService
	logger   *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepository, activity ActivityService, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		activity: activity,
		logger:   logger,
	}
}

// GetUser returns the account to its owner, or any account, deleted ones
// included, to an admin.
func (s *userService) GetUser(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, ErrNotOwner
	}

	find := s.userRepo.FindActiveByID
	if actor.IsAdmin() {
		find = s.userRepo.FindByID
	}

	user, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, upstreamError("find user", err)
	}
	return user.Sanitized(), nil
}

func (s *userService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("❌ [UserService] Failed to list users", "error", err)
		return nil, upstreamError("list users", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *models.User, username, addr string) (*models.User, error) {
	username = strings.TrimSpace(username)
	addr = repository.NormalizeEmail(addr)

	if username == "" {
		return nil, validationError("username is required")
	}
	if err := validateEmail(addr); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByEmail(ctx, addr)
	switch {
	case err == nil && owner.ID != actor.ID:
		s.logger.Warn("⚠️ [UserService] Email taken", "user_id", actor.ID, "email", addr)
		return nil, ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		return nil, upstreamError("find user by email", err)
	}

	if err := s.userRepo.UpdateProfile(ctx, actor.ID, username, addr); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, err
		default:
			return nil, upstreamError("update profile", err)
		}
	}

	user, err := s.userRepo.FindActiveByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, upstreamError("reload user", err)
	}

	s.logger.Info("✏️ [UserService] Profile updated", "user_id", actor.ID)
	entry := success(actor.ID, models.ActionUpdateProfile, "Profile updated")
	entry.Details = map[string]any{"username": username, "email": addr}
	s.activity.Record(ctx, entry)
	return user.Sanitized(), nil
}
