package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/email"
)

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	return userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *MockUserRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error {
	return m.Called(ctx, id, username, email).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID, canRestore bool, at time.Time) (bool, error) {
	args := m.Called(ctx, id, canRestore, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Restore(ctx context.Context, id uuid.UUID, requireRestorable bool, at time.Time) (bool, error) {
	args := m.Called(ctx, id, requireRestorable, at)
	return args.Bool(0), args.Error(1)
}

func userResult(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK POST REPOSITORY ====================

// MockPostRepository implements repository.PostRepository for testing
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListActive(ctx context.Context, title string) ([]models.Post, error) {
	return postsResult(m.Called(ctx, title))
}

func (m *MockPostRepository) ListActiveByAuthor(ctx context.Context, authorID uuid.UUID, title string) ([]models.Post, error) {
	return postsResult(m.Called(ctx, authorID, title))
}

func (m *MockPostRepository) Update(ctx context.Context, id uuid.UUID, title, body string) (bool, error) {
	args := m.Called(ctx, id, title, body)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) ExistsDuplicate(ctx context.Context, title, body string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, title, body, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) SoftDelete(ctx context.Context, id, actorID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, actorID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Restore(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func postsResult(args mock.Arguments) ([]models.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

// ==================== MOCK ACTIVITY LOG REPOSITORY ====================

// MockActivityLogRepository implements repository.ActivityLogRepository for testing
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActivityLogRepository) List(ctx context.Context, offset, limit int) ([]models.ActivityLog, int64, error) {
	args := m.Called(ctx, offset, limit)
	var logs []models.ActivityLog
	if args.Get(0) != nil {
		logs = args.Get(0).([]models.ActivityLog)
	}
	return logs, args.Get(1).(int64), args.Error(2)
}

// ==================== MOCK SERVICES ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, *service.Session, error) {
	return sessionResult(m.Called(ctx, in))
}

func (m *MockAuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	return userResult(m.Called(ctx, email, password))
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (*models.User, *service.Session, error) {
	return sessionResult(m.Called(ctx, in))
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	return userResult(m.Called(ctx, accessToken))
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *service.IssuedToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.IssuedToken), args.Error(2)
}

func (m *MockAuthService) Reactivate(ctx context.Context, email, password string) (*models.User, *service.Session, error) {
	return sessionResult(m.Called(ctx, email, password))
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, userID uuid.UUID, resetToken, newPassword string) error {
	return m.Called(ctx, userID, resetToken, newPassword).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor *models.User, currentPassword, newPassword string) error {
	return m.Called(ctx, actor, currentPassword, newPassword).Error(0)
}

func sessionResult(args mock.Arguments) (*models.User, *service.Session, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.Session), args.Error(2)
}

// MockActivityService implements service.ActivityService for testing
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Record(ctx context.Context, entry service.ActivityEntry) {
	m.Called(ctx, entry)
}

func (m *MockActivityService) List(ctx context.Context, page, limit int) (*service.LogPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LogPage), args.Error(1)
}

// MockLifecycleService implements service.LifecycleService for testing
type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) DeleteUser(ctx context.Context, actor *models.User, targetID uuid.UUID) (*models.User, error) {
	return userResult(m.Called(ctx, actor, targetID))
}

func (m *MockLifecycleService) RestoreUser(ctx context.Context, actor *models.User, targetID uuid.UUID) (*models.User, error) {
	return userResult(m.Called(ctx, actor, targetID))
}

func (m *MockLifecycleService) DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, actor, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockLifecycleService) RestorePost(ctx context.Context, actor *models.User, postID uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, actor, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

// ==================== MOCK COLLABORATORS ====================

// MockHasher implements service.PasswordHasher for testing
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

// MockSender implements email.Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

// MockCaptcha implements recaptcha.Verifier for testing
type MockCaptcha struct {
	mock.Mock
}

func (m *MockCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	return m.Called(ctx, token, remoteIP).Error(0)
}
