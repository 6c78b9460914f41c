package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blogify-press/backend-go/internal/config"
	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/repository"
	"github.com/blogify-press/backend-go/internal/email"
	"github.com/blogify-press/backend-go/internal/metrics"
	"github.com/blogify-press/backend-go/internal/recaptcha"
	"github.com/blogify-press/backend-go/internal/token"
)

const (
	MinPasswordLength      = 8
	MinResetPasswordLength = 6
)

// fallbackDummyHash is used when the hasher cannot supply a dummy hash at
// its own cost.
const fallbackDummyHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

// dummyHasher is implemented by hashers that can supply a hash to compare
// against when no account matches, so that a miss costs as much as a wrong
// password.
type dummyHasher interface {
	DummyHash() string
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, *Session, error)
	// VerifyCredentials returns the live account matching email, password
	// stripped. It fails with ErrUserNotFound or ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, in LoginInput) (*models.User, *Session, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.User, *IssuedToken, error)
	Reactivate(ctx context.Context, email, password string) (*models.User, *Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, resetToken, newPassword string) error
	ChangePassword(ctx context.Context, actor *models.User, currentPassword, newPassword string) error
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	CaptchaToken string
}

// LoginInput carries the sign-in form.
type LoginInput struct {
	Email        string
	Password     string
	CaptchaToken string
}

// IssuedToken is a signed token and its lifetime.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
	MaxAge    time.Duration
}

// Session is the access and refresh pair set as cookies after sign-in.
type Session struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// AuthDeps groups the collaborators of the auth service.
type AuthDeps struct {
	Users     repository.UserRepository
	Tokens    *token.Manager
	Hasher    PasswordHasher
	Lifecycle LifecycleService
	Activity  ActivityService
	Mailer    email.Sender
	Captcha   recaptcha.Verifier
	Metrics   *metrics.Metrics
}

type authService struct {
	AuthDeps
	dummyHash string
	cfg       *config.Config
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(deps AuthDeps, cfg *config.Config, logger *slog.Logger) AuthService {
	dummy := fallbackDummyHash
	if h, ok := deps.Hasher.(dummyHasher); ok {
		dummy = h.DummyHash()
	}
	return &authService{
		AuthDeps:  deps,
		dummyHash: dummy,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (user *models.User, session *Session, err error) {
	defer func() { s.Metrics.AuthEvent("signup", err) }()

	username := strings.TrimSpace(in.Username)
	addr := repository.NormalizeEmail(in.Email)
	s.logger.Info("📝 [AuthService] Registration attempt", "email", addr, "username", username)

	if username == "" {
		return nil, nil, validationError("username is required")
	}
	if err := validateEmail(addr); err != nil {
		return nil, nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, nil, validationError("password must be at least %d characters", MinPasswordLength)
	}

	if err := s.verifyCaptcha(ctx, in.CaptchaToken); err != nil {
		return nil, nil, err
	}

	existing, err := s.Users.FindByEmail(ctx, addr)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, upstreamError("find user by email", err)
	}
	if existing != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", addr)
		return nil, nil, ErrEmailAlreadyExists
	}

	hashed, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user = &models.User{
		Username:   username,
		Email:      addr,
		Password:   hashed,
		Role:       models.RoleUser,
		CanRestore: true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, nil, upstreamError("create user", err)
	}

	session, err = s.issueSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	s.Activity.Record(ctx, success(user.ID, models.ActionSignup, "User signed up"))
	return user.Sanitized(), session, nil
}

func (s *authService) VerifyCredentials(ctx context.Context, addr, password string) (*models.User, error) {
	user, err := s.Users.FindActiveByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.Hasher.Compare(s.dummyHash, password)
			return nil, ErrUserNotFound
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, upstreamError("find user by email", err)
	}

	if err := s.Hasher.Compare(user.Password, password); err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (user *models.User, session *Session, err error) {
	defer func() { s.Metrics.AuthEvent("signin", err) }()

	addr := repository.NormalizeEmail(in.Email)
	s.logger.Info("🔐 [AuthService] Login attempt", "email", addr)

	if addr == "" || in.Password == "" {
		return nil, nil, validationError("email and password are required")
	}
	if err := s.verifyCaptcha(ctx, in.CaptchaToken); err != nil {
		return nil, nil, err
	}

	user, err = s.VerifyCredentials(ctx, addr, in.Password)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidCredentials) {
			s.logger.Warn("⚠️ [AuthService] Invalid credentials", "email", addr)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	session, err = s.issueSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	s.Activity.Record(ctx, success(user.ID, models.ActionLogin, "User logged in"))
	return user, session, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (user *models.User, err error) {
	defer func() { s.Metrics.AuthEvent("session", err) }()
	return s.resolve(ctx, token.Access, accessToken)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (user *models.User, access *IssuedToken, err error) {
	defer func() { s.Metrics.AuthEvent("refresh", err) }()

	user, err = s.resolve(ctx, token.Refresh, refreshToken)
	if err != nil {
		s.logger.Warn("⚠️ [AuthService] Refresh rejected", "error", err)
		return nil, nil, err
	}

	access, err = s.issue(token.Access, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("🔄 [AuthService] Access token refreshed", "user_id", user.ID)
	return user, access, nil
}

func (s *authService) Reactivate(ctx context.Context, addr, password string) (*models.User, *Session, error) {
	addr = repository.NormalizeEmail(addr)
	s.logger.Info("♻️ [AuthService] Reactivation attempt", "email", addr)

	account, err := s.Users.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.Hasher.Compare(s.dummyHash, password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, upstreamError("find user by email", err)
	}
	if err := s.Hasher.Compare(account.Password, password); err != nil {
		return nil, nil, err
	}
	if !account.IsDeleted {
		return nil, nil, ErrNotDeleted
	}

	user, err := s.Lifecycle.RestoreUser(ctx, account.Sanitized(), account.ID)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.issueSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, addr string) error {
	addr = repository.NormalizeEmail(addr)
	if err := validateEmail(addr); err != nil {
		return err
	}

	user, err := s.Users.FindActiveByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Info("📭 [AuthService] Password reset for unknown email", "email", addr)
			return nil
		}
		return upstreamError("find user by email", err)
	}

	resetToken, _, err := s.Tokens.IssueReset(user.ID.String(), user.Password)
	if err != nil {
		return upstreamError("issue reset token", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s/%s", s.cfg.FrontendURL, user.ID, resetToken)
	msg, err := email.PasswordReset(user.Email, link, int(s.Tokens.ResetTTL().Minutes()))
	if err != nil {
		return upstreamError("render reset email", err)
	}
	if err := s.Mailer.SendEmail(ctx, msg); err != nil {
		s.logger.Error("❌ [AuthService] Failed to send reset email", "user_id", user.ID, "error", err)
		return upstreamError("send reset email", err)
	}

	s.logger.Info("📧 [AuthService] Password reset email sent", "user_id", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, userID uuid.UUID, resetToken, newPassword string) error {
	if len(newPassword) < MinResetPasswordLength {
		return validationError("password must be at least %d characters", MinResetPasswordLength)
	}

	user, err := s.Users.FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return validationError("user does not exist")
		}
		return upstreamError("find user", err)
	}

	if err := s.Tokens.ValidateReset(resetToken, user.ID.String(), user.Password); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid reset token", "user_id", userID)
		return ErrInvalidResetToken
	}

	if err := s.updatePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	s.logger.Info("🔑 [AuthService] Password reset", "user_id", user.ID)
	s.Activity.Record(ctx, success(user.ID, models.ActionResetPassword, "Password reset via email link"))
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, actor *models.User, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return validationError("password must be at least %d characters", MinPasswordLength)
	}

	user, err := s.Users.FindActiveByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return upstreamError("find user", err)
	}

	if err := s.Hasher.Compare(user.Password, currentPassword); err != nil {
		s.logger.Warn("⚠️ [AuthService] Wrong current password", "user_id", user.ID)
		return err
	}

	if err := s.updatePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	s.logger.Info("🔑 [AuthService] Password changed", "user_id", user.ID)
	s.Activity.Record(ctx, success(user.ID, models.ActionChangePassword, "Password changed"))
	return nil
}

func (s *authService) updatePassword(ctx context.Context, id uuid.UUID, password string) error {
	hashed, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, id, hashed); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return upstreamError("update password", err)
	}
	return nil
}

// resolve validates tok against class and loads the live account it names.
func (s *authService) resolve(ctx context.Context, class token.Class, tok string) (*models.User, error) {
	subject, err := s.Tokens.Validate(class, tok)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, upstreamError("find user", err)
	}
	return user.Sanitized(), nil
}

func (s *authService) issueSession(userID uuid.UUID) (*Session, error) {
	access, err := s.issue(token.Access, userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(token.Refresh, userID)
	if err != nil {
		return nil, err
	}
	return &Session{Access: *access, Refresh: *refresh}, nil
}

func (s *authService) issue(class token.Class, userID uuid.UUID) (*IssuedToken, error) {
	value, expiresAt, err := s.Tokens.Issue(class, userID.String())
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate token", "class", class, "error", err)
		return nil, upstreamError("issue token", err)
	}
	return &IssuedToken{Value: value, ExpiresAt: expiresAt, MaxAge: s.Tokens.TTL(class)}, nil
}

func (s *authService) verifyCaptcha(ctx context.Context, captchaToken string) error {
	err := s.Captcha.Verify(ctx, captchaToken, RequestMetaFrom(ctx).IP)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, recaptcha.ErrRejected):
		return ErrCaptchaFailed
	default:
		return upstreamError("verify captcha", err)
	}
}

func validateEmail(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return validationError("a valid email is required")
	}
	return nil
}
