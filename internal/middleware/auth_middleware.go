package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/service"
)

// Cookie names carrying the session tokens.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

type userKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user attached by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey{}).(*models.User)
	return user
}

// CurrentUser is UserFromContext for a gin request.
func CurrentUser(c *gin.Context) *models.User {
	return UserFromContext(c.Request.Context())
}

// AuthMiddleware resolves the access-token cookie to a live account.
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth rejects the request with 401 unless the access cookie names a
// live account, which it then attaches to the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(AccessCookie)
		if err != nil || tok == "" {
			m.logger.Warn("⚠️ [Middleware] Missing access token cookie", "path", c.FullPath())
			abortUnauthenticated(c)
			return
		}

		user, err := m.service.Authenticate(c.Request.Context(), tok)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
				abortUnauthenticated(c)
				return
			}
			m.logger.Error("❌ [Middleware] Failed to resolve session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", user.ID)

		c.Next()
	}
}

// OptionalAuth attaches the user when a valid access cookie is present and
// lets the request through either way.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, err := c.Cookie(AccessCookie); err == nil && tok != "" {
			if user, err := m.service.Authenticate(c.Request.Context(), tok); err == nil {
				c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
			}
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth. It rejects with 403 when the
// user's role is not among roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthenticated(c)
			return
		}
		if !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
}
