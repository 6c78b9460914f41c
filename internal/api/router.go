package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/handler"
	"github.com/blogify-press/backend-go/internal/metrics"
	"github.com/blogify-press/backend-go/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Post         *handler.PostHandler
	Admin        *handler.AdminHandler
	Subscription *handler.SubscriptionHandler
}

// RouterDeps are the cross-cutting pieces applied around the handlers.
type RouterDeps struct {
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    middleware.RateLimiter
	Sanitizer      *middleware.Sanitizer
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRouter(h Handlers, deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)

	r.Use(
		gin.Recovery(),
		middleware.Metrics(deps.Metrics),
		middleware.SecurityHeaders(),
		middleware.CORS(deps.AllowedOrigins),
	)

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RequestMeta(), deps.Sanitizer.Middleware())

	requireAuth := deps.AuthMiddleware.RequireAuth()
	throttle := func(scope string) gin.HandlerFunc {
		return middleware.Throttle(deps.RateLimiter, scope, deps.Logger)
	}

	users := api.Group("/users")
	{
		users.POST("/signup", throttle("signup"), h.Auth.Signup)
		users.POST("/signin", throttle("signin"), h.Auth.Signin)
		users.POST("/reactivate", throttle("reactivate"), h.Auth.Reactivate)
		users.POST("/logout", h.Auth.Logout)
		users.GET("/refresh", h.Auth.Refresh)

		users.PATCH("/profile/update", requireAuth, h.User.UpdateProfile)
		users.PATCH("/change-password", requireAuth, h.Auth.ChangePassword)
		users.PATCH("/delete/:id", requireAuth, h.User.DeleteUser)
		users.PATCH("/restore/:id", requireAuth, h.User.RestoreUser)
		users.GET("/:id", requireAuth, h.User.GetUser)
		users.GET("", requireAuth, middleware.RequireRole(models.RoleAdmin), h.User.ListUsers)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/reset-password", throttle("reset-password"), h.Auth.ForgotPassword)
		auth.POST("/reset-password/:id/:token", throttle("reset-password"), h.Auth.ResetPassword)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", h.Post.List)
		blog.GET("/:id", deps.AuthMiddleware.OptionalAuth(), h.Post.Get)
		blog.GET("/user/:userId", requireAuth, h.Post.ListByAuthor)
		blog.POST("", requireAuth, h.Post.Create)
		blog.PATCH("/:id", requireAuth, h.Post.Update)
		blog.POST("/:id", requireAuth, h.Post.Delete)
		blog.PATCH("/restore/:id", requireAuth, h.Post.Restore)
	}

	api.GET("/logs", requireAuth, middleware.RequireRole(models.RoleAdmin), h.Admin.ListLogs)
	api.POST("/subscription/thank-you", h.Subscription.ThankYou)

	return r
}
