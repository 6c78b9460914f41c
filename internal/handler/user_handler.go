package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/middleware"
)

// UserHandler handles account reads, profile edits and account lifecycle
type UserHandler struct {
	users     service.UserService
	lifecycle service.LifecycleService
	cookies   CookieWriter
	logger    *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserService, lifecycle service.LifecycleService, cookies CookieWriter, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		lifecycle: lifecycle,
		cookies:   cookies,
		logger:    logger,
	}
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email"`
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user}})
}

// ListUsers handles GET /users (admin)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"users": users}})
}

// UpdateProfile handles PATCH /users/profile/update
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and a valid email are required"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req.Username, req.Email)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    gin.H{"user": user},
	})
}

// DeleteUser handles PATCH /users/delete/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.lifecycle.DeleteUser(c.Request.Context(), actor, id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	// A deleted account can no longer use its session.
	if actor.ID == id {
		h.cookies.Clear(c)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
		"data":    gin.H{"user": user},
	})
}

// RestoreUser handles PATCH /users/restore/:id
func (h *UserHandler) RestoreUser(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	user, err := h.lifecycle.RestoreUser(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User restored successfully",
		"data":    gin.H{"user": user},
	})
}
