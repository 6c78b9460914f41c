package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/middleware"
)

// PostHandler handles blog post requests
type PostHandler struct {
	posts     service.PostService
	lifecycle service.LifecycleService
	logger    *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts service.PostService, lifecycle service.LifecycleService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:     posts,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required"`
}

type UpdatePostRequest struct {
	Title *string `json:"title" binding:"omitempty,max=200"`
	Body  *string `json:"body"`
}

// Create handles POST /blog
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and body are required"})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), req.Title, req.Body)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": post})
}

// Update handles PATCH /blog/:id
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field (title or body) must be provided"})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), middleware.CurrentUser(c), id, service.PostUpdate{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": post})
}

// Delete handles POST /blog/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	post, err := h.lifecycle.DeletePost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully", "post": post})
}

// Restore handles PATCH /blog/restore/:id
func (h *PostHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	post, err := h.lifecycle.RestorePost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post restored successfully", "post": post})
}

// List handles GET /blog?title=
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), c.Query("title"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get handles GET /blog/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	post, err := h.posts.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListByAuthor handles GET /blog/user/:userId?title=
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := parseID(c, h.logger, "userId")
	if !ok {
		return
	}

	posts, err := h.posts.ListByAuthor(c.Request.Context(), middleware.CurrentUser(c), authorID, c.Query("title"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
