package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/service"
)

// AdminHandler handles admin-only reporting endpoints
type AdminHandler struct {
	activity service.ActivityService
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(activity service.ActivityService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		activity: activity,
		logger:   logger,
	}
}

// ListLogs handles GET /logs?page=&limit=
func (h *AdminHandler) ListLogs(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	limit, err := queryInt(c, "limit", service.DefaultLogPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	h.logger.Debug("📊 [AdminHandler] Listing activity logs", "page", page, "limit", limit)

	result, err := h.activity.List(c.Request.Context(), page, limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
