package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/email"
)

// SubscriptionHandler sends newsletter confirmations
type SubscriptionHandler struct {
	mailer email.Sender
	logger *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(mailer email.Sender, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		mailer: mailer,
		logger: logger,
	}
}

type ThankYouRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ThankYou handles POST /subscription/thank-you
func (h *SubscriptionHandler) ThankYou(c *gin.Context) {
	var req ThankYouRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A valid email is required."})
		return
	}

	msg, err := email.ThankYou(req.Email)
	if err == nil {
		err = h.mailer.SendEmail(c.Request.Context(), msg)
	}
	if err != nil {
		h.logger.Error("❌ [SubscriptionHandler] Failed to send thank-you email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send email."})
		return
	}

	h.logger.Info("📧 [SubscriptionHandler] Thank-you email sent")
	c.JSON(http.StatusOK, gin.H{"message": "Thank you email sent successfully."})
}
