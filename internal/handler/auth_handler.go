package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogify-press/backend-go/internal/database/service"
	"github.com/blogify-press/backend-go/internal/middleware"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service service.AuthService
	cookies CookieWriter
	logger  *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, cookies CookieWriter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		logger:  logger,
	}
}

// Request DTOs
type SignupRequest struct {
	Username       string `json:"username" binding:"required,min=1,max=50"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type SigninRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type ReactivateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// Signup handles POST /users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [AuthHandler] Invalid signup request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Username, email, and password (min 8 chars) required."})
		return
	}

	user, session, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		CaptchaToken: req.RecaptchaToken,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, session)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data":    gin.H{"user": user},
	})
}

// Signin handles POST /users/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [AuthHandler] Invalid signin request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Email and password required."})
		return
	}

	user, session, err := h.service.Login(c.Request.Context(), service.LoginInput{
		Email:        req.Email,
		Password:     req.Password,
		CaptchaToken: req.RecaptchaToken,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully",
		"data":    gin.H{"user": user},
	})
}

// Logout handles POST /users/logout. Tokens are stateless, so this only
// clears the cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// Refresh handles GET /users/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	tok, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || tok == "" {
		h.logger.Warn("⚠️ [AuthHandler] Missing refresh token cookie")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	user, access, err := h.service.Refresh(c.Request.Context(), tok)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	h.cookies.SetAccess(c, access)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Access token refreshed",
		"data":    gin.H{"user": user},
	})
}

// Reactivate handles POST /users/reactivate, the owner's way back into a
// self-deleted account.
func (h *AuthHandler) Reactivate(c *gin.Context) {
	var req ReactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Email and password required."})
		return
	}

	user, session, err := h.service.Reactivate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account restored",
		"data":    gin.H{"user": user},
	})
}

// ForgotPassword handles POST /auth/reset-password. The answer is the same
// whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If that email exists, a reset link will be sent."})
}

// ResetPassword handles POST /auth/reset-password/:id/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c, h.logger, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), id, c.Param("token"), req.Password); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

// ChangePassword handles PATCH /users/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password and new password (min 8 chars) required."})
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}
