package handlers

import (
	"context"
	"errors"
	"net/http"

	"chalethaven/middleware"
	"chalethaven/models"
	"chalethaven/services/auth"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Verify(ctx context.Context, token string) (*models.PublicUser, *utils.Claims, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	logger := getLogger(c)

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			utils.JSONError(c, http.StatusUnauthorized, "Invalid username or password", "")
		case errors.Is(err, auth.ErrNotConfigured):
			utils.JSONError(c, http.StatusServiceUnavailable, "Authentication is not configured", "")
		default:
			logger.Error("Login failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Login failed, please try again", "")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Verify handles GET /api/auth/verify behind the JWT middleware.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, _, err := h.svc.Verify(c.Request.Context(), middleware.Token(c))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to verify session", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.VerifyResponse{Success: true, User: *user})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to sign out", err.Error())
		return
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: "Signed out"})
}
