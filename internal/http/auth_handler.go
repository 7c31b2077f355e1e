package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devops-gateway/internal/repository"
	"devops-gateway/internal/service"
)

// AuthHandler exposes signup, login and token lifecycle endpoints.
type AuthHandler struct {
	logger   *zap.Logger
	accounts *service.AccountService
	jwtServ  *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, accounts *service.AccountService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		accounts: accounts,
		jwtServ:  jwtServ,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		problem(c, http.StatusUnprocessableEntity, "validation/error", "email and password are required")
		return
	}

	profile, err := h.accounts.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			problem(c, http.StatusConflict, "auth/email-taken", "email already registered")
			return
		case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrWeakPassword):
			problem(c, http.StatusUnprocessableEntity, "validation/error", err.Error())
			return
		default:
			h.logger.Error("signup failed", zap.Error(err))
			problem(c, http.StatusInternalServerError, "internal/error", "could not create account")
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": profile.ID, "email": profile.Email})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		problem(c, http.StatusUnprocessableEntity, "validation/error", "email and password are required")
		return
	}

	profile, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			problem(c, http.StatusUnauthorized, "auth/invalid-credentials", "invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		problem(c, http.StatusInternalServerError, "internal/error", "could not login")
		return
	}

	tokens, err := h.jwtServ.GeneratePair(profile)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		problem(c, http.StatusInternalServerError, "internal/error", "could not issue tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile, "tokens": tokens})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusUnprocessableEntity, "validation/error", "refresh_token is required")
		return
	}

	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		problem(c, http.StatusUnauthorized, "auth/invalid-token", "invalid or expired refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusUnprocessableEntity, "validation/error", "refresh_token is required")
		return
	}

	_ = h.jwtServ.RevokeRefresh(req.RefreshToken)
	c.Status(http.StatusNoContent)
}

// GetProfile handles GET /auth/profile/:id.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.accounts.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			problem(c, http.StatusNotFound, "auth/profile-not-found", "profile not found")
			return
		}
		h.logger.Error("profile lookup failed", zap.Error(err))
		problem(c, http.StatusInternalServerError, "internal/error", "could not load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
