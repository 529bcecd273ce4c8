package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/services/auth"
)

type AuthHandler struct {
	authService       auth.Service
	defaultDifficulty string
}

func NewAuthHandler(authService auth.Service, defaultDifficulty string) *AuthHandler {
	return &AuthHandler{authService: authService, defaultDifficulty: defaultDifficulty}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, ah.defaultDifficulty)
	if err != nil {
		status := http.StatusBadRequest
		if !apperrors.IsValidation(err) {
			status = http.StatusInternalServerError
		}
		response.RespondError(c, status, "registration_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"id": u.ID, "email": u.Email})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	u, pair, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": pair.AccessToken,
		"expires_at":   pair.ExpiresAt,
		"user": gin.H{
			"id":               u.ID,
			"email":            u.Email,
			"difficulty_level": u.DifficultyLevel,
		},
	})
}
