package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/pkg/ctxutil"
	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/services/adaptive"
)

// EngineHandler exposes the personalization engine over HTTP. Every route
// operates on the authenticated user.
type EngineHandler struct {
	engine *adaptive.Engine
}

func NewEngineHandler(engine *adaptive.Engine) *EngineHandler {
	return &EngineHandler{engine: engine}
}

func (h *EngineHandler) GetRecommendations(c *gin.Context) {
	userID := userIDFromParamOrAuth(c)
	rec, err := h.engine.GetLatestRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (h *EngineHandler) GenerateRecommendations(c *gin.Context) {
	userID := userIDFromParamOrAuth(c)
	rec, err := h.engine.GenerateAndSaveRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (h *EngineHandler) GenerateChallenge(c *gin.Context) {
	var opts adaptive.ChallengeOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := userIDFromParamOrAuth(c)
	params, err := h.engine.GenerateChallenge(c.Request.Context(), userID, opts)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.RespondOK(c, params)
}

func (h *EngineHandler) AdjustDifficulty(c *gin.Context) {
	var perf adaptive.PerformanceData
	if err := c.ShouldBindJSON(&perf); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := userIDFromParamOrAuth(c)
	d, err := h.engine.AdjustDifficulty(c.Request.Context(), userID, perf)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	response.RespondOK(c, d)
}

func respondEngineError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		response.RespondFieldError(c, http.StatusBadRequest, "validation_failed", ve.Field, err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "processing_failed", err)
	}
}

// userIDFromParamOrAuth lets admin tooling act on another user's behalf via
// a path parameter while regular clients fall back to the token identity.
func userIDFromParamOrAuth(c *gin.Context) uuid.UUID {
	if raw := c.Param("userId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	return ctxutil.GetUserID(c.Request.Context())
}
