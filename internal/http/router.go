package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/skillforge/skillforge-backend/internal/http/handlers"
	httpMW "github.com/skillforge/skillforge-backend/internal/http/middleware"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	EngineHandler   *httpH.EngineHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler

	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	if cfg.ServiceName != "" {
		r.Use(httpMW.Tracing(cfg.ServiceName))
	}
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		if cfg.EngineHandler != nil {
			protected.GET("/recommendations", cfg.EngineHandler.GetRecommendations)
			protected.POST("/recommendations/generate", cfg.EngineHandler.GenerateRecommendations)
			protected.POST("/challenges/generate", cfg.EngineHandler.GenerateChallenge)
			protected.POST("/difficulty/adjust", cfg.EngineHandler.AdjustDifficulty)

			// Service-to-service routes addressing an explicit user.
			protected.GET("/users/:userId/recommendations", cfg.EngineHandler.GetRecommendations)
			protected.POST("/users/:userId/recommendations/generate", cfg.EngineHandler.GenerateRecommendations)
			protected.POST("/users/:userId/challenges/generate", cfg.EngineHandler.GenerateChallenge)
			protected.POST("/users/:userId/difficulty/adjust", cfg.EngineHandler.AdjustDifficulty)
		}
	}

	return r
}
