package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skillforge/skillforge-backend/internal/app"
	rediscl "github.com/skillforge/skillforge-backend/internal/clients/redis"
	"github.com/skillforge/skillforge-backend/internal/data/repos"
	"github.com/skillforge/skillforge-backend/internal/db"
	httpx "github.com/skillforge/skillforge-backend/internal/http"
	httpH "github.com/skillforge/skillforge-backend/internal/http/handlers"
	httpMW "github.com/skillforge/skillforge-backend/internal/http/middleware"
	"github.com/skillforge/skillforge-backend/internal/observability"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/platform/catalog"
	"github.com/skillforge/skillforge-backend/internal/services/adaptive"
	"github.com/skillforge/skillforge-backend/internal/services/auth"
	"github.com/skillforge/skillforge-backend/internal/services/personalization"
	"github.com/skillforge/skillforge-backend/internal/sse"
	"github.com/skillforge/skillforge-backend/internal/utils"
)

const serviceName = "skillforge-engine"

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)

	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownTracing != nil {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}

	repoSet := repos.NewSet(dbService.DB(), log)

	cat, err := catalog.New(cfg.CatalogPath, log)
	if err != nil {
		log.Error("Catalog init failed", "error", err)
		os.Exit(1)
	}

	var cache rediscl.EngineCache
	if cfg.RedisAddr != "" {
		cache, err = rediscl.NewEngineCache(cfg.RedisAddr, log)
		if err != nil {
			log.Warn("Redis cache unavailable; running without it", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	sseHub := sse.NewSSEHub(log)

	engineCfg := adaptive.Config{
		StrengthThreshold:     cfg.StrengthThreshold,
		WeaknessThreshold:     cfg.WeaknessThreshold,
		RecentScoreWindow:     cfg.RecentScoreWindow,
		ChallengeTypeCooldown: cfg.ChallengeTypeCooldown,
		HighScoreThreshold:    cfg.HighScoreThreshold,
		LowScoreThreshold:     cfg.LowScoreThreshold,
		DefaultFocusArea:      cfg.DefaultFocusArea,
		DefaultDifficulty:     cfg.DefaultDifficulty,
	}
	engine := adaptive.NewEngine(engineCfg, adaptive.EngineDeps{
		Repos:    repoSet,
		Catalog:  cat,
		Selector: personalization.NewSelector(cat, log),
		Cache:    cache,
		Hub:      sseHub,
		CacheTTL: cfg.CacheTTL,
	}, log)

	authService := auth.NewService(repoSet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL, log)

	server := httpx.NewServer(httpx.RouterConfig{
		Log:             log,
		AuthHandler:     httpH.NewAuthHandler(authService, cfg.DefaultDifficulty),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, authService),
		EngineHandler:   httpH.NewEngineHandler(engine),
		RealtimeHandler: httpH.NewRealtimeHandler(log, sseHub),
		HealthHandler:   httpH.NewHealthHandler(),
		ServiceName:     serviceName,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
