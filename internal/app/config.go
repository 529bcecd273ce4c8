package app

import (
	"time"

	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	// Engine tunables, overridable per deployment via ENGINE_* vars.
	StrengthThreshold     float64
	WeaknessThreshold     float64
	RecentScoreWindow     int
	ChallengeTypeCooldown int
	HighScoreThreshold    float64
	LowScoreThreshold     float64
	DefaultFocusArea      string
	DefaultDifficulty     string

	CatalogPath string
	RedisAddr   string
	CacheTTL    time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL: time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,

		StrengthThreshold:     utils.GetEnvAsFloat("ENGINE_STRENGTH_THRESHOLD", 80, log),
		WeaknessThreshold:     utils.GetEnvAsFloat("ENGINE_WEAKNESS_THRESHOLD", 50, log),
		RecentScoreWindow:     utils.GetEnvAsInt("ENGINE_RECENT_SCORE_WINDOW", 5, log),
		ChallengeTypeCooldown: utils.GetEnvAsInt("ENGINE_CHALLENGE_TYPE_COOLDOWN", 3, log),
		HighScoreThreshold:    utils.GetEnvAsFloat("ENGINE_HIGH_SCORE_THRESHOLD", 80, log),
		LowScoreThreshold:     utils.GetEnvAsFloat("ENGINE_LOW_SCORE_THRESHOLD", 50, log),
		DefaultFocusArea:      utils.GetEnv("ENGINE_DEFAULT_FOCUS_AREA", "general", log),
		DefaultDifficulty:     utils.GetEnv("ENGINE_DEFAULT_DIFFICULTY", "beginner", log),

		CatalogPath: utils.GetEnv("CATALOG_PATH", "", log),
		RedisAddr:   utils.GetEnv("REDIS_ADDR", "", log),
		CacheTTL:    time.Duration(utils.GetEnvAsInt("ENGINE_CACHE_TTL", 300, log)) * time.Second,
	}
}
