package adaptive

import (
	"context"

	"github.com/google/uuid"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/data/repos"
	"github.com/skillforge/skillforge-backend/internal/domain/learning"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/platform/catalog"
)

// PerformanceData is the attempt result fed into a difficulty adjustment.
// Score is required; TimeSpent (seconds) is optional.
type PerformanceData struct {
	Score     *float64 `json:"score"`
	TimeSpent int      `json:"time_spent"`
}

// DifficultyController computes and persists a learner's difficulty
// setting. The persisted level is authoritative across requests; the value
// object returned per call is immutable.
type DifficultyController struct {
	cfg     Config
	log     *logger.Logger
	users   repos.UserRepo
	catalog catalog.Provider
}

func NewDifficultyController(cfg Config, users repos.UserRepo, cat catalog.Provider, baseLog *logger.Logger) *DifficultyController {
	return &DifficultyController{
		cfg:     cfg.withDefaults(),
		log:     baseLog.With("service", "DifficultyController"),
		users:   users,
		catalog: cat,
	}
}

// AdjustDifficulty ratchets the level one band up on strong in-budget
// performance, one band down on low score or overtime, and holds otherwise.
// Validation failures reject before any collaborator call. Persistence is
// best-effort: a failed update is logged and the computed difficulty is
// still returned.
func (dc *DifficultyController) AdjustDifficulty(ctx context.Context, userID uuid.UUID, perf PerformanceData) (types.Difficulty, error) {
	if userID == uuid.Nil {
		return types.Difficulty{}, apperrors.NewValidation("userId", "required")
	}
	if perf.Score == nil {
		return types.Difficulty{}, apperrors.NewValidation("score", "required")
	}
	score := *perf.Score
	if score < 0 || score > 100 {
		return types.Difficulty{}, apperrors.NewValidation("score", "must be between 0 and 100")
	}

	current := dc.cfg.DefaultDifficulty
	u, err := dc.users.GetByID(dbctx.New(ctx), userID)
	if err != nil {
		dc.log.Warn("Could not load user; adjusting from default difficulty", "user_id", userID, "error", err)
	} else if u != nil && learning.IsKnownLevel(u.DifficultyLevel) {
		current = u.DifficultyLevel
	}

	next := dc.nextLevel(current, score, perf.TimeSpent)
	out := dc.Resolve(next)

	if err := dc.users.UpdateDifficulty(dbctx.New(ctx), userID, next); err != nil {
		// Best-effort durability: the in-flight response stays authoritative.
		dc.log.Warn("Failed to persist difficulty adjustment", "user_id", userID, "level", next, "error", err)
	}
	return out, nil
}

func (dc *DifficultyController) nextLevel(current string, score float64, timeSpent int) string {
	expected := dc.Resolve(current).TimeAllocation

	switch {
	case score < dc.cfg.LowScoreThreshold:
		return learning.PrevLevel(current)
	case score >= dc.cfg.HighScoreThreshold && (timeSpent <= 0 || timeSpent <= expected):
		return learning.NextLevel(current)
	case timeSpent > 0 && expected > 0 && timeSpent > expected:
		return learning.PrevLevel(current)
	default:
		return current
	}
}

// Resolve materializes a level code into a full Difficulty value from the
// catalog band table.
func (dc *DifficultyController) Resolve(level string) types.Difficulty {
	band, err := dc.catalog.GetDifficultyLevel(level)
	if err != nil {
		dc.log.Warn("Unknown difficulty level; using default band", "level", level)
		band, err = dc.catalog.GetDifficultyLevel(dc.cfg.DefaultDifficulty)
		if err != nil {
			// Catalog without the default band is a deployment mistake;
			// keep the response structurally complete anyway.
			return types.Difficulty{Level: dc.cfg.DefaultDifficulty, Complexity: 0.5, Depth: 0.5, TimeAllocation: 480}
		}
	}
	return types.Difficulty{
		Level:          band.Level,
		Complexity:     band.Complexity,
		Depth:          band.Depth,
		TimeAllocation: band.TimeAllocation,
	}
}
