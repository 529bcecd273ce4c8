package adaptive

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	rediscl "github.com/skillforge/skillforge-backend/internal/clients/redis"
	"github.com/skillforge/skillforge-backend/internal/data/repos"
	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/platform/catalog"
	"github.com/skillforge/skillforge-backend/internal/services/personalization"
	"github.com/skillforge/skillforge-backend/internal/sse"
)

const cacheOpLatestRecommendations = "latest_recommendations"

// ChallengeOptions are caller overrides merged over engine-derived defaults.
type ChallengeOptions struct {
	FocusArea     string `json:"focus_area"`
	ChallengeType string `json:"challenge_type"`
	FormatType    string `json:"format_type"`
	Difficulty    string `json:"difficulty"`
}

type SkillLevel struct {
	Skill string  `json:"skill"`
	Level float64 `json:"level"`
}

type UserContext struct {
	SkillLevels     []SkillLevel `json:"skill_levels"`
	Traits          []string     `json:"traits"`
	Strengths       []string     `json:"strengths"`
	Weaknesses      []string     `json:"weaknesses"`
	ExperienceLevel string       `json:"experience_level"`
}

// ChallengeParameters is the full generation bundle returned per request.
// The engine never persists it itself; the latest recommendation row keeps
// a snapshot for downstream challenge creation.
type ChallengeParameters struct {
	UserID         uuid.UUID        `json:"user_id"`
	FocusArea      string           `json:"focus_area"`
	ChallengeType  string           `json:"challenge_type"`
	FormatType     string           `json:"format_type"`
	Difficulty     types.Difficulty `json:"difficulty"`
	TimeAllocation int              `json:"time_allocation"`
	Complexity     float64          `json:"complexity"`
	Depth          float64          `json:"depth"`
	UserContext    UserContext      `json:"user_context"`
}

// Engine is the adaptive personalization engine. Stateless and reentrant:
// learner state is fetched fresh per call and no mutable state is shared
// across requests beyond the optional read-through cache.
type Engine struct {
	cfg Config
	log *logger.Logger

	users           repos.UserRepo
	progress        repos.ProgressRepo
	personality     repos.PersonalityRepo
	recommendations repos.RecommendationRepo

	catalog    catalog.Provider
	aggregator *Aggregator
	selection  *Selection
	difficulty *DifficultyController

	cache    rediscl.EngineCache // optional
	hub      *sse.SSEHub         // optional
	cacheTTL time.Duration
}

type EngineDeps struct {
	Repos    repos.Set
	Catalog  catalog.Provider
	Selector personalization.Selector
	Cache    rediscl.EngineCache
	Hub      *sse.SSEHub
	CacheTTL time.Duration
}

func NewEngine(cfg Config, deps EngineDeps, baseLog *logger.Logger) *Engine {
	cfg = cfg.withDefaults()
	log := baseLog.With("service", "AdaptiveEngine")
	norm := NewNormalizer(deps.Catalog.GetTraitMappings())
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Engine{
		cfg:             cfg,
		log:             log,
		users:           deps.Repos.User,
		progress:        deps.Repos.Progress,
		personality:     deps.Repos.Personality,
		recommendations: deps.Repos.Recommendation,
		catalog:         deps.Catalog,
		aggregator:      NewAggregator(cfg, baseLog),
		selection:       NewSelection(cfg, deps.Catalog, deps.Selector, norm, baseLog),
		difficulty:      NewDifficultyController(cfg, deps.Repos.User, deps.Catalog, baseLog),
		cache:           deps.Cache,
		hub:             deps.Hub,
		cacheTTL:        ttl,
	}
}

// fetchState fans out the independent learner-state reads. Every failure is
// soft: the snapshot simply loses that signal.
func (e *Engine) fetchState(ctx context.Context, userID uuid.UUID) (*types.UserProgress, *types.PersonalityProfile, *types.User) {
	var (
		progress *types.UserProgress
		profile  *types.PersonalityProfile
		usr      *types.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.progress.GetOrCreateByUserID(dbctx.New(gctx), userID)
		if err != nil {
			e.log.Warn("Progress fetch failed; continuing without it", "user_id", userID, "error", err)
			return nil
		}
		progress = p
		return nil
	})
	g.Go(func() error {
		p, err := e.personality.GetByUserID(dbctx.New(gctx), userID)
		if err != nil {
			e.log.Warn("Personality fetch failed; continuing without it", "user_id", userID, "error", err)
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		u, err := e.users.GetByID(dbctx.New(gctx), userID)
		if err != nil {
			e.log.Warn("User fetch failed; continuing without it", "user_id", userID, "error", err)
			return nil
		}
		usr = u
		return nil
	})
	_ = g.Wait()
	return progress, profile, usr
}

// GenerateAndSaveRecommendations builds a recommendation from whatever
// signals are present and persists it. Persistence failure is the one hard
// error on this path.
func (e *Engine) GenerateAndSaveRecommendations(ctx context.Context, userID uuid.UUID) (*types.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewValidation("userId", "required")
	}

	progress, profile, usr := e.fetchState(ctx, userID)
	snap := e.aggregator.Build(progress, profile)
	prefs := decodePrefs(usr)

	focusAreas := e.selection.RankedFocusAreas(snap, prefs.FocusArea)
	challengeTypes := e.selection.RankedChallengeTypes(ctx, snap, focusAreas, 2)
	resources := e.suggestResources(focusAreas)

	meta := map[string]any{
		types.MetadataGenerationSource: GenerationSource,
		"experience_level":             snap.ExperienceLevel,
	}
	if snap.RecentAverage != nil {
		meta["recent_average_score"] = *snap.RecentAverage
	}

	rec := &types.Recommendation{
		UserID:                    userID,
		RecommendedFocusAreas:     mustJSON(focusAreas),
		RecommendedChallengeTypes: mustJSON(challengeTypes),
		SuggestedResources:        mustJSON(resources),
		Strengths:                 mustJSON(snap.Strengths),
		Weaknesses:                mustJSON(snap.Weaknesses),
		Metadata:                  mustJSON(meta),
	}
	rec.EnsureArrays()

	saved, err := e.recommendations.Save(dbctx.New(ctx), rec)
	if err != nil {
		e.log.Error("Failed to persist recommendation", "user_id", userID, "error", err)
		return nil, apperrors.NewProcessing("save recommendation", err)
	}

	e.invalidateCache(ctx, userID)
	e.broadcast(userID, sse.SSEEventRecommendationGenerated, map[string]any{
		"recommendation_id": saved.ID,
		"focus_areas":       focusAreas,
	})
	return saved, nil
}

// GetLatestRecommendations returns the newest persisted recommendation,
// generating one first if the learner has none. Never returns nil for a
// valid user.
func (e *Engine) GetLatestRecommendations(ctx context.Context, userID uuid.UUID) (*types.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewValidation("userId", "required")
	}

	if e.cache != nil {
		if raw, ok := e.cache.Get(ctx, rediscl.Key(cacheOpLatestRecommendations, userID.String())); ok {
			var cached types.Recommendation
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	latest, err := e.recommendations.FindLatestForUser(dbctx.New(ctx), userID)
	if err != nil {
		e.log.Error("Failed to look up latest recommendation", "user_id", userID, "error", err)
		return nil, apperrors.NewProcessing("load latest recommendation", err)
	}
	if latest == nil {
		latest, err = e.GenerateAndSaveRecommendations(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if e.cache != nil {
		if raw, err := json.Marshal(latest); err == nil {
			e.cache.Set(ctx, rediscl.Key(cacheOpLatestRecommendations, userID.String()), raw, e.cacheTTL)
		}
	}
	return latest, nil
}

// GenerateChallenge merges caller overrides over engine-derived defaults
// and returns a structurally complete parameter bundle. Missing upstream
// data never fails the call.
func (e *Engine) GenerateChallenge(ctx context.Context, userID uuid.UUID, opts ChallengeOptions) (*ChallengeParameters, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewValidation("userId", "required")
	}

	progress, profile, usr := e.fetchState(ctx, userID)
	snap := e.aggregator.Build(progress, profile)
	prefs := decodePrefs(usr)

	explicitFocus := opts.FocusArea
	if explicitFocus == "" {
		explicitFocus = prefs.FocusArea
	}
	focusArea := e.selection.DetermineFocusArea(snap, explicitFocus)

	explicitType := opts.ChallengeType
	if explicitType == "" {
		explicitType = prefs.ChallengeType
	}
	challengeType, err := e.selection.DetermineChallengeType(ctx, snap, explicitType, []string{focusArea})
	if err != nil {
		e.log.Warn("Challenge type resolution degraded to default", "user_id", userID, "error", err)
		challengeType = types.CatalogDescriptor{Code: "implementation", DisplayName: "Implementation"}
	}

	explicitFormat := opts.FormatType
	if explicitFormat == "" {
		explicitFormat = prefs.FormatType
	}
	formatType := e.selection.DetermineFormatType(explicitFormat, challengeType)

	level := opts.Difficulty
	if level == "" && usr != nil {
		level = usr.DifficultyLevel
	}
	if level == "" {
		level = e.cfg.DefaultDifficulty
	}
	difficulty := e.difficulty.Resolve(level)

	params := &ChallengeParameters{
		UserID:         userID,
		FocusArea:      focusArea,
		ChallengeType:  challengeType.Code,
		FormatType:     formatType,
		Difficulty:     difficulty,
		TimeAllocation: difficulty.TimeAllocation,
		Complexity:     difficulty.Complexity,
		Depth:          difficulty.Depth,
		UserContext: UserContext{
			SkillLevels:     skillLevelPairs(snap.SkillLevels),
			Traits:          emptyNotNil(snap.Traits),
			Strengths:       emptyNotNil(snap.Strengths),
			Weaknesses:      emptyNotNil(snap.Weaknesses),
			ExperienceLevel: snap.ExperienceLevel,
		},
	}

	e.snapshotChallengeParameters(ctx, userID, params)
	e.broadcast(userID, sse.SSEEventChallengeGenerated, map[string]any{
		"focus_area":     params.FocusArea,
		"challenge_type": params.ChallengeType,
		"difficulty":     params.Difficulty.Level,
	})
	return params, nil
}

// AdjustDifficulty delegates to the difficulty controller and announces the
// outcome.
func (e *Engine) AdjustDifficulty(ctx context.Context, userID uuid.UUID, perf PerformanceData) (types.Difficulty, error) {
	d, err := e.difficulty.AdjustDifficulty(ctx, userID, perf)
	if err != nil {
		return d, err
	}
	e.broadcast(userID, sse.SSEEventDifficultyAdjusted, map[string]any{
		"level":           d.Level,
		"time_allocation": d.TimeAllocation,
	})
	return d, nil
}

// snapshotChallengeParameters stores the bundle on the latest
// recommendation row, best-effort.
func (e *Engine) snapshotChallengeParameters(ctx context.Context, userID uuid.UUID, params *ChallengeParameters) {
	latest, err := e.recommendations.FindLatestForUser(dbctx.New(ctx), userID)
	if err != nil || latest == nil {
		return
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return
	}
	if err := e.recommendations.UpdateChallengeParameters(dbctx.New(ctx), latest.ID, raw); err != nil {
		e.log.Warn("Failed to snapshot challenge parameters", "user_id", userID, "error", err)
		return
	}
	e.invalidateCache(ctx, userID)
}

func (e *Engine) suggestResources(focusAreas []string) []types.LearningResource {
	out := make([]types.LearningResource, 0, len(focusAreas)*2)
	for _, fa := range focusAreas {
		display := fa
		for _, d := range e.catalog.GetAllFocusAreas() {
			if d.Code == fa {
				display = d.DisplayName
				break
			}
		}
		if display == fa {
			display = FormatSkillName(fa)
		}
		out = append(out,
			types.LearningResource{Title: "Guided practice: " + display, FocusArea: fa, Kind: "exercise"},
			types.LearningResource{Title: "Core concepts: " + display, FocusArea: fa, Kind: "reading"},
		)
	}
	return out
}

func (e *Engine) broadcast(userID uuid.UUID, event sse.SSEEvent, data any) {
	if e.hub == nil {
		return
	}
	e.hub.Broadcast(sse.SSEMessage{
		Channel: userID.String(),
		Event:   event,
		Data:    data,
	})
}

func (e *Engine) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if e.cache == nil {
		return
	}
	e.cache.Invalidate(ctx, rediscl.Key(cacheOpLatestRecommendations, userID.String()))
}

func decodePrefs(usr *types.User) types.UserPrefs {
	var prefs types.UserPrefs
	if usr == nil || len(usr.Preferences) == 0 {
		return prefs
	}
	_ = json.Unmarshal(usr.Preferences, &prefs)
	return prefs
}

func skillLevelPairs(skills map[string]float64) []SkillLevel {
	keys := make([]string, 0, len(skills))
	for k := range skills {
		keys = append(keys, k)
	}
	// Stable order for deterministic payloads.
	sort.Strings(keys)
	out := make([]SkillLevel, 0, len(keys))
	for _, k := range keys {
		out = append(out, SkillLevel{Skill: k, Level: skills[k]})
	}
	return out
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
