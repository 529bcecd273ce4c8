package adaptive

import (
	"encoding/json"
	"sort"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// Experience-level classifications, ordered weakest to strongest.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// Snapshot is the derived view of a learner's signals for one engine call.
// Absent upstream data is represented here once (Present=false plus empty
// fields) instead of nil checks scattered through selection logic.
type Snapshot struct {
	Present bool

	SkillLevels map[string]float64
	Completed   []types.CompletedChallenge

	// Strengths/Weaknesses hold formatted display labels; the *Keys slices
	// hold the raw skill keys in the same order for focus-area mapping.
	Strengths    []string
	StrengthKeys []string
	Weaknesses   []string
	WeaknessKeys []string

	RecentAverage   *float64
	ExperienceLevel string

	Traits            []string
	ProfileFocusArea  string
	ProgressFocusArea string
}

// Aggregator derives strengths, weaknesses, recent performance, and an
// experience classification from whatever learner state is present.
type Aggregator struct {
	cfg Config
	log *logger.Logger
}

func NewAggregator(cfg Config, baseLog *logger.Logger) *Aggregator {
	return &Aggregator{cfg: cfg.withDefaults(), log: baseLog.With("service", "SignalAggregator")}
}

// Build tolerates nil progress and nil profile: whatever is missing simply
// contributes no signal.
func (a *Aggregator) Build(progress *types.UserProgress, profile *types.PersonalityProfile) Snapshot {
	snap := Snapshot{SkillLevels: map[string]float64{}}

	if progress != nil {
		snap.Present = true
		snap.ProgressFocusArea = progress.FocusArea
		if len(progress.SkillLevels) > 0 {
			if err := json.Unmarshal(progress.SkillLevels, &snap.SkillLevels); err != nil {
				a.log.Warn("Skill levels column is not a map; ignoring", "error", err)
				snap.SkillLevels = map[string]float64{}
			}
		}
		if len(progress.CompletedChallenges) > 0 {
			if err := json.Unmarshal(progress.CompletedChallenges, &snap.Completed); err != nil {
				a.log.Warn("Completed challenges column is not a list; ignoring", "error", err)
				snap.Completed = nil
			}
		}
	}

	if profile != nil {
		snap.Present = true
		snap.ProfileFocusArea = profile.FocusArea
		if len(profile.DominantTraits) > 0 {
			if err := json.Unmarshal(profile.DominantTraits, &snap.Traits); err != nil {
				a.log.Warn("Dominant traits column is not a list; ignoring", "error", err)
				snap.Traits = nil
			}
		}
	}

	snap.StrengthKeys = strengthKeys(snap.SkillLevels, a.cfg.StrengthThreshold)
	snap.Strengths = formatAll(snap.StrengthKeys)
	snap.WeaknessKeys = weaknessKeys(snap.SkillLevels, a.cfg.WeaknessThreshold)
	snap.Weaknesses = formatAll(snap.WeaknessKeys)
	snap.RecentAverage = CalculateRecentAverageScore(snap.Completed, a.cfg.RecentScoreWindow)

	recentScores := make([]float64, 0, len(snap.Completed))
	for _, c := range snap.Completed {
		recentScores = append(recentScores, c.Score)
	}
	snap.ExperienceLevel = DetermineExperienceLevel(len(snap.Completed), recentScores)

	return snap
}

// DeriveStrengthsFromSkills returns formatted labels for every skill at or
// above the threshold, ordered by descending score, ties broken by key
// order.
func DeriveStrengthsFromSkills(skillLevels map[string]float64, threshold float64) []string {
	return formatAll(strengthKeys(skillLevels, threshold))
}

// DeriveWeaknessesFromSkills returns formatted labels for every skill below
// the threshold, weakest first.
func DeriveWeaknessesFromSkills(skillLevels map[string]float64, threshold float64) []string {
	return formatAll(weaknessKeys(skillLevels, threshold))
}

func strengthKeys(skillLevels map[string]float64, threshold float64) []string {
	keys := make([]string, 0, len(skillLevels))
	for k, v := range skillLevels {
		if v >= threshold {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := skillLevels[keys[i]], skillLevels[keys[j]]
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func weaknessKeys(skillLevels map[string]float64, threshold float64) []string {
	keys := make([]string, 0, len(skillLevels))
	for k, v := range skillLevels {
		if v < threshold {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := skillLevels[keys[i]], skillLevels[keys[j]]
		if si != sj {
			return si < sj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func formatAll(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, FormatSkillName(k))
	}
	return out
}

// CalculateRecentAverageScore returns the mean score over the most recent
// windowSize completions, newest by CompletedAt first. Nil marks "no
// signal"; empty input never panics or errors.
func CalculateRecentAverageScore(completed []types.CompletedChallenge, windowSize int) *float64 {
	if len(completed) == 0 || windowSize <= 0 {
		return nil
	}
	sorted := append([]types.CompletedChallenge(nil), completed...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})
	if windowSize > len(sorted) {
		windowSize = len(sorted)
	}
	var sum float64
	for _, c := range sorted[:windowSize] {
		sum += c.Score
	}
	avg := sum / float64(windowSize)
	return &avg
}

// DetermineExperienceLevel classifies on attempt count and average recent
// skill score jointly. Both dimensions gate the upgrade: many attempts with
// low scores do not advance.
func DetermineExperienceLevel(completedCount int, recentScores []float64) string {
	var avg float64
	if len(recentScores) > 0 {
		var sum float64
		for _, s := range recentScores {
			sum += s
		}
		avg = sum / float64(len(recentScores))
	}

	switch {
	case completedCount < 10:
		return ExperienceBeginner
	case completedCount < 20 || avg < 70:
		return ExperienceIntermediate
	case completedCount < 40 || avg < 85:
		return ExperienceAdvanced
	default:
		return ExperienceExpert
	}
}
