package adaptive

import (
	"testing"
	"time"

	types "github.com/skillforge/skillforge-backend/internal/domain"
)

func TestStrengthsAndWeaknessesDoNotOverlap(t *testing.T) {
	skills := map[string]float64{
		"prompt_engineering": 92,
		"system_design":      80,
		"data_structures":    50,
		"testing":            30,
	}

	strengths := DeriveStrengthsFromSkills(skills, 80)
	weaknesses := DeriveWeaknessesFromSkills(skills, 50)

	if len(strengths) != 2 {
		t.Fatalf("expected 2 strengths, got %v", strengths)
	}
	if strengths[0] != "Prompt Engineering" {
		t.Fatalf("strengths must be ordered by descending score, got %v", strengths)
	}
	if len(weaknesses) != 1 || weaknesses[0] != "Testing" {
		t.Fatalf("expected only Testing below 50, got %v", weaknesses)
	}

	seen := map[string]bool{}
	for _, s := range strengths {
		seen[s] = true
	}
	for _, w := range weaknesses {
		if seen[w] {
			t.Fatalf("skill %q classified as both strength and weakness", w)
		}
	}
}

func TestDeriveFromEmptySkills(t *testing.T) {
	if got := DeriveStrengthsFromSkills(nil, 80); len(got) != 0 {
		t.Fatalf("expected no strengths from empty skills, got %v", got)
	}
	if got := DeriveWeaknessesFromSkills(map[string]float64{}, 50); len(got) != 0 {
		t.Fatalf("expected no weaknesses from empty skills, got %v", got)
	}
}

func TestCalculateRecentAverageScore(t *testing.T) {
	now := time.Now()
	completed := []types.CompletedChallenge{
		{ChallengeType: "implementation", Score: 60, CompletedAt: now.Add(-4 * time.Hour)},
		{ChallengeType: "debugging", Score: 90, CompletedAt: now.Add(-1 * time.Hour)},
		{ChallengeType: "design", Score: 80, CompletedAt: now.Add(-2 * time.Hour)},
		{ChallengeType: "analysis", Score: 70, CompletedAt: now.Add(-3 * time.Hour)},
	}

	avg := CalculateRecentAverageScore(completed, 3)
	if avg == nil {
		t.Fatal("expected a value for non-empty history")
	}
	// Newest three: 90, 80, 70.
	if *avg != 80 {
		t.Fatalf("expected recent average 80, got %v", *avg)
	}
}

func TestCalculateRecentAverageScoreEmpty(t *testing.T) {
	if got := CalculateRecentAverageScore(nil, 5); got != nil {
		t.Fatalf("empty history must yield nil, got %v", *got)
	}
}

func TestDetermineExperienceLevel(t *testing.T) {
	cases := []struct {
		count  int
		scores []float64
		want   string
	}{
		{0, nil, ExperienceBeginner},
		{5, []float64{30, 40, 50}, ExperienceBeginner},
		{12, []float64{95, 95, 95}, ExperienceIntermediate},
		{25, []float64{60, 60, 60}, ExperienceIntermediate},
		{25, []float64{75, 75, 75}, ExperienceAdvanced},
		{50, []float64{80, 80, 80}, ExperienceAdvanced},
		{50, []float64{90, 85, 95}, ExperienceExpert},
	}
	for _, tc := range cases {
		if got := DetermineExperienceLevel(tc.count, tc.scores); got != tc.want {
			t.Fatalf("DetermineExperienceLevel(%d, %v) = %q, want %q", tc.count, tc.scores, got, tc.want)
		}
	}
}

func TestAggregatorBuildToleratesNilInputs(t *testing.T) {
	agg := NewAggregator(Config{}, testLogger(t))

	snap := agg.Build(nil, nil)
	if snap.Present {
		t.Fatal("snapshot from no inputs must not be marked present")
	}
	if snap.ExperienceLevel != ExperienceBeginner {
		t.Fatalf("no history must classify as beginner, got %q", snap.ExperienceLevel)
	}
	if snap.RecentAverage != nil {
		t.Fatal("no completions must leave recent average nil")
	}
}

func TestAggregatorBuildIgnoresMalformedColumns(t *testing.T) {
	agg := NewAggregator(Config{}, testLogger(t))

	progress := &types.UserProgress{
		SkillLevels:         []byte(`"not a map"`),
		CompletedChallenges: []byte(`{"not":"a list"}`),
	}
	snap := agg.Build(progress, nil)
	if len(snap.SkillLevels) != 0 || len(snap.Completed) != 0 {
		t.Fatalf("malformed columns must contribute no signal, got %+v", snap)
	}
}
