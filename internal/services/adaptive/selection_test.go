package adaptive

import (
	"context"
	"testing"
	"time"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/services/personalization"
)

func newTestSelection(t *testing.T, cfg Config) *Selection {
	t.Helper()
	cat := testCatalog(t)
	sel := personalization.NewSelector(cat, testLogger(t))
	norm := NewNormalizer(cat.GetTraitMappings())
	return NewSelection(cfg, cat, sel, norm, testLogger(t))
}

func TestDetermineFocusAreaPriorityOrder(t *testing.T) {
	s := newTestSelection(t, Config{DefaultFocusArea: "general"})

	snap := Snapshot{
		WeaknessKeys:      []string{"data_structures"},
		ProgressFocusArea: "testing",
		ProfileFocusArea:  "system_design",
	}

	// Explicit override wins, and is used verbatim even when unknown.
	if got := s.DetermineFocusArea(snap, "quantum_basketweaving"); got != "quantum_basketweaving" {
		t.Fatalf("explicit focus area must win, got %q", got)
	}

	// Without an override the weakest mapped skill is targeted.
	if got := s.DetermineFocusArea(snap, ""); got != "data_structures" {
		t.Fatalf("weakness-mapped focus area must win over tracked ones, got %q", got)
	}

	// No weaknesses: tracked progress focus area.
	snap.WeaknessKeys = nil
	if got := s.DetermineFocusArea(snap, ""); got != "testing" {
		t.Fatalf("progress focus area expected, got %q", got)
	}

	// No progress focus: profile-implied area.
	snap.ProgressFocusArea = ""
	if got := s.DetermineFocusArea(snap, ""); got != "system_design" {
		t.Fatalf("profile focus area expected, got %q", got)
	}

	// Nothing at all: configured default.
	snap.ProfileFocusArea = ""
	if got := s.DetermineFocusArea(snap, ""); got != "general" {
		t.Fatalf("default focus area expected, got %q", got)
	}
}

func TestDetermineChallengeTypeVarietyCooldown(t *testing.T) {
	s := newTestSelection(t, Config{ChallengeTypeCooldown: 3})
	now := time.Now()

	snap := Snapshot{
		Completed: []types.CompletedChallenge{
			{ChallengeType: "implementation", Score: 80, CompletedAt: now.Add(-1 * time.Hour)},
			{ChallengeType: "implementation", Score: 70, CompletedAt: now.Add(-2 * time.Hour)},
			{ChallengeType: "debugging", Score: 90, CompletedAt: now.Add(-3 * time.Hour)},
		},
	}

	got, err := s.DetermineChallengeType(context.Background(), snap, "", []string{"general"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code == "implementation" || got.Code == "debugging" {
		t.Fatalf("recently completed types must be excluded, got %q", got.Code)
	}
}

func TestDetermineChallengeTypeCooldownCoversCatalog(t *testing.T) {
	s := newTestSelection(t, Config{ChallengeTypeCooldown: 5})
	now := time.Now()

	var completed []types.CompletedChallenge
	for i, code := range []string{"implementation", "debugging", "design", "optimization", "analysis"} {
		completed = append(completed, types.CompletedChallenge{
			ChallengeType: code,
			Score:         75,
			CompletedAt:   now.Add(-time.Duration(i) * time.Hour),
		})
	}
	snap := Snapshot{
		Completed: completed,
		Traits:    []string{"pragmatic"},
	}

	// Every type is in cooldown, so the trait fallback decides; the fallback
	// does not honor the exclusion window.
	got, err := s.DetermineChallengeType(context.Background(), snap, "", []string{"general"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "implementation" {
		t.Fatalf("pragmatic trait maps to implementation, got %q", got.Code)
	}
}

func TestDetermineChallengeTypeNoHistoryUsesTraitFallback(t *testing.T) {
	s := newTestSelection(t, Config{})

	snap := Snapshot{Traits: []string{"creative"}}
	got, err := s.DetermineChallengeType(context.Background(), snap, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "design" {
		t.Fatalf("creative trait maps to design, got %q", got.Code)
	}

	// No traits either: first catalog entry.
	got, err = s.DetermineChallengeType(context.Background(), Snapshot{}, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "implementation" {
		t.Fatalf("expected first catalog type, got %q", got.Code)
	}
}

func TestDetermineChallengeTypeDeterministic(t *testing.T) {
	s := newTestSelection(t, Config{ChallengeTypeCooldown: 2})
	now := time.Now()
	snap := Snapshot{
		Completed: []types.CompletedChallenge{
			{ChallengeType: "design", Score: 85, CompletedAt: now.Add(-1 * time.Hour)},
			{ChallengeType: "analysis", Score: 65, CompletedAt: now.Add(-2 * time.Hour)},
		},
		Traits: []string{"analytical"},
	}

	first, err := s.DetermineChallengeType(context.Background(), snap, "", []string{"data_structures"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.DetermineChallengeType(context.Background(), snap, "", []string{"data_structures"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Code != first.Code {
			t.Fatalf("identical inputs produced %q then %q", first.Code, again.Code)
		}
	}
}

func TestDetermineFormatType(t *testing.T) {
	s := newTestSelection(t, Config{})

	if got := s.DetermineFormatType("quiz", types.CatalogDescriptor{}); got != "quiz" {
		t.Fatalf("explicit catalog format expected, got %q", got)
	}
	if got := s.DetermineFormatType("interpretive_dance", types.CatalogDescriptor{}); got != "interpretive_dance" {
		t.Fatalf("unknown explicit format passes through, got %q", got)
	}
	ct := types.CatalogDescriptor{Code: "design", Extra: map[string]any{"format_type": "design_doc"}}
	if got := s.DetermineFormatType("", ct); got != "design_doc" {
		t.Fatalf("challenge type preferred format expected, got %q", got)
	}
	if got := s.DetermineFormatType("", types.CatalogDescriptor{}); got != "code" {
		t.Fatalf("first catalog format expected, got %q", got)
	}
}

func TestRankedFocusAreasDeduplicated(t *testing.T) {
	s := newTestSelection(t, Config{DefaultFocusArea: "general"})
	snap := Snapshot{
		WeaknessKeys:      []string{"testing", "testing"},
		ProgressFocusArea: "testing",
	}

	out := s.RankedFocusAreas(snap, "")
	seen := map[string]bool{}
	for _, fa := range out {
		if seen[fa] {
			t.Fatalf("ranked focus areas contain duplicate %q: %v", fa, out)
		}
		seen[fa] = true
	}
	if len(out) == 0 || out[0] != "testing" {
		t.Fatalf("primary focus area must lead the ranking, got %v", out)
	}
}
