package adaptive

import (
	"context"
	"testing"

	"github.com/google/uuid"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
)

func newTestController(t *testing.T, users *fakeUserRepo) *DifficultyController {
	t.Helper()
	return NewDifficultyController(Config{}, users, testCatalog(t), testLogger(t))
}

func score(v float64) *float64 { return &v }

func TestAdjustDifficultyMovesUpOnStrongPerformance(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "beginner"}}
	dc := newTestController(t, users)

	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(95), TimeSpent: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "intermediate" {
		t.Fatalf("high in-budget score must move one band up, got %q", d.Level)
	}
	if users.updateCalls != 1 {
		t.Fatalf("expected exactly one persistence call, got %d", users.updateCalls)
	}
	if users.lastLevel != "intermediate" {
		t.Fatalf("persisted level %q does not match returned level", users.lastLevel)
	}
}

func TestAdjustDifficultyMovesDownOnLowScore(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "advanced"}}
	dc := newTestController(t, users)

	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "intermediate" {
		t.Fatalf("low score must move one band down, got %q", d.Level)
	}
}

func TestAdjustDifficultyMovesDownOnOvertime(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "intermediate"}}
	dc := newTestController(t, users)

	// Middling score, way over the intermediate time allocation.
	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(65), TimeSpent: 10000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "beginner" {
		t.Fatalf("overtime must move one band down, got %q", d.Level)
	}
}

func TestAdjustDifficultyHoldsInTheMiddle(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "intermediate"}}
	dc := newTestController(t, users)

	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(65), TimeSpent: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "intermediate" {
		t.Fatalf("middling performance must hold the level, got %q", d.Level)
	}
}

func TestAdjustDifficultyClampsAtLadderEnds(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "expert"}}
	dc := newTestController(t, users)

	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(100)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "expert" {
		t.Fatalf("expert must not move past the top, got %q", d.Level)
	}

	users.user.DifficultyLevel = "beginner"
	d, err = dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "beginner" {
		t.Fatalf("beginner must not move below the bottom, got %q", d.Level)
	}
}

func TestAdjustDifficultyLegacyLadderStaysLegacy(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "medium"}}
	dc := newTestController(t, users)

	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(95)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Level != "hard" {
		t.Fatalf("medium must ratchet within the legacy ladder, got %q", d.Level)
	}
}

func TestAdjustDifficultyValidation(t *testing.T) {
	users := &fakeUserRepo{user: &types.User{ID: uuid.New(), DifficultyLevel: "beginner"}}
	dc := newTestController(t, users)

	if _, err := dc.AdjustDifficulty(context.Background(), uuid.Nil, PerformanceData{Score: score(50)}); !apperrors.IsValidation(err) {
		t.Fatalf("missing user id must fail validation, got %v", err)
	}
	if _, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{}); !apperrors.IsValidation(err) {
		t.Fatalf("missing score must fail validation, got %v", err)
	}
	if _, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(150)}); !apperrors.IsValidation(err) {
		t.Fatalf("out-of-range score must fail validation, got %v", err)
	}
	if users.updateCalls != 0 {
		t.Fatalf("validation failures must not touch persistence, got %d calls", users.updateCalls)
	}
}

func TestAdjustDifficultyReturnsValueWhenPersistenceFails(t *testing.T) {
	users := &fakeUserRepo{
		user:      &types.User{ID: uuid.New(), DifficultyLevel: "beginner"},
		updateErr: context.DeadlineExceeded,
	}
	dc := newTestController(t, users)

	d, err := dc.AdjustDifficulty(context.Background(), users.user.ID, PerformanceData{Score: score(95)})
	if err != nil {
		t.Fatalf("persistence failure must not fail the call, got %v", err)
	}
	if d.Level != "intermediate" {
		t.Fatalf("computed difficulty must still be returned, got %q", d.Level)
	}
}

func TestResolveUnknownLevelFallsBackToDefault(t *testing.T) {
	dc := newTestController(t, &fakeUserRepo{})

	d := dc.Resolve("mythic")
	if d.Level != "beginner" {
		t.Fatalf("unknown level must resolve to the default band, got %q", d.Level)
	}
	if d.TimeAllocation == 0 {
		t.Fatal("resolved difficulty must be structurally complete")
	}
}
