package learning

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
)

func TestRecommendationSaveAndFindLatest(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewRecommendationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "latest@test.dev")

	older := &types.Recommendation{
		UserID:                u.ID,
		RecommendedFocusAreas: []byte(`["general"]`),
		CreatedAt:             time.Now().Add(-1 * time.Hour),
	}
	if _, err := repo.Save(dbctx.New(ctx), older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	newer := &types.Recommendation{
		UserID:                u.ID,
		RecommendedFocusAreas: []byte(`["testing"]`),
	}
	if _, err := repo.Save(dbctx.New(ctx), newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	got, err := repo.FindLatestForUser(dbctx.New(ctx), u.ID)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if got == nil || got.ID != newer.ID {
		t.Fatalf("expected newest row %s, got %+v", newer.ID, got)
	}

	// History is retained, newest first.
	all, err := repo.ListByUserID(dbctx.New(ctx), u.ID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID {
		t.Fatalf("expected both rows newest first, got %d rows", len(all))
	}
}

func TestRecommendationFindLatestMissingUser(t *testing.T) {
	ctx := context.Background()
	repo := NewRecommendationRepo(testutil.DB(t), testutil.Logger(t))

	got, err := repo.FindLatestForUser(dbctx.New(ctx), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a user with no history, got %+v", got)
	}
}

func TestRecommendationSaveNormalizesNullArrays(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewRecommendationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "arrays@test.dev")

	row := &types.Recommendation{UserID: u.ID}
	saved, err := repo.Save(dbctx.New(ctx), row)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []json.RawMessage
	for _, col := range [][]byte{
		saved.RecommendedFocusAreas,
		saved.RecommendedChallengeTypes,
		saved.SuggestedResources,
		saved.Strengths,
		saved.Weaknesses,
	} {
		if err := json.Unmarshal(col, &out); err != nil {
			t.Fatalf("array column holds %q, want a JSON array", string(col))
		}
	}
}

func TestRecommendationSaveRejectsNonArrayColumn(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewRecommendationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "invalid@test.dev")

	row := &types.Recommendation{
		UserID:    u.ID,
		Strengths: []byte(`{"not":"an array"}`),
	}
	if _, err := repo.Save(dbctx.New(ctx), row); err == nil {
		t.Fatal("non-array strengths column must be rejected")
	}
}

func TestUpdateChallengeParameters(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewRecommendationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "params@test.dev")

	saved, err := repo.Save(dbctx.New(ctx), &types.Recommendation{UserID: u.ID})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	payload := []byte(`{"focus_area":"testing","challenge_type":"debugging"}`)
	if err := repo.UpdateChallengeParameters(dbctx.New(ctx), saved.ID, payload); err != nil {
		t.Fatalf("update params: %v", err)
	}

	got, err := repo.FindLatestForUser(dbctx.New(ctx), u.ID)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(got.ChallengeParameters, &decoded); err != nil {
		t.Fatalf("snapshot column: %v", err)
	}
	if decoded["focus_area"] != "testing" {
		t.Fatalf("unexpected snapshot %v", decoded)
	}
}
