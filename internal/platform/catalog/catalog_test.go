package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func TestDefaultSeedLookups(t *testing.T) {
	p, err := New("", testLog(t))
	if err != nil {
		t.Fatalf("catalog init: %v", err)
	}

	if got := p.GetAllChallengeTypes(); len(got) == 0 {
		t.Fatal("default seed must carry challenge types")
	}
	ct, err := p.GetChallengeType("debugging")
	if err != nil {
		t.Fatalf("debugging lookup: %v", err)
	}
	if ct.DisplayName != "Debugging" {
		t.Fatalf("unexpected descriptor %+v", ct)
	}

	band, err := p.GetDifficultyLevel("intermediate")
	if err != nil {
		t.Fatalf("band lookup: %v", err)
	}
	if band.TimeAllocation <= 0 || band.Complexity <= 0 {
		t.Fatalf("band must be fully populated, got %+v", band)
	}

	if _, err := p.GetChallengeType("nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown code must wrap ErrNotFound, got %v", err)
	}
	if _, err := p.GetDifficultyLevel("mythic"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown level must wrap ErrNotFound, got %v", err)
	}
}

func TestSeedFileOverridesDefaults(t *testing.T) {
	seed := `
challenge_types:
  - code: kata
    display_name: Kata
format_types:
  - code: repl
    display_name: REPL
focus_areas:
  - code: concurrency
    display_name: Concurrency
trait_mappings:
  - trait: patient
    focus_area: concurrency
    challenge_type: kata
difficulty_bands:
  - level: beginner
    complexity: 0.2
    depth: 0.2
    time_allocation: 240
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	p, err := New(path, testLog(t))
	if err != nil {
		t.Fatalf("catalog init: %v", err)
	}

	all := p.GetAllChallengeTypes()
	if len(all) != 1 || all[0].Code != "kata" {
		t.Fatalf("seed file must replace defaults, got %+v", all)
	}
	band, err := p.GetDifficultyLevel("beginner")
	if err != nil {
		t.Fatalf("band lookup: %v", err)
	}
	if band.TimeAllocation != 240 {
		t.Fatalf("expected seeded time allocation 240, got %d", band.TimeAllocation)
	}
	if _, err := p.GetChallengeType("implementation"); err == nil {
		t.Fatal("default entries must not leak through a seed file")
	}
}

func TestGetAllReturnsDefensiveCopies(t *testing.T) {
	p, err := New("", testLog(t))
	if err != nil {
		t.Fatalf("catalog init: %v", err)
	}

	first := p.GetAllChallengeTypes()
	first[0].Code = "mutated"
	second := p.GetAllChallengeTypes()
	if second[0].Code == "mutated" {
		t.Fatal("callers must not be able to mutate the catalog")
	}
}

func TestNewRejectsMissingSeedFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent.yaml"), testLog(t)); err == nil {
		t.Fatal("missing seed file must fail loudly")
	}
}
