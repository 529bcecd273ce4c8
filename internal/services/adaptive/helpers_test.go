package adaptive

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos"
	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/platform/catalog"
)

var (
	tlOnce sync.Once
	tlLog  *logger.Logger
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	tlOnce.Do(func() {
		l, err := logger.New("test")
		if err != nil {
			panic(err)
		}
		tlLog = l
	})
	return tlLog
}

func testCatalog(tb testing.TB) catalog.Provider {
	tb.Helper()
	cat, err := catalog.New("", testLogger(tb))
	if err != nil {
		tb.Fatalf("catalog init: %v", err)
	}
	return cat
}

func engineRepoSet(fx *engineFixture) repos.Set {
	return repos.Set{
		User:           fx.users,
		Progress:       fx.progress,
		Personality:    fx.personality,
		Recommendation: fx.recs,
	}
}

type fakeUserRepo struct {
	mu          sync.Mutex
	user        *types.User
	getErr      error
	updateErr   error
	updateCalls int
	lastLevel   string
}

func (f *fakeUserRepo) Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error) {
	if len(rows) > 0 {
		f.user = rows[0]
	}
	return rows, nil
}

func (f *fakeUserRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUserRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error) {
	if f.user == nil {
		return nil, nil
	}
	return []*types.User{f.user}, nil
}

func (f *fakeUserRepo) UpdateDifficulty(dbc dbctx.Context, userID uuid.UUID, level string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastLevel = level
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.user != nil {
		f.user.DifficultyLevel = level
	}
	return nil
}

type fakeProgressRepo struct {
	progress *types.UserProgress
}

func (f *fakeProgressRepo) GetOrCreateByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProgress, error) {
	return f.progress, nil
}

func (f *fakeProgressRepo) Upsert(dbc dbctx.Context, row *types.UserProgress) error {
	f.progress = row
	return nil
}

type fakePersonalityRepo struct {
	profile *types.PersonalityProfile
}

func (f *fakePersonalityRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.PersonalityProfile, error) {
	return f.profile, nil
}

func (f *fakePersonalityRepo) Upsert(dbc dbctx.Context, row *types.PersonalityProfile) error {
	f.profile = row
	return nil
}

type fakeRecommendationRepo struct {
	mu        sync.Mutex
	rows      []*types.Recommendation
	saveCalls int
	saveErr   error
}

func (f *fakeRecommendationRepo) Save(dbc dbctx.Context, row *types.Recommendation) (*types.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeRecommendationRepo) FindLatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			return f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRecommendationRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Recommendation
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecommendationRepo) UpdateChallengeParameters(dbc dbctx.Context, id uuid.UUID, params []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			r.ChallengeParameters = params
			return nil
		}
	}
	return nil
}
