package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type RecommendationRepo interface {
	Save(dbc dbctx.Context, row *types.Recommendation) (*types.Recommendation, error)
	FindLatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.Recommendation, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Recommendation, error)
	UpdateChallengeParameters(dbc dbctx.Context, id uuid.UUID, params []byte) error
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: baseLog.With("repo", "RecommendationRepo")}
}

func (r *recommendationRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// Save inserts a new recommendation row. One row per generation event,
// history retained.
func (r *recommendationRepo) Save(dbc dbctx.Context, row *types.Recommendation) (*types.Recommendation, error) {
	if row == nil {
		return nil, nil
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *recommendationRepo) FindLatestForUser(dbc dbctx.Context, userID uuid.UUID) (*types.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.Recommendation
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *recommendationRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var out []*types.Recommendation
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recommendationRepo) UpdateChallengeParameters(dbc dbctx.Context, id uuid.UUID, params []byte) error {
	if id == uuid.Nil {
		return gorm.ErrRecordNotFound
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Recommendation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"challenge_parameters": params,
			"updated_at":           time.Now().UTC(),
		}).Error
}
