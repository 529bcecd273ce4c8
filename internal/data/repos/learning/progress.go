package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type ProgressRepo interface {
	GetOrCreateByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProgress, error)
	Upsert(dbc dbctx.Context, row *types.UserProgress) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *progressRepo) GetOrCreateByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProgress, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.UserProgress
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&out).Error
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	fresh := &types.UserProgress{
		ID:                  uuid.New(),
		UserID:              userID,
		SkillLevels:         datatypes.JSON([]byte("{}")),
		Strengths:           datatypes.JSON([]byte("[]")),
		Weaknesses:          datatypes.JSON([]byte("[]")),
		CompletedChallenges: datatypes.JSON([]byte("[]")),
		Statistics:          datatypes.JSON([]byte("{}")),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *progressRepo) Upsert(dbc dbctx.Context, row *types.UserProgress) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	t := r.dbx(dbc).WithContext(dbc.Ctx)

	var existing types.UserProgress
	err := t.Where("user_id = ?", row.UserID).First(&existing).Error
	if err == nil && existing.ID != uuid.Nil {
		row.ID = existing.ID
		return t.Save(row).Error
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.Create(row).Error
}
