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

type PersonalityRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.PersonalityProfile, error)
	Upsert(dbc dbctx.Context, row *types.PersonalityProfile) error
}

type personalityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonalityRepo(db *gorm.DB, baseLog *logger.Logger) PersonalityRepo {
	return &personalityRepo{db: db, log: baseLog.With("repo", "PersonalityRepo")}
}

func (r *personalityRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *personalityRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.PersonalityProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.PersonalityProfile
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *personalityRepo) Upsert(dbc dbctx.Context, row *types.PersonalityProfile) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	t := r.dbx(dbc).WithContext(dbc.Ctx)

	existing, err := r.GetByUserID(dbc, row.UserID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != uuid.Nil {
		row.ID = existing.ID
		return t.Save(row).Error
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.Create(row).Error
}
