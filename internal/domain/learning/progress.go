package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/skillforge/skillforge-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProgress tracks a learner's skill levels and completed-challenge
// history. One row per user, created lazily on first read.
type UserProgress struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	FocusArea           string         `gorm:"column:focus_area" json:"focus_area"`
	SkillLevels         datatypes.JSON `gorm:"type:jsonb;column:skill_levels" json:"skill_levels"`
	Strengths           datatypes.JSON `gorm:"type:jsonb;column:strengths" json:"strengths"`
	Weaknesses          datatypes.JSON `gorm:"type:jsonb;column:weaknesses" json:"weaknesses"`
	CompletedChallenges datatypes.JSON `gorm:"type:jsonb;column:completed_challenges" json:"completed_challenges"`
	Statistics          datatypes.JSON `gorm:"type:jsonb;column:statistics" json:"statistics"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserProgress) TableName() string { return "user_progress" }

// CompletedChallenge is an element of the completed_challenges JSON column.
type CompletedChallenge struct {
	ChallengeType string    `json:"challenge_type"`
	FocusArea     string    `json:"focus_area"`
	Score         float64   `json:"score"`
	CompletedAt   time.Time `json:"completed_at"`
}
