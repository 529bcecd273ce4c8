package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/skillforge/skillforge-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PersonalityProfile holds a learner's dominant traits and the focus area
// those traits imply.
type PersonalityProfile struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	DominantTraits datatypes.JSON `gorm:"type:jsonb;column:dominant_traits" json:"dominant_traits"`
	FocusArea      string         `gorm:"column:focus_area" json:"focus_area"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PersonalityProfile) TableName() string { return "personality_profile" }
