package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`

	// DifficultyLevel is the learner's current difficulty band. Replaced
	// wholesale by the difficulty controller, never edited in place.
	DifficultyLevel string         `gorm:"column:difficulty_level;not null;default:'beginner'" json:"difficulty_level"`
	Preferences     datatypes.JSON `gorm:"type:jsonb;column:preferences" json:"preferences"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// Preferences payload shape stored in the JSON column.
type Prefs struct {
	FocusArea     string `json:"focus_area,omitempty"`
	ChallengeType string `json:"challenge_type,omitempty"`
	FormatType    string `json:"format_type,omitempty"`
}
