package learning

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skillforge/skillforge-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MetadataGenerationSource is the metadata key identifying which engine
// produced a recommendation.
const MetadataGenerationSource = "generationSource"

// Recommendation is the persisted output of one generation event. History is
// retained; FindLatestForUser picks the newest row.
type Recommendation struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	RecommendedFocusAreas     datatypes.JSON `gorm:"type:jsonb;column:recommended_focus_areas" json:"recommended_focus_areas"`
	RecommendedChallengeTypes datatypes.JSON `gorm:"type:jsonb;column:recommended_challenge_types" json:"recommended_challenge_types"`
	SuggestedResources        datatypes.JSON `gorm:"type:jsonb;column:suggested_resources" json:"suggested_learning_resources"`
	Strengths                 datatypes.JSON `gorm:"type:jsonb;column:strengths" json:"strengths"`
	Weaknesses                datatypes.JSON `gorm:"type:jsonb;column:weaknesses" json:"weaknesses"`

	// ChallengeParameters snapshots the last generated parameter bundle.
	ChallengeParameters datatypes.JSON `gorm:"type:jsonb;column:challenge_parameters" json:"challenge_parameters,omitempty"`
	Metadata            datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Recommendation) TableName() string { return "recommendation" }

// LearningResource is an element of the suggested_resources JSON column.
type LearningResource struct {
	Title     string `json:"title"`
	FocusArea string `json:"focus_area"`
	Kind      string `json:"kind"`
	URL       string `json:"url,omitempty"`
}

var arrayColumns = []string{
	"recommended_focus_areas",
	"recommended_challenge_types",
	"suggested_resources",
	"strengths",
	"weaknesses",
}

// EnsureArrays replaces null/empty array columns with "[]" so the row never
// carries a null where callers expect a sequence.
func (r *Recommendation) EnsureArrays() {
	for _, col := range []*datatypes.JSON{
		&r.RecommendedFocusAreas,
		&r.RecommendedChallengeTypes,
		&r.SuggestedResources,
		&r.Strengths,
		&r.Weaknesses,
	} {
		if len(*col) == 0 || string(*col) == "null" {
			*col = datatypes.JSON([]byte("[]"))
		}
	}
	if len(r.Metadata) == 0 || string(r.Metadata) == "null" {
		r.Metadata = datatypes.JSON([]byte("{}"))
	}
}

// Validate rejects rows whose array columns hold non-array JSON.
func (r *Recommendation) Validate() error {
	if r.UserID == uuid.Nil {
		return fmt.Errorf("recommendation requires a user id")
	}
	for i, col := range []datatypes.JSON{
		r.RecommendedFocusAreas,
		r.RecommendedChallengeTypes,
		r.SuggestedResources,
		r.Strengths,
		r.Weaknesses,
	} {
		var out []json.RawMessage
		if err := json.Unmarshal(col, &out); err != nil {
			return fmt.Errorf("column %s must hold a JSON array: %w", arrayColumns[i], err)
		}
	}
	return nil
}

func (r *Recommendation) BeforeSave(tx *gorm.DB) error {
	r.EnsureArrays()
	return r.Validate()
}
