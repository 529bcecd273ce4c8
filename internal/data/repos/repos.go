package repos

import (
	"github.com/skillforge/skillforge-backend/internal/data/repos/learning"
	"github.com/skillforge/skillforge-backend/internal/data/repos/user"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type ProgressRepo = learning.ProgressRepo
type PersonalityRepo = learning.PersonalityRepo
type RecommendationRepo = learning.RecommendationRepo

// Set bundles every repository so wiring stays a single constructor call.
type Set struct {
	User           UserRepo
	Progress       ProgressRepo
	Personality    PersonalityRepo
	Recommendation RecommendationRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		User:           user.NewUserRepo(db, baseLog),
		Progress:       learning.NewProgressRepo(db, baseLog),
		Personality:    learning.NewPersonalityRepo(db, baseLog),
		Recommendation: learning.NewRecommendationRepo(db, baseLog),
	}
}
