package domain

import (
	"github.com/skillforge/skillforge-backend/internal/domain/catalog"
	"github.com/skillforge/skillforge-backend/internal/domain/learning"
	"github.com/skillforge/skillforge-backend/internal/domain/user"
)

type User = user.User
type UserPrefs = user.Prefs

type UserProgress = learning.UserProgress
type CompletedChallenge = learning.CompletedChallenge
type PersonalityProfile = learning.PersonalityProfile
type Recommendation = learning.Recommendation
type LearningResource = learning.LearningResource
type Difficulty = learning.Difficulty

type CatalogDescriptor = catalog.Descriptor
type TraitMapping = catalog.TraitMapping
type DifficultyBand = catalog.DifficultyBand

const MetadataGenerationSource = learning.MetadataGenerationSource
