package personalization

import (
	"context"
	"fmt"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/platform/catalog"
)

// Selector is the trait-based fallback the selection engine delegates to
// when neither an explicit request nor variety selection produces a
// challenge type. It always returns a catalog-valid descriptor.
type Selector interface {
	SelectChallengeType(ctx context.Context, traits []string, focusAreas []string) (types.CatalogDescriptor, error)
}

type selector struct {
	catalog catalog.Provider
	log     *logger.Logger
}

func NewSelector(cat catalog.Provider, baseLog *logger.Logger) Selector {
	return &selector{catalog: cat, log: baseLog.With("service", "PersonalizationSelector")}
}

func (s *selector) SelectChallengeType(ctx context.Context, traits []string, focusAreas []string) (types.CatalogDescriptor, error) {
	// First dominant trait carrying a preferred challenge type wins.
	mappings := s.catalog.GetTraitMappings()
	byTrait := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.ChallengeType != "" {
			byTrait[m.Trait] = m.ChallengeType
		}
	}
	for _, trait := range traits {
		code, ok := byTrait[trait]
		if !ok {
			continue
		}
		d, err := s.catalog.GetChallengeType(code)
		if err != nil {
			s.log.Warn("Trait mapping points at unknown challenge type; skipping",
				"trait", trait, "challenge_type", code)
			continue
		}
		return d, nil
	}

	// A trait mapped to one of the requested focus areas also counts as a
	// preference signal.
	for _, fa := range focusAreas {
		for _, m := range mappings {
			if m.FocusArea != fa || m.ChallengeType == "" {
				continue
			}
			if d, err := s.catalog.GetChallengeType(m.ChallengeType); err == nil {
				return d, nil
			}
		}
	}

	all := s.catalog.GetAllChallengeTypes()
	if len(all) == 0 {
		return types.CatalogDescriptor{}, fmt.Errorf("challenge type catalog is empty")
	}
	return all[0], nil
}
