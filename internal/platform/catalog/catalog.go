package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// Provider supplies the read-only reference data the engine consumes:
// challenge types, format types, focus areas, trait mappings, and difficulty
// bands. Order of the GetAll* results is stable (seed-file order) so
// selection stays deterministic.
type Provider interface {
	GetAllChallengeTypes() []types.CatalogDescriptor
	GetAllFormatTypes() []types.CatalogDescriptor
	GetAllFocusAreas() []types.CatalogDescriptor
	GetTraitMappings() []types.TraitMapping
	GetChallengeType(code string) (types.CatalogDescriptor, error)
	GetFormatType(code string) (types.CatalogDescriptor, error)
	GetDifficultyLevel(code string) (types.DifficultyBand, error)
}

type seedFile struct {
	ChallengeTypes  []types.CatalogDescriptor `yaml:"challenge_types"`
	FormatTypes     []types.CatalogDescriptor `yaml:"format_types"`
	FocusAreas      []types.CatalogDescriptor `yaml:"focus_areas"`
	TraitMappings   []types.TraitMapping      `yaml:"trait_mappings"`
	DifficultyBands []types.DifficultyBand    `yaml:"difficulty_bands"`
}

type provider struct {
	log  *logger.Logger
	seed seedFile

	challengeTypes map[string]types.CatalogDescriptor
	formatTypes    map[string]types.CatalogDescriptor
	bands          map[string]types.DifficultyBand
}

// New loads the catalog from a YAML seed file, or falls back to the built-in
// defaults when path is empty.
func New(path string, baseLog *logger.Logger) (Provider, error) {
	log := baseLog.With("service", "CatalogProvider")

	seed := defaultSeed()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog seed %s: %w", path, err)
		}
		var fromFile seedFile
		if err := yaml.Unmarshal(raw, &fromFile); err != nil {
			return nil, fmt.Errorf("failed to parse catalog seed %s: %w", path, err)
		}
		seed = fromFile
		log.Info("Catalog loaded from seed file", "path", path,
			"challenge_types", len(seed.ChallengeTypes), "focus_areas", len(seed.FocusAreas))
	} else {
		log.Info("Catalog using built-in defaults")
	}

	p := &provider{
		log:            log,
		seed:           seed,
		challengeTypes: make(map[string]types.CatalogDescriptor, len(seed.ChallengeTypes)),
		formatTypes:    make(map[string]types.CatalogDescriptor, len(seed.FormatTypes)),
		bands:          make(map[string]types.DifficultyBand, len(seed.DifficultyBands)),
	}
	for _, ct := range seed.ChallengeTypes {
		p.challengeTypes[ct.Code] = ct
	}
	for _, ft := range seed.FormatTypes {
		p.formatTypes[ft.Code] = ft
	}
	for _, b := range seed.DifficultyBands {
		p.bands[b.Level] = b
	}
	return p, nil
}

func (p *provider) GetAllChallengeTypes() []types.CatalogDescriptor {
	return append([]types.CatalogDescriptor(nil), p.seed.ChallengeTypes...)
}

func (p *provider) GetAllFormatTypes() []types.CatalogDescriptor {
	return append([]types.CatalogDescriptor(nil), p.seed.FormatTypes...)
}

func (p *provider) GetAllFocusAreas() []types.CatalogDescriptor {
	return append([]types.CatalogDescriptor(nil), p.seed.FocusAreas...)
}

func (p *provider) GetTraitMappings() []types.TraitMapping {
	return append([]types.TraitMapping(nil), p.seed.TraitMappings...)
}

func (p *provider) GetChallengeType(code string) (types.CatalogDescriptor, error) {
	if d, ok := p.challengeTypes[code]; ok {
		return d, nil
	}
	return types.CatalogDescriptor{}, fmt.Errorf("challenge type %q: %w", code, errors.ErrNotFound)
}

func (p *provider) GetFormatType(code string) (types.CatalogDescriptor, error) {
	if d, ok := p.formatTypes[code]; ok {
		return d, nil
	}
	return types.CatalogDescriptor{}, fmt.Errorf("format type %q: %w", code, errors.ErrNotFound)
}

func (p *provider) GetDifficultyLevel(code string) (types.DifficultyBand, error) {
	if b, ok := p.bands[code]; ok {
		return b, nil
	}
	return types.DifficultyBand{}, fmt.Errorf("difficulty level %q: %w", code, errors.ErrNotFound)
}

// defaultSeed is the catalog shipped with the binary. Deployments override
// it with CATALOG_PATH.
func defaultSeed() seedFile {
	return seedFile{
		ChallengeTypes: []types.CatalogDescriptor{
			{Code: "implementation", DisplayName: "Implementation"},
			{Code: "debugging", DisplayName: "Debugging"},
			{Code: "design", DisplayName: "Design"},
			{Code: "optimization", DisplayName: "Optimization"},
			{Code: "analysis", DisplayName: "Analysis"},
		},
		FormatTypes: []types.CatalogDescriptor{
			{Code: "code", DisplayName: "Code"},
			{Code: "design_doc", DisplayName: "Design Document"},
			{Code: "quiz", DisplayName: "Quiz"},
		},
		FocusAreas: []types.CatalogDescriptor{
			{Code: "general", DisplayName: "General"},
			{Code: "prompt_engineering", DisplayName: "Prompt Engineering"},
			{Code: "system_design", DisplayName: "System Design"},
			{Code: "data_structures", DisplayName: "Data Structures"},
			{Code: "testing", DisplayName: "Testing"},
		},
		TraitMappings: []types.TraitMapping{
			{Trait: "analytical", FocusArea: "data_structures", ChallengeType: "analysis"},
			{Trait: "creative", FocusArea: "system_design", ChallengeType: "design"},
			{Trait: "methodical", FocusArea: "testing", ChallengeType: "debugging"},
			{Trait: "pragmatic", FocusArea: "general", ChallengeType: "implementation"},
			{Trait: "prompt_engineering", FocusArea: "prompt_engineering"},
			{Trait: "system_design", FocusArea: "system_design"},
			{Trait: "data_structures", FocusArea: "data_structures"},
			{Trait: "testing", FocusArea: "testing"},
		},
		DifficultyBands: []types.DifficultyBand{
			{Level: "beginner", Complexity: 0.3, Depth: 0.3, TimeAllocation: 300},
			{Level: "intermediate", Complexity: 0.5, Depth: 0.5, TimeAllocation: 450},
			{Level: "advanced", Complexity: 0.7, Depth: 0.7, TimeAllocation: 540},
			{Level: "expert", Complexity: 0.9, Depth: 0.9, TimeAllocation: 720},
			{Level: "easy", Complexity: 0.4, Depth: 0.4, TimeAllocation: 360},
			{Level: "medium", Complexity: 0.6, Depth: 0.6, TimeAllocation: 480},
			{Level: "hard", Complexity: 0.8, Depth: 0.8, TimeAllocation: 600},
		},
	}
}
