package adaptive

import (
	"context"
	"sort"

	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
	"github.com/skillforge/skillforge-backend/internal/platform/catalog"
	"github.com/skillforge/skillforge-backend/internal/services/personalization"
)

// Selection resolves focus areas and challenge types through ordered
// candidate resolvers: each resolver either produces a value or has no
// opinion, and the first resolution wins. No randomness anywhere; identical
// inputs give identical outputs.
type Selection struct {
	cfg        Config
	log        *logger.Logger
	catalog    catalog.Provider
	selector   personalization.Selector
	normalizer *Normalizer
}

func NewSelection(cfg Config, cat catalog.Provider, sel personalization.Selector, norm *Normalizer, baseLog *logger.Logger) *Selection {
	return &Selection{
		cfg:        cfg.withDefaults(),
		log:        baseLog.With("service", "SelectionEngine"),
		catalog:    cat,
		selector:   sel,
		normalizer: norm,
	}
}

// DetermineFocusArea resolves the primary focus area: explicit caller
// override, then weakness-mapped targeting, then tracked/implied focus
// area, then the configured default.
func (s *Selection) DetermineFocusArea(snap Snapshot, explicit string) string {
	resolvers := []func() (string, bool){
		func() (string, bool) {
			// Caller override is used verbatim, no history validation.
			return explicit, explicit != ""
		},
		func() (string, bool) {
			mapped := s.normalizer.MapSkillsToFocusAreas(snap.WeaknessKeys)
			if len(mapped) == 0 {
				return "", false
			}
			return mapped[0], true
		},
		func() (string, bool) {
			return snap.ProgressFocusArea, snap.ProgressFocusArea != ""
		},
		func() (string, bool) {
			return snap.ProfileFocusArea, snap.ProfileFocusArea != ""
		},
	}
	for _, resolve := range resolvers {
		if fa, ok := resolve(); ok {
			return fa
		}
	}
	return s.cfg.DefaultFocusArea
}

// RankedFocusAreas returns a small ranked sequence for recommendations:
// the primary focus area first, then remaining weakness-mapped areas, then
// the profile-implied area. Deduplicated, capped at three.
func (s *Selection) RankedFocusAreas(snap Snapshot, explicit string) []string {
	const maxAreas = 3
	seen := map[string]bool{}
	out := make([]string, 0, maxAreas)
	push := func(fa string) {
		if fa == "" || seen[fa] || len(out) >= maxAreas {
			return
		}
		seen[fa] = true
		out = append(out, fa)
	}

	push(s.DetermineFocusArea(snap, explicit))
	for _, fa := range s.normalizer.MapSkillsToFocusAreas(snap.WeaknessKeys) {
		push(fa)
	}
	push(snap.ProgressFocusArea)
	push(snap.ProfileFocusArea)
	push(s.cfg.DefaultFocusArea)
	return out
}

// DetermineChallengeType resolves, in order: the explicit request, variety
// selection over the cooldown window, and the trait-based personalization
// fallback.
func (s *Selection) DetermineChallengeType(ctx context.Context, snap Snapshot, explicit string, focusAreas []string) (types.CatalogDescriptor, error) {
	if explicit != "" {
		if d, err := s.catalog.GetChallengeType(explicit); err == nil {
			return d, nil
		}
		// Unknown codes are honored as-is; the caller asked for them.
		return types.CatalogDescriptor{Code: explicit, DisplayName: FormatSkillName(explicit)}, nil
	}

	if len(snap.Completed) > 0 {
		if d, ok := s.varietyPick(snap); ok {
			return d, nil
		}
	}

	return s.selector.SelectChallengeType(ctx, snap.Traits, focusAreas)
}

// varietyPick excludes every challenge type seen in the learner's most
// recent completions (cooldown window) and picks the first survivor in
// catalog order. Reports false when the exclusion covers the whole catalog.
func (s *Selection) varietyPick(snap Snapshot) (types.CatalogDescriptor, bool) {
	recent := append([]types.CompletedChallenge(nil), snap.Completed...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CompletedAt.After(recent[j].CompletedAt)
	})
	window := s.cfg.ChallengeTypeCooldown
	if window > len(recent) {
		window = len(recent)
	}
	excluded := make(map[string]bool, window)
	for _, c := range recent[:window] {
		excluded[c.ChallengeType] = true
	}

	for _, d := range s.catalog.GetAllChallengeTypes() {
		if !excluded[d.Code] {
			return d, true
		}
	}
	s.log.Debug("Cooldown window covers the whole catalog; deferring to trait fallback",
		"window", window)
	return types.CatalogDescriptor{}, false
}

// RankedChallengeTypes returns up to max distinct challenge-type codes for a
// recommendation, starting from the resolved primary type.
func (s *Selection) RankedChallengeTypes(ctx context.Context, snap Snapshot, focusAreas []string, max int) []string {
	if max <= 0 {
		max = 2
	}
	seen := map[string]bool{}
	out := make([]string, 0, max)
	push := func(code string) {
		if code == "" || seen[code] || len(out) >= max {
			return
		}
		seen[code] = true
		out = append(out, code)
	}

	primary, err := s.DetermineChallengeType(ctx, snap, "", focusAreas)
	if err == nil {
		push(primary.Code)
	} else {
		s.log.Warn("Primary challenge type resolution failed; using catalog order", "error", err)
	}
	for _, d := range s.catalog.GetAllChallengeTypes() {
		push(d.Code)
	}
	return out
}

// DetermineFormatType picks the explicit format when given, else the
// challenge type's preferred format from its catalog metadata, else the
// first catalog format.
func (s *Selection) DetermineFormatType(explicit string, challengeType types.CatalogDescriptor) string {
	if explicit != "" {
		if d, err := s.catalog.GetFormatType(explicit); err == nil {
			return d.Code
		}
		return explicit
	}
	if pref, ok := challengeType.Extra["format_type"].(string); ok && pref != "" {
		return pref
	}
	all := s.catalog.GetAllFormatTypes()
	if len(all) > 0 {
		return all[0].Code
	}
	return ""
}
