package adaptive

import (
	"strings"
	"unicode"

	types "github.com/skillforge/skillforge-backend/internal/domain"
)

// Normalizer converts raw skill keys into canonical focus-area codes and
// human-readable display labels. Pure; safe for concurrent use.
type Normalizer struct {
	focusByTrait map[string]string
}

func NewNormalizer(mappings []types.TraitMapping) *Normalizer {
	byTrait := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.Trait == "" || m.FocusArea == "" {
			continue
		}
		byTrait[m.Trait] = m.FocusArea
	}
	return &Normalizer{focusByTrait: byTrait}
}

// MapSkillsToFocusAreas resolves each skill key to its canonical focus-area
// code. Keys with no mapping pass through unchanged; no entry is ever
// dropped.
func (n *Normalizer) MapSkillsToFocusAreas(skillKeys []string) []string {
	out := make([]string, 0, len(skillKeys))
	for _, key := range skillKeys {
		if fa, ok := n.focusByTrait[key]; ok {
			out = append(out, fa)
			continue
		}
		out = append(out, key)
	}
	return out
}

// FormatSkillName renders a snake_case or camelCase skill key as Title Case
// words: both "prompt_engineering" and "promptEngineering" yield
// "Prompt Engineering".
func FormatSkillName(key string) string {
	words := splitSkillKey(key)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func splitSkillKey(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}
