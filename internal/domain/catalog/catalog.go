package catalog

// Descriptor is a typed view over a reference-catalog entry. Catalog data
// arrives as open maps at the edges; inside the engine it always travels as
// a descriptor so selection logic stays exhaustive-checkable.
type Descriptor struct {
	Code        string         `json:"code" yaml:"code"`
	DisplayName string         `json:"display_name" yaml:"display_name"`
	Extra       map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// TraitMapping links a personality trait or raw skill key to a canonical
// focus-area code, optionally with a preferred challenge type.
type TraitMapping struct {
	Trait         string `json:"trait" yaml:"trait"`
	FocusArea     string `json:"focus_area" yaml:"focus_area"`
	ChallengeType string `json:"challenge_type,omitempty" yaml:"challenge_type,omitempty"`
}

// DifficultyBand maps a level code to its generation parameters.
type DifficultyBand struct {
	Level          string  `json:"level" yaml:"level"`
	Complexity     float64 `json:"complexity" yaml:"complexity"`
	Depth          float64 `json:"depth" yaml:"depth"`
	TimeAllocation int     `json:"time_allocation" yaml:"time_allocation"`
}
