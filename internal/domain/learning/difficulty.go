package learning

// Difficulty is a value object, not an aggregate root. A new instance
// replaces the old one on adjustment.
type Difficulty struct {
	Level          string  `json:"level"`
	Complexity     float64 `json:"complexity"`
	Depth          float64 `json:"depth"`
	TimeAllocation int     `json:"time_allocation"`
}

// Difficulty ladders. The beginner..expert scale is the learner-facing one;
// easy/medium/hard survives for legacy challenge defaults.
var (
	LevelLadder       = []string{"beginner", "intermediate", "advanced", "expert"}
	LegacyLevelLadder = []string{"easy", "medium", "hard"}
)

func ladderFor(level string) []string {
	for _, l := range LegacyLevelLadder {
		if l == level {
			return LegacyLevelLadder
		}
	}
	return LevelLadder
}

// NextLevel returns the band one step up within the level's own ladder,
// clamped at the top.
func NextLevel(level string) string {
	ladder := ladderFor(level)
	for i, l := range ladder {
		if l == level {
			if i+1 < len(ladder) {
				return ladder[i+1]
			}
			return l
		}
	}
	return level
}

// PrevLevel returns the band one step down, clamped at the bottom.
func PrevLevel(level string) string {
	ladder := ladderFor(level)
	for i, l := range ladder {
		if l == level {
			if i > 0 {
				return ladder[i-1]
			}
			return l
		}
	}
	return level
}

func IsKnownLevel(level string) bool {
	for _, l := range LevelLadder {
		if l == level {
			return true
		}
	}
	for _, l := range LegacyLevelLadder {
		if l == level {
			return true
		}
	}
	return false
}
