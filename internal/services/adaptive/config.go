package adaptive

// Config carries the engine tunables. The thresholds and windows are
// deployment configuration, not contract: defaults live in app.LoadConfig.
type Config struct {
	StrengthThreshold     float64
	WeaknessThreshold     float64
	RecentScoreWindow     int
	ChallengeTypeCooldown int
	HighScoreThreshold    float64
	LowScoreThreshold     float64
	DefaultFocusArea      string
	DefaultDifficulty     string
}

// GenerationSource tags every persisted recommendation's metadata.
const GenerationSource = "adaptive_engine"

func (c Config) withDefaults() Config {
	if c.StrengthThreshold == 0 {
		c.StrengthThreshold = 80
	}
	if c.WeaknessThreshold == 0 {
		c.WeaknessThreshold = 50
	}
	if c.RecentScoreWindow <= 0 {
		c.RecentScoreWindow = 5
	}
	if c.ChallengeTypeCooldown <= 0 {
		c.ChallengeTypeCooldown = 3
	}
	if c.HighScoreThreshold == 0 {
		c.HighScoreThreshold = 80
	}
	if c.LowScoreThreshold == 0 {
		c.LowScoreThreshold = 50
	}
	if c.DefaultFocusArea == "" {
		c.DefaultFocusArea = "general"
	}
	if c.DefaultDifficulty == "" {
		c.DefaultDifficulty = "beginner"
	}
	return c
}
