package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full tracker configuration.
type Config struct {
	Tracker   TrackerConfig   `yaml:"tracker"`
	Milestone MilestoneConfig `yaml:"milestone"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// TrackerConfig controls the live tracking loop.
type TrackerConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// MilestoneConfig are the milestone policy thresholds. These are product
// tunables, not code constants.
type MilestoneConfig struct {
	LowTargetMax    float64 `yaml:"low_target_max"`    // ≤ this: single first-progress alert
	HalfwayPct      float64 `yaml:"halfway_pct"`       // fraction of target for "halfway"
	NearCompletePct float64 `yaml:"near_complete_pct"` // fraction of target for "near-complete"
	TotalNearingPct float64 `yaml:"total_nearing_pct"` // fraction of target for run-total bets
	BudgetUnits     float64 `yaml:"budget_units"`      // stake at/above which a bet gets the bigger budget
	BudgetDefault   int     `yaml:"budget_default"`    // milestone alerts for ordinary bets
	BudgetPremium   int     `yaml:"budget_premium"`    // milestone alerts for big stakes / top tier
}

// ScheduleConfig controls the pregame/marketing/streak schedulers.
type ScheduleConfig struct {
	PregameOffsetsMinutes []int `yaml:"pregame_offsets_minutes"` // minutes before first pitch
	MarketingWindowStart  int   `yaml:"marketing_window_start"`  // hour of day, inclusive
	MarketingWindowEnd    int   `yaml:"marketing_window_end"`    // hour of day, inclusive
	StreakThreshold       int   `yaml:"streak_threshold"`        // consecutive wins to trigger
}

// APIConfig holds the upstream API endpoints. The OpenAI key is never read
// from YAML; it comes from the environment only.
type APIConfig struct {
	MLBBase     string `yaml:"mlb_base"`
	OpenAIBase  string `yaml:"openai_base"`
	OpenAIModel string `yaml:"openai_model"`
	OpenAIKey   string `yaml:"-"`
}

// StorageConfig controls where data is persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config and the .env file if present. Env values
// override the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if present (missing file is fine)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default returns a config with every default applied, for tests and
// embedded use.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// PollInterval returns the live tracking interval as a time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Tracker.IntervalSeconds) * time.Second
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("MLB_API_BASE_URL"); v != "" {
		cfg.API.MLBBase = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.API.OpenAIKey = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Tracker.IntervalSeconds <= 0 {
		cfg.Tracker.IntervalSeconds = 300 // 5 minutes between live polls
	}
	if cfg.Milestone.LowTargetMax <= 0 {
		cfg.Milestone.LowTargetMax = 2.5
	}
	if cfg.Milestone.HalfwayPct <= 0 {
		cfg.Milestone.HalfwayPct = 0.5
	}
	if cfg.Milestone.NearCompletePct <= 0 {
		cfg.Milestone.NearCompletePct = 0.8
	}
	if cfg.Milestone.TotalNearingPct <= 0 {
		cfg.Milestone.TotalNearingPct = 0.75
	}
	if cfg.Milestone.BudgetUnits <= 0 {
		cfg.Milestone.BudgetUnits = 3
	}
	if cfg.Milestone.BudgetDefault <= 0 {
		cfg.Milestone.BudgetDefault = 1
	}
	if cfg.Milestone.BudgetPremium <= 0 {
		cfg.Milestone.BudgetPremium = 2
	}
	if len(cfg.Schedule.PregameOffsetsMinutes) == 0 {
		cfg.Schedule.PregameOffsetsMinutes = []int{120, 30, 10}
	}
	if cfg.Schedule.MarketingWindowStart <= 0 {
		cfg.Schedule.MarketingWindowStart = 10
	}
	if cfg.Schedule.MarketingWindowEnd <= 0 {
		cfg.Schedule.MarketingWindowEnd = 20
	}
	if cfg.Schedule.StreakThreshold <= 0 {
		cfg.Schedule.StreakThreshold = 3
	}
	if cfg.API.MLBBase == "" {
		cfg.API.MLBBase = "https://statsapi.mlb.com/api"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bettracker.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
