// Package config loads the structured run configuration (§6.2) via viper,
// overlaying a local .env file and environment variables, mirroring the
// teacher's own config.Load/applyEnvOverrides pattern but centralized in
// one library.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hkondo/keibasim/internal/domain"
	"github.com/hkondo/keibasim/internal/filter"
)

// SimulationType selects the top-level run mode.
type SimulationType string

const (
	SimulationSimple      SimulationType = "simple"
	SimulationMonteCarlo  SimulationType = "monte_carlo"
	SimulationWalkForward SimulationType = "walk_forward"
)

// Simulation holds §6.2's simulation section.
type Simulation struct {
	Type        SimulationType `mapstructure:"type"`
	InitialFund float64        `mapstructure:"initial_fund"`
	RandomSeed  int64          `mapstructure:"random_seed"`
}

// MonteCarlo holds §6.2's monte_carlo section.
type MonteCarlo struct {
	NumTrials       int     `mapstructure:"num_trials"`
	Method          string  `mapstructure:"method"`
	ConfidenceLevel float64 `mapstructure:"confidence_level"`
}

// WalkForward holds §6.2's walk_forward section.
type WalkForward struct {
	TrainPeriodDays int `mapstructure:"train_period_days"`
	TestPeriodDays  int `mapstructure:"test_period_days"`
	StepDays        int `mapstructure:"step_days"`
}

// Strategy holds §6.2's strategy section: one named strategy with its
// params bag.
type Strategy struct {
	Name   string         `mapstructure:"name"`
	Params map[string]any `mapstructure:"params"`
}

// CompositeEntry is one weighted member of a composite_strategy list.
type CompositeEntry struct {
	Name   string         `mapstructure:"name"`
	Weight float64        `mapstructure:"weight"`
	Params map[string]any `mapstructure:"params"`
}

// CompositeStrategy holds §6.2's composite_strategy section.
type CompositeStrategy struct {
	Enabled     bool             `mapstructure:"enabled"`
	Strategies  []CompositeEntry `mapstructure:"strategies"`
}

// Constraints holds §6.2's fund_management.constraints section.
type Constraints struct {
	MinBet            float64 `mapstructure:"min_bet"`
	MaxBetPerTicket   float64 `mapstructure:"max_bet_per_ticket"`
	MaxBetPerRace     float64 `mapstructure:"max_bet_per_race"`
	MaxBetPerDay      float64 `mapstructure:"max_bet_per_day"`
	StopLossThreshold float64 `mapstructure:"stop_loss_threshold"`
}

// FundManagement holds §6.2's fund_management section.
type FundManagement struct {
	Method      string         `mapstructure:"method"`
	Params      map[string]any `mapstructure:"params"`
	Constraints Constraints    `mapstructure:"constraints"`
}

// TrackFilter holds §6.2's race_filter.tracks sub-section.
type TrackFilter struct {
	Mode  string            `mapstructure:"mode"`
	List  []string          `mapstructure:"list"`
	Tiers map[string]string `mapstructure:"tiers"`
}

// RaceFilter holds §6.2's race_filter section (mirrors internal/filter.Config).
type RaceFilter struct {
	MinHorseCount  int         `mapstructure:"min_horse_count"`
	MinConfidence  float64     `mapstructure:"min_confidence"`
	Surface        string      `mapstructure:"surface"`
	DistanceMin    int         `mapstructure:"distance_min"`
	DistanceMax    int         `mapstructure:"distance_max"`
	SkipMaiden     bool        `mapstructure:"skip_maiden"`
	SkipBadWeather bool        `mapstructure:"skip_bad_weather"`
	SkipNoUpset    bool        `mapstructure:"skip_no_upset"`
	Tracks         TrackFilter `mapstructure:"tracks"`
}

// ToFilterConfig converts the decoded section into internal/filter.Config.
func (rf RaceFilter) ToFilterConfig() filter.Config {
	return filter.Config{
		MinHorseCount:  rf.MinHorseCount,
		MinConfidence:  rf.MinConfidence,
		Surface:        domain.Surface(rf.Surface),
		DistanceMin:    rf.DistanceMin,
		DistanceMax:    rf.DistanceMax,
		TrackMode:      filter.TrackMode(rf.Tracks.Mode),
		TrackList:      rf.Tracks.List,
		TrackTiers:     rf.Tracks.Tiers,
		SkipMaiden:     rf.SkipMaiden,
		SkipBadWeather: rf.SkipBadWeather,
		SkipNoUpset:    rf.SkipNoUpset,
	}
}

// OutputFormats holds the output.formats section (§6.3's output files).
// The toggles are decoded but not consulted: report.WriteFiles writes
// every file.
type OutputFormats struct {
	JSON bool `mapstructure:"json"`
	CSV  bool `mapstructure:"csv"`
	TXT  bool `mapstructure:"txt"`
}

// Output holds §6.2's output section.
type Output struct {
	Directory string        `mapstructure:"directory"`
	Formats   OutputFormats `mapstructure:"formats"`
	Charts    bool          `mapstructure:"charts"`
}

// Config is the fully decoded run configuration.
type Config struct {
	Simulation        Simulation        `mapstructure:"simulation"`
	MonteCarlo        MonteCarlo        `mapstructure:"monte_carlo"`
	WalkForward       WalkForward       `mapstructure:"walk_forward"`
	Strategy          Strategy          `mapstructure:"strategy"`
	CompositeStrategy CompositeStrategy `mapstructure:"composite_strategy"`
	FundManagement    FundManagement    `mapstructure:"fund_management"`
	RaceFilter        RaceFilter        `mapstructure:"race_filter"`
	Output            Output            `mapstructure:"output"`
}

// Load reads path (YAML, JSON or TOML by extension) through viper,
// overlaying a .env in the working directory (if present) and KEIBASIM_-prefixed
// environment variables, and decodes it into a Config.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", domain.ErrConfigInvalid)
	}

	v := viper.New()
	v.SetConfigFile(path)
	applyDefaults(v)

	v.SetEnvPrefix("keibasim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %s: %w", path, domain.ErrConfigNotFound)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: decode: %w", domain.ErrConfigInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("simulation.type", "simple")
	v.SetDefault("simulation.initial_fund", 100000)
	v.SetDefault("simulation.random_seed", 42)
	v.SetDefault("monte_carlo.num_trials", 1000)
	v.SetDefault("monte_carlo.method", "bootstrap")
	v.SetDefault("monte_carlo.confidence_level", 0.95)
	v.SetDefault("fund_management.method", "fixed")
	v.SetDefault("fund_management.constraints.min_bet", 100)
	v.SetDefault("race_filter.min_horse_count", 12)
	v.SetDefault("output.directory", "./output")
	v.SetDefault("output.formats.json", true)
	v.SetDefault("output.formats.csv", true)
	v.SetDefault("output.formats.txt", true)
}

// Validate enforces §6.2's enumerated value sets and the structural
// requirement that an enabled composite_strategy lists at least one entry.
// Composite weights are checked later, by strategy.NewComposite.
func (c Config) Validate() error {
	switch c.Simulation.Type {
	case SimulationSimple, SimulationMonteCarlo, SimulationWalkForward:
	default:
		return &domain.ConfigError{Field: "simulation.type", Code: domain.ErrConfigInvalid, Err: fmt.Errorf("unknown type %q", c.Simulation.Type)}
	}
	if c.Simulation.InitialFund <= 0 {
		return &domain.ConfigError{Field: "simulation.initial_fund", Code: domain.ErrConfigInvalid, Err: fmt.Errorf("must be positive")}
	}
	if !c.CompositeStrategy.Enabled && c.Strategy.Name == "" {
		return &domain.ConfigError{Field: "strategy.name", Code: domain.ErrConfigMissing, Err: fmt.Errorf("required unless composite_strategy.enabled")}
	}
	if c.CompositeStrategy.Enabled && len(c.CompositeStrategy.Strategies) == 0 {
		return &domain.ConfigError{Field: "composite_strategy.strategies", Code: domain.ErrConfigMissing, Err: fmt.Errorf("at least one entry required")}
	}
	if c.FundManagement.Method == "" {
		return &domain.ConfigError{Field: "fund_management.method", Code: domain.ErrConfigMissing, Err: fmt.Errorf("required")}
	}
	return nil
}
