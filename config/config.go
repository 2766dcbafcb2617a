// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pond/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Species      SpeciesTable       `yaml:"species"`
	Plant        PlantConfig        `yaml:"plant"`
	Invertebrate InvertebrateConfig `yaml:"invertebrate"`
	Larva        LarvaConfig        `yaml:"larva"`
	Feeding      FeedingConfig      `yaml:"feeding"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Population   PopulationConfig   `yaml:"population"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds pond dimensions in pixels.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimulationConfig holds time-scaling parameters.
type SimulationConfig struct {
	Speed    float64 `yaml:"speed"`     // simulationSpeed multiplier, clamped to [MinSpeed, MaxSpeed]
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
	DT       float64 `yaml:"dt"`        // seconds per tick for headless runs
	TickHz   int     `yaml:"tick_hz"`   // real-time driver frequency
	AgeRate  float64 `yaml:"age_rate"`  // age gained per simulated second
	MoveGain float64 `yaml:"move_gain"` // cruising displacement multiplier
}

// SpeciesConfig holds the per-species parameter bundle.
type SpeciesConfig struct {
	Speed           float64 `yaml:"speed"`
	Size            float64 `yaml:"size"`          // adult spawn size
	JuvenileSize    float64 `yaml:"juvenile_size"` // size when hatched from a larva
	MaxSize         float64 `yaml:"max_size"`
	HungerRate      float64 `yaml:"hunger_rate"`    // hunger per unit size per second
	GrowthRate      float64 `yaml:"growth_rate"`    // size per second while well-fed
	JuvenileBonus   float64 `yaml:"juvenile_bonus"` // extra growth below adult size
	InitialHunger   float64 `yaml:"initial_hunger"`
	ReproduceHunger float64 `yaml:"reproduce_hunger"`
	ReproduceAge    float64 `yaml:"reproduce_age"`
	DetectionRadius float64 `yaml:"detection_radius"`
}

// SpeciesTable holds one parameter bundle per fish species.
type SpeciesTable struct {
	Pike       SpeciesConfig `yaml:"pike"`
	SilverCarp SpeciesConfig `yaml:"silver_carp"`
	Crucian    SpeciesConfig `yaml:"crucian"`
	Carp       SpeciesConfig `yaml:"carp"`
}

// For returns the bundle for the given species.
func (t *SpeciesTable) For(s components.Species) *SpeciesConfig {
	switch s {
	case components.Pike:
		return &t.Pike
	case components.SilverCarp:
		return &t.SilverCarp
	case components.Crucian:
		return &t.Crucian
	case components.Carp:
		return &t.Carp
	}
	panic(fmt.Sprintf("config: unhandled species %d", s))
}

// PlantConfig holds plant growth and spawning parameters.
type PlantConfig struct {
	MaxSize       float64 `yaml:"max_size"`
	SpawnSize     float64 `yaml:"spawn_size"`   // size above which a plant can seed
	SpawnChance   float64 `yaml:"spawn_chance"` // per simulated second
	MinSize       float64 `yaml:"min_size"`
	SizeJitter    float64 `yaml:"size_jitter"`
	MinGrowthRate float64 `yaml:"min_growth_rate"`
	GrowthJitter  float64 `yaml:"growth_jitter"`
	EdgeMargin    float64 `yaml:"edge_margin"`
	RemoveSize    float64 `yaml:"remove_size"` // plants at or below this size are removed
}

// InvertebrateConfig holds invertebrate movement and spawning parameters.
type InvertebrateConfig struct {
	Speed       float64 `yaml:"speed"`
	SpawnChance float64 `yaml:"spawn_chance"` // per simulated second
	MinSize     float64 `yaml:"min_size"`
	SizeJitter  float64 `yaml:"size_jitter"`
	WalkGain    float64 `yaml:"walk_gain"`
	EdgeMargin  float64 `yaml:"edge_margin"`
}

// LarvaConfig holds hatching parameters.
type LarvaConfig struct {
	HatchRate float64 `yaml:"hatch_rate"` // progress per simulated second
	BaseSize  float64 `yaml:"base_size"`
}

// FeedingConfig holds feeding and predator-avoidance parameters.
type FeedingConfig struct {
	HungerThreshold float64 `yaml:"hunger_threshold"` // seek food above this
	MaxHunger       float64 `yaml:"max_hunger"`       // starvation ceiling
	WellFedHunger   float64 `yaml:"well_fed_hunger"`  // grow below this
	GrowthCost      float64 `yaml:"growth_cost"`      // hunger per unit of size grown
	SatiationFactor float64 `yaml:"satiation_factor"` // hunger removed per unit of prey size
	WanderChance    float64 `yaml:"wander_chance"`    // per simulated second
	FleeBoost       float64 `yaml:"flee_boost"`       // speed multiplier while fleeing
}

// ReproductionConfig holds handshake parameters.
type ReproductionConfig struct {
	Cooldown       float64 `yaml:"cooldown"`        // after a successful spawn
	CancelCooldown float64 `yaml:"cancel_cooldown"` // after a cancelled pairing
	MinProgress    float64 `yaml:"min_progress"`    // seconds of approach before spawning
	StuckProgress  float64 `yaml:"stuck_progress"`  // force-cancel beyond this
	Spacing        float64 `yaml:"spacing"`
	ApproachFactor float64 `yaml:"approach_factor"` // rendezvous offset scale
	MoveGain       float64 `yaml:"move_gain"`
	HungerCost     float64 `yaml:"hunger_cost"`
}

// PopulationConfig holds initial population counts.
type PopulationConfig struct {
	Pike          int `yaml:"pike"`
	SilverCarp    int `yaml:"silver_carp"`
	Crucian       int `yaml:"crucian"`
	Carp          int `yaml:"carp"`
	Plants        int `yaml:"plants"`
	Invertebrates int `yaml:"invertebrates"`
}

// Fish returns the initial count for a species.
func (p PopulationConfig) Fish(s components.Species) int {
	switch s {
	case components.Pike:
		return p.Pike
	case components.SilverCarp:
		return p.SilverCarp
	case components.Crucian:
		return p.Crucian
	case components.Carp:
		return p.Carp
	}
	return 0
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // simulated seconds per window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FleeSpeedGain float64 // MoveGain * FleeBoost
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FleeSpeedGain = c.Simulation.MoveGain * c.Feeding.FleeBoost
}

// Clone returns a deep copy with derived values recomputed. All fields are
// values, so a struct copy suffices.
func (c *Config) Clone() *Config {
	cp := *c
	cp.computeDerived()
	return &cp
}

// ClampSpeed bounds a simulation speed multiplier to the configured range.
func (c *Config) ClampSpeed(v float64) float64 {
	return max(c.Simulation.MinSpeed, min(v, c.Simulation.MaxSpeed))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
