// Package main provides CMA-ES optimization for pond simulation parameters.
package main

import (
	"github.com/pthm-cable/pond/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Metabolism
			{Name: "pike_hunger_rate", Path: "species.pike.hunger_rate", Min: 0.00005, Max: 0.002, Default: 0.0001},
			{Name: "silver_carp_hunger_rate", Path: "species.silver_carp.hunger_rate", Min: 0.005, Max: 0.05, Default: 0.025},
			{Name: "crucian_hunger_rate", Path: "species.crucian.hunger_rate", Min: 0.005, Max: 0.05, Default: 0.025},
			{Name: "carp_hunger_rate", Path: "species.carp.hunger_rate", Min: 0.005, Max: 0.05, Default: 0.025},
			// Senses
			{Name: "pike_detection_radius", Path: "species.pike.detection_radius", Min: 20, Max: 120, Default: 50},
			{Name: "crucian_detection_radius", Path: "species.crucian.detection_radius", Min: 20, Max: 120, Default: 45},
			// Food supply
			{Name: "plant_spawn_chance", Path: "plant.spawn_chance", Min: 0.002, Max: 0.1, Default: 0.01},
			{Name: "plant_min_growth_rate", Path: "plant.min_growth_rate", Min: 0.02, Max: 0.5, Default: 0.1},
			{Name: "invert_spawn_chance", Path: "invertebrate.spawn_chance", Min: 0.005, Max: 0.2, Default: 0.02},
			// Feeding
			{Name: "satiation_factor", Path: "feeding.satiation_factor", Min: 1, Max: 6, Default: 3},
			{Name: "flee_boost", Path: "feeding.flee_boost", Min: 1.0, Max: 2.0, Default: 1.1},
			// Reproduction (cancel_cooldown and stuck_progress locked)
			{Name: "repro_cooldown", Path: "reproduction.cooldown", Min: 5, Max: 60, Default: 30},
			{Name: "repro_hunger_cost", Path: "reproduction.hunger_cost", Min: 5, Max: 60, Default: 30},
			{Name: "hatch_rate", Path: "larva.hatch_rate", Min: 2, Max: 50, Default: 25},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	i := 0
	next := func() float64 {
		v := c[i]
		i++
		return v
	}

	cfg.Species.Pike.HungerRate = next()
	cfg.Species.SilverCarp.HungerRate = next()
	cfg.Species.Crucian.HungerRate = next()
	cfg.Species.Carp.HungerRate = next()

	cfg.Species.Pike.DetectionRadius = next()
	cfg.Species.Crucian.DetectionRadius = next()

	cfg.Plant.SpawnChance = next()
	cfg.Plant.MinGrowthRate = next()
	cfg.Invertebrate.SpawnChance = next()

	cfg.Feeding.SatiationFactor = next()
	cfg.Feeding.FleeBoost = next()

	cfg.Reproduction.Cooldown = next()
	cfg.Reproduction.HungerCost = next()
	cfg.Larva.HatchRate = next()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Species.Pike.HungerRate,
		cfg.Species.SilverCarp.HungerRate,
		cfg.Species.Crucian.HungerRate,
		cfg.Species.Carp.HungerRate,
		cfg.Species.Pike.DetectionRadius,
		cfg.Species.Crucian.DetectionRadius,
		cfg.Plant.SpawnChance,
		cfg.Plant.MinGrowthRate,
		cfg.Invertebrate.SpawnChance,
		cfg.Feeding.SatiationFactor,
		cfg.Feeding.FleeBoost,
		cfg.Reproduction.Cooldown,
		cfg.Reproduction.HungerCost,
		cfg.Larva.HatchRate,
	}
}
