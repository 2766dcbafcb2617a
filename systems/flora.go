package systems

import (
	"math/rand"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
)

// GrowPlant advances a plant toward the species-wide size cap.
func GrowPlant(body *components.Body, plant components.Plant, cfg config.PlantConfig, sf float64) {
	body.Size = min(cfg.MaxSize, body.Size+plant.GrowthRate*sf)
}

// PlantSeeds draws whether a plant drops a seed this tick. Only plants above
// the seeding size take part; the draw is Bernoulli(SpawnChance*sf).
func PlantSeeds(body components.Body, cfg config.PlantConfig, sf float64, rng *rand.Rand) bool {
	if body.Size <= cfg.SpawnSize {
		return false
	}
	return rng.Float64() < cfg.SpawnChance*sf
}

// NewPlant rolls a fresh plant somewhere inside the pond margin.
func NewPlant(cfg config.PlantConfig, b Bounds, rng *rand.Rand) (components.Position, components.Body, components.Plant) {
	pos := Inset(components.Position{
		X: rng.Float64() * b.Width,
		Y: rng.Float64() * b.Height,
	}, b, cfg.EdgeMargin)
	body := components.Body{Size: cfg.MinSize + rng.Float64()*cfg.SizeJitter}
	plant := components.Plant{GrowthRate: cfg.MinGrowthRate + rng.Float64()*cfg.GrowthJitter}
	return pos, body, plant
}

// WalkInvertebrate applies one random-walk step and clamps to the pond.
func WalkInvertebrate(pos *components.Position, inv components.Invertebrate, cfg config.InvertebrateConfig, b Bounds, sf float64, rng *rand.Rand) {
	step := inv.Speed * sf * cfg.WalkGain
	pos.X += (rng.Float64() - 0.5) * step
	pos.Y += (rng.Float64() - 0.5) * step
	*pos = Contain(*pos, b)
}

// InvertebrateSpawns draws whether a new invertebrate appears this tick.
func InvertebrateSpawns(cfg config.InvertebrateConfig, sf float64, rng *rand.Rand) bool {
	return rng.Float64() < cfg.SpawnChance*sf
}

// NewInvertebrate rolls a fresh invertebrate somewhere inside the pond margin.
func NewInvertebrate(cfg config.InvertebrateConfig, b Bounds, rng *rand.Rand) (components.Position, components.Body, components.Invertebrate) {
	pos := Inset(components.Position{
		X: rng.Float64() * b.Width,
		Y: rng.Float64() * b.Height,
	}, b, cfg.EdgeMargin)
	return pos, components.Body{Size: cfg.MinSize + rng.Float64()*cfg.SizeJitter}, components.Invertebrate{Speed: cfg.Speed}
}

// AdvanceLarva accrues hatch progress and age and refreshes the display size.
// Reports whether the larva is ready to hatch.
func AdvanceLarva(larva *components.Larva, body *components.Body, cfg config.LarvaConfig, ageRate, sf float64) bool {
	larva.HatchProgress = min(100, larva.HatchProgress+sf*cfg.HatchRate)
	larva.Age += sf * ageRate
	body.Size = cfg.BaseSize + larva.HatchProgress/20
	return larva.HatchProgress >= 100
}
