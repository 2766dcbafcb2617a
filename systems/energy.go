package systems

import (
	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
)

// Metabolism bundles the parameters UpdateMetabolism reads.
type Metabolism struct {
	Species *config.SpeciesConfig
	Feeding config.FeedingConfig
	AgeRate float64
}

// NewMetabolism selects the species bundle from cfg.
func NewMetabolism(cfg *config.Config, s components.Species) Metabolism {
	return Metabolism{
		Species: cfg.Species.For(s),
		Feeding: cfg.Feeding,
		AgeRate: cfg.Simulation.AgeRate,
	}
}

// UpdateMetabolism ages the fish, accrues size-proportional hunger and grows
// a well-fed fish, charging growth back onto hunger. Hunger never exceeds the
// starvation ceiling. Returns the size gained.
func UpdateMetabolism(fish *components.Fish, body *components.Body, m Metabolism, sf float64) float64 {
	fish.Age += sf * m.AgeRate

	fish.Hunger += body.Size * m.Species.HungerRate * sf
	fish.Hunger = min(fish.Hunger, m.Feeding.MaxHunger)

	if body.Size >= m.Species.MaxSize || fish.Hunger >= m.Feeding.WellFedHunger {
		return 0
	}

	// Juveniles grow faster until they reach adult size
	rate := m.Species.GrowthRate
	if body.Size < m.Species.Size {
		rate += m.Species.JuvenileBonus
	}
	grown := min(rate*sf, m.Species.MaxSize-body.Size)
	body.Size += grown
	fish.Hunger = min(fish.Hunger+grown*m.Feeding.GrowthCost, m.Feeding.MaxHunger)
	return grown
}

// Starved reports whether hunger has reached the ceiling.
func Starved(fish *components.Fish, maxHunger float64) bool {
	return fish.Hunger >= maxHunger
}

// TickCooldown decrements a reproduction cooldown, flooring at zero.
func TickCooldown(fish *components.Fish, sf float64) {
	fish.ReproductionCooldown = max(0, fish.ReproductionCooldown-sf)
}
