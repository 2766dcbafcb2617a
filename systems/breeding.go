package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
)

// ReadyToBreed reports whether a fish may start or accept a pairing:
// old enough, fed enough, idle, not fleeing, and off cooldown.
func ReadyToBreed(fish *components.Fish) bool {
	return fish.Age >= fish.ReproduceAge &&
		fish.Hunger <= fish.ReproduceHunger &&
		!fish.IsReproducing &&
		!fish.Fleeing &&
		fish.ReproductionCooldown == 0
}

// Compatible reports whether two fish may pair with each other.
func Compatible(a, b *components.Fish) bool {
	return a.Species == b.Species && ReadyToBreed(a) && ReadyToBreed(b)
}

// Rendezvous returns where self should wait beside its partner: on the line
// from the partner toward self, one body-width (scaled) plus spacing out.
// The two fish compute mirror-image points so they meet without overlapping.
// Coincident fish fall back to an offset along +X.
func Rendezvous(self, partner components.Position, selfSize, partnerSize float64, cfg config.ReproductionConfig) components.Position {
	away := r2.Sub(self.Vec(), partner.Vec())
	if r2.Norm(away) == 0 {
		away = r2.Vec{X: 1}
	}
	offset := (selfSize+partnerSize)/2*cfg.ApproachFactor + cfg.Spacing
	return components.PositionOf(r2.Add(partner.Vec(), r2.Scale(offset, r2.Unit(away))))
}

// Pair links two fish into the handshake and sets their rendezvous targets.
func Pair(aID components.ID, a *components.Fish, aPos components.Position, aSize float64,
	bID components.ID, b *components.Fish, bPos components.Position, bSize float64,
	cfg config.ReproductionConfig) {
	a.IsReproducing, a.PartnerID, a.ReproductionProgress = true, bID, 0
	b.IsReproducing, b.PartnerID, b.ReproductionProgress = true, aID, 0
	a.Target, a.HasTarget = Rendezvous(aPos, bPos, aSize, bSize, cfg), true
	b.Target, b.HasTarget = Rendezvous(bPos, aPos, bSize, aSize, cfg), true
}

// SpawnDistance is the separation within which a pair can spawn.
func SpawnDistance(sizeA, sizeB float64, cfg config.ReproductionConfig) float64 {
	return (sizeA+sizeB)/2 + cfg.Spacing
}

// CanSpawn reports whether a pair is close enough and has spent long enough
// together to produce a larva.
func CanSpawn(dist, sizeA, sizeB, progress float64, cfg config.ReproductionConfig) bool {
	return dist <= SpawnDistance(sizeA, sizeB, cfg) && progress >= cfg.MinProgress
}

// Stuck reports whether a pairing has run past the point it should have
// succeeded.
func Stuck(progress float64, cfg config.ReproductionConfig) bool {
	return progress > cfg.StuckProgress
}

// Midpoint returns the point halfway between two positions.
func Midpoint(a, b components.Position) components.Position {
	return components.PositionOf(r2.Scale(0.5, r2.Add(a.Vec(), b.Vec())))
}

// FinishSpawn returns a parent to idle after a successful spawn, charging the
// cooldown and the hunger cost.
func FinishSpawn(fish *components.Fish, cfg config.ReproductionConfig, maxHunger float64) {
	fish.ClearReproduction()
	fish.ReproductionCooldown = cfg.Cooldown
	fish.Hunger = min(maxHunger, fish.Hunger+cfg.HungerCost)
}

// CancelPairing returns a fish to idle and imposes the cancel cooldown.
func CancelPairing(fish *components.Fish, cfg config.ReproductionConfig) {
	fish.ClearReproduction()
	fish.ReproductionCooldown = cfg.CancelCooldown
}
