// Package components defines ECS components for the pond simulation.
package components

// Fish holds per-fish behavioral state.
type Fish struct {
	Species   Species
	Direction float64 // radians
	Speed     float64
	Hunger    float64 // 0..200, death at the ceiling
	Age       float64 // simulated seconds * 0.1

	DetectionRadius float64
	ReproduceAge    float64
	ReproduceHunger float64

	ReproductionCooldown float64 // seconds until the next attempt
	Fleeing              bool    // fled a pike on its latest update

	// Reproduction handshake. PartnerID is a weak reference that is
	// re-resolved through the store every tick.
	IsReproducing        bool
	ReproductionProgress float64
	PartnerID            ID
	Target               Position // rendezvous point, valid while HasTarget
	HasTarget            bool
}

// ClearReproduction resets the handshake state to Idle.
func (f *Fish) ClearReproduction() {
	f.IsReproducing = false
	f.ReproductionProgress = 0
	f.PartnerID = 0
	f.Target = Position{}
	f.HasTarget = false
}

// Plant is a stationary food source that grows toward a species-wide cap.
type Plant struct {
	GrowthRate float64
}

// Invertebrate is mobile food for omnivores.
type Invertebrate struct {
	Speed float64
}

// Larva hatches into a fish of Species once HatchProgress reaches 100.
type Larva struct {
	Species       Species
	HatchProgress float64 // 0..100
	Age           float64
}
