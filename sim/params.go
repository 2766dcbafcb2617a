package sim

import (
	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/telemetry"
)

// UpdateSpeciesParams replaces the parameter bundle for a species. New
// spawns and hatchlings use it; live fish only pick up the detection radius.
func (w *World) UpdateSpeciesParams(s components.Species, params config.SpeciesConfig) {
	*w.cfg.Species.For(s) = params
	w.SetDetectionRadius(s, params.DetectionRadius)
}

// SpeciesParams returns a copy of the current bundle for a species.
func (w *World) SpeciesParams(s components.Species) config.SpeciesConfig {
	return *w.cfg.Species.For(s)
}

// SetDetectionRadius changes how far fish of a species can see, for the
// species bundle and every live fish of that species.
func (w *World) SetDetectionRadius(s components.Species, r float64) {
	w.cfg.Species.For(s).DetectionRadius = r
	for f := range w.store.AllFish() {
		if f.Fish.Species == s {
			f.Fish.DetectionRadius = r
		}
	}
}

// SetSimulationSpeed sets the speed multiplier, clamped to the configured
// range. Returns the value applied.
func (w *World) SetSimulationSpeed(v float64) float64 {
	w.speed = w.cfg.ClampSpeed(v)
	return w.speed
}

// Population returns the initial population settings.
func (w *World) Population() config.PopulationConfig {
	return w.cfg.Population
}

// UpdatePopulation stores new initial population settings and restarts the
// pond with them.
func (w *World) UpdatePopulation(p config.PopulationConfig) {
	w.cfg.Population = p
	w.Reset()
}

// Reset empties the pond, zeroes the clocks and reseeds the initial
// population. Entity IDs keep counting up.
func (w *World) Reset() {
	w.store.Clear()
	w.tick = 0
	w.simTime = 0
	w.realTime = 0
	w.lifetimes.Reset()
	w.collector.Restart(0, 0)
	w.bookmarks = telemetry.NewBookmarkDetector(bookmarkHistory)
	w.seedPopulation()
	w.log.Info("pond reset", "population", w.cfg.Population)
}
