package sim

import (
	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/systems"
	"github.com/pthm-cable/pond/telemetry"
)

// updatePlants grows every plant and lets large ones seed. Seedlings join
// after their parent has been updated and are not grown until next tick.
func (w *World) updatePlants(sf float64) {
	cfg := w.cfg.Plant
	for p := range w.store.Plants() {
		systems.GrowPlant(p.Body, *p.Plant, cfg, sf)
		if systems.PlantSeeds(*p.Body, cfg, sf, w.rng) {
			w.SpawnPlant()
		}
	}
}

// updateInvertebrates random-walks every invertebrate, then rolls once for a
// newcomer.
func (w *World) updateInvertebrates(sf float64) {
	cfg := w.cfg.Invertebrate
	for inv := range w.store.Invertebrates() {
		systems.WalkInvertebrate(inv.Pos, *inv.Inv, cfg, w.bounds, sf, w.rng)
	}
	if systems.InvertebrateSpawns(cfg, sf, w.rng) {
		w.SpawnInvertebrate()
	}
}

func (w *World) updateCooldowns(sf float64) {
	for f := range w.store.AllFish() {
		systems.TickCooldown(f.Fish, sf)
	}
}

// updateLarvae incubates every larva and hatches the ready ones into
// juveniles at the same spot.
func (w *World) updateLarvae(sf float64) {
	for l := range w.store.Larvae() {
		if !systems.AdvanceLarva(l.Larva, l.Body, w.cfg.Larva, w.cfg.Simulation.AgeRate, sf) {
			continue
		}
		species, pos, larvaID := l.Larva.Species, *l.Pos, l.ID
		w.store.MarkForRemoval(larvaID)
		w.hatch(species, pos, larvaID)
	}
}

// hatch inserts a juvenile of species s.
func (w *World) hatch(s components.Species, pos components.Position, larvaID components.ID) components.ID {
	sp := w.cfg.Species.For(s)
	id := w.store.InsertFish(pos, components.Body{Size: sp.JuvenileSize}, w.newFish(s))
	w.emit(telemetry.EventHatched, s, id, larvaID, pos, 0)
	w.log.Debug("larva hatched", "species", s, "id", id, "larva", larvaID)
	return id
}
