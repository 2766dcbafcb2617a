package sim

import (
	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/store"
	"github.com/pthm-cable/pond/systems"
	"github.com/pthm-cable/pond/telemetry"
)

// updateFish runs one fish through its tick: metabolism, starvation,
// flight, cruising, feeding, the walls and finally the mating handshake.
// Metabolism runs every tick, fleeing or not.
func (w *World) updateFish(f store.FishRef, sf float64) {
	systems.UpdateMetabolism(f.Fish, f.Body, systems.NewMetabolism(w.cfg, f.Fish.Species), sf)

	if systems.Starved(f.Fish, w.cfg.Feeding.MaxHunger) {
		w.emit(telemetry.EventStarved, f.Fish.Species, f.ID, 0, *f.Pos, f.Fish.Age)
		w.kill(f)
		return
	}

	f.Fish.Fleeing = w.flee(f, sf)
	if f.Fish.Fleeing {
		return
	}

	*f.Pos = systems.Advance(*f.Pos, f.Fish.Direction, f.Fish.Speed*sf*w.cfg.Simulation.MoveGain)

	if systems.Hungry(f.Fish, w.cfg.Feeding) {
		w.forage(f, sf)
	}

	systems.Reflect(f.Pos, &f.Fish.Direction, w.bounds)

	switch {
	case f.Fish.IsReproducing:
		w.courtPartner(f, sf)
	case systems.ReadyToBreed(f.Fish):
		w.seekPartner(f)
	}
}

// flee checks for the nearest pike in sight and, if there is one, bolts
// away from it. Predators never flee. Reports whether the fish fled, which
// ends its tick.
func (w *World) flee(f store.FishRef, sf float64) bool {
	if f.Fish.Species.IsPredator() {
		return false
	}
	pike, ok := systems.NearestWithin(*f.Pos, w.store.AllFish(), f.Fish.DetectionRadius, store.FishRef.Position,
		func(o store.FishRef) bool { return o.Fish.Species.IsPredator() })
	if !ok {
		return false
	}

	w.cancelPairing(f)
	f.Fish.Direction = systems.FleeDirection(*f.Pos, *pike.Pos, w.rng.Float64())
	*f.Pos = systems.Advance(*f.Pos, f.Fish.Direction, f.Fish.Speed*sf*w.cfg.Derived.FleeSpeedGain)
	systems.Reflect(f.Pos, &f.Fish.Direction, w.bounds)
	return true
}

// kill marks a fish for removal, releasing any partner first.
func (w *World) kill(f store.FishRef) {
	w.cancelPairing(f)
	w.store.MarkForRemoval(f.ID)
}

// meal is a located food item of any kind.
type meal struct {
	id   components.ID
	pos  *components.Position
	body *components.Body
}

// forage heads for the nearest food on the species menu, eating it on
// contact. With nothing in sight the fish occasionally changes course.
func (w *World) forage(f store.FishRef, sf float64) {
	for _, food := range systems.Menu(f.Fish.Species) {
		m, ok := w.nearestFood(f, food)
		if !ok {
			continue
		}
		f.Fish.Direction = systems.Heading(*f.Pos, *m.pos)
		*f.Pos = systems.Advance(*f.Pos, f.Fish.Direction, f.Fish.Speed*sf)
		if systems.InReach(*f.Pos, *m.pos, f.Body.Size, m.body.Size) {
			w.eat(f, food, m)
		}
		return
	}

	if w.rng.Float64() < w.cfg.Feeding.WanderChance*sf {
		f.Fish.Direction = systems.Wander(f.Fish.Direction, w.rng.Float64())
	}
}

// nearestFood finds the closest live item of one food kind within the
// fish's detection radius.
func (w *World) nearestFood(f store.FishRef, food systems.Food) (meal, bool) {
	origin, radius := *f.Pos, f.Fish.DetectionRadius
	switch food {
	case systems.FoodFish:
		prey, ok := systems.NearestWithin(origin, w.store.AllFish(), radius, store.FishRef.Position,
			func(o store.FishRef) bool {
				return o.ID != f.ID && systems.CanPrey(f.Fish.Species, o.Fish.Species)
			})
		return meal{id: prey.ID, pos: prey.Pos, body: prey.Body}, ok
	case systems.FoodInvertebrate:
		inv, ok := systems.NearestWithin(origin, w.store.Invertebrates(), radius, store.InvertebrateRef.Position, nil)
		return meal{id: inv.ID, pos: inv.Pos, body: inv.Body}, ok
	case systems.FoodPlant:
		plant, ok := systems.NearestWithin(origin, w.store.Plants(), radius, store.PlantRef.Position, nil)
		return meal{id: plant.ID, pos: plant.Pos, body: plant.Body}, ok
	}
	return meal{}, false
}

// eat consumes a meal within reach. Fish and invertebrates are swallowed
// whole; plants lose a bite and go once grazed down.
func (w *World) eat(f store.FishRef, food systems.Food, m meal) {
	hungerBefore := f.Fish.Hunger
	systems.Satiate(f.Fish, m.body.Size, w.cfg.Feeding)
	relieved := hungerBefore - f.Fish.Hunger
	s := f.Fish.Species

	switch food {
	case systems.FoodFish:
		w.emit(telemetry.EventPreyed, s, f.ID, m.id, *m.pos, relieved)
		if prey, ok := w.store.Fish(m.id); ok {
			w.kill(prey)
		}
	case systems.FoodInvertebrate:
		w.emit(telemetry.EventInvertebrateEaten, s, f.ID, m.id, *m.pos, relieved)
		w.store.MarkForRemoval(m.id)
	case systems.FoodPlant:
		before := m.body.Size
		gone := systems.Graze(m.body, hungerBefore, w.cfg.Plant)
		w.emit(telemetry.EventPlantGrazed, s, f.ID, m.id, *m.pos, before-m.body.Size)
		if gone {
			w.emit(telemetry.EventPlantConsumed, s, f.ID, m.id, *m.pos, m.body.Size)
			w.store.MarkForRemoval(m.id)
		}
	}
}
