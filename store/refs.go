package store

import (
	"iter"

	"github.com/pthm-cable/pond/components"
)

// FishRef gives transient access to a fish's components. The pointers are
// valid until the next fish insertion or flush; never hold one across ticks.
type FishRef struct {
	ID   components.ID
	Pos  *components.Position
	Body *components.Body
	Fish *components.Fish
}

// PlantRef gives transient access to a plant's components.
type PlantRef struct {
	ID    components.ID
	Pos   *components.Position
	Body  *components.Body
	Plant *components.Plant
}

// InvertebrateRef gives transient access to an invertebrate's components.
type InvertebrateRef struct {
	ID   components.ID
	Pos  *components.Position
	Body *components.Body
	Inv  *components.Invertebrate
}

// LarvaRef gives transient access to a larva's components.
type LarvaRef struct {
	ID    components.ID
	Pos   *components.Position
	Body  *components.Body
	Larva *components.Larva
}

// Position accessors let refs feed systems.NearestWithin directly.

func (r FishRef) Position() components.Position { return *r.Pos }
func (r PlantRef) Position() components.Position { return *r.Pos }
func (r InvertebrateRef) Position() components.Position { return *r.Pos }
func (r LarvaRef) Position() components.Position { return *r.Pos }

// Fish resolves a live fish by ID.
func (s *Store) Fish(id components.ID) (FishRef, bool) {
	h, ok := s.handles[id]
	if !ok || h.kind != KindFish || !s.Live(id) {
		return FishRef{}, false
	}
	pos, body, fish := s.fishMap.Get(h.entity)
	return FishRef{ID: id, Pos: pos, Body: body, Fish: fish}, true
}

// Plant resolves a live plant by ID.
func (s *Store) Plant(id components.ID) (PlantRef, bool) {
	h, ok := s.handles[id]
	if !ok || h.kind != KindPlant || !s.Live(id) {
		return PlantRef{}, false
	}
	pos, body, plant := s.plantMap.Get(h.entity)
	return PlantRef{ID: id, Pos: pos, Body: body, Plant: plant}, true
}

// Invertebrate resolves a live invertebrate by ID.
func (s *Store) Invertebrate(id components.ID) (InvertebrateRef, bool) {
	h, ok := s.handles[id]
	if !ok || h.kind != KindInvertebrate || !s.Live(id) {
		return InvertebrateRef{}, false
	}
	pos, body, inv := s.invMap.Get(h.entity)
	return InvertebrateRef{ID: id, Pos: pos, Body: body, Inv: inv}, true
}

// Larva resolves a live larva by ID.
func (s *Store) Larva(id components.ID) (LarvaRef, bool) {
	h, ok := s.handles[id]
	if !ok || h.kind != KindLarva || !s.Live(id) {
		return LarvaRef{}, false
	}
	pos, body, larva := s.larvaMap.Get(h.entity)
	return LarvaRef{ID: id, Pos: pos, Body: body, Larva: larva}, true
}

// walk adapts an ID sequence into a ref sequence, resolving each ID when it
// is reached so the yielded pointers are fresh.
func walk[R any](ids iter.Seq[components.ID], get func(components.ID) (R, bool)) iter.Seq[R] {
	return func(yield func(R) bool) {
		for id := range ids {
			r, ok := get(id)
			if !ok {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// AllFish yields live fish in insertion order.
func (s *Store) AllFish() iter.Seq[FishRef] {
	return walk(s.ids(KindFish), s.Fish)
}

// Plants yields live plants in insertion order.
func (s *Store) Plants() iter.Seq[PlantRef] {
	return walk(s.ids(KindPlant), s.Plant)
}

// Invertebrates yields live invertebrates in insertion order.
func (s *Store) Invertebrates() iter.Seq[InvertebrateRef] {
	return walk(s.ids(KindInvertebrate), s.Invertebrate)
}

// Larvae yields live larvae in insertion order.
func (s *Store) Larvae() iter.Seq[LarvaRef] {
	return walk(s.ids(KindLarva), s.Larva)
}

// SampleFish calls fn for every stored fish via an ECS query, in storage
// order. Intended for read-only aggregation after the flush; entities
// pending removal are included. fn must not insert or remove entities.
func (s *Store) SampleFish(fn func(body *components.Body, fish *components.Fish)) {
	query := s.fishFilter.Query()
	for query.Next() {
		body, fish := query.Get()
		fn(body, fish)
	}
}
