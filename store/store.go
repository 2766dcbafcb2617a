// Package store owns every live agent in the pond.
//
// Components live in an ark ECS world, one archetype per agent kind. The
// store layers three things on top: stable process-unique IDs resolved
// through an id table, a per-kind insertion order that iteration follows,
// and deferred removal. Removal requests made during a tick are queued and
// applied by FlushRemovals in one batch once every phase has finished, so no
// scan ever sees an entity vanish underneath it.
package store

import (
	"iter"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pond/components"
)

// Kind enumerates the agent collections.
type Kind uint8

const (
	KindFish Kind = iota
	KindPlant
	KindInvertebrate
	KindLarva
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindFish:
		return "fish"
	case KindPlant:
		return "plant"
	case KindInvertebrate:
		return "invertebrate"
	case KindLarva:
		return "larva"
	}
	return "unknown"
}

type handle struct {
	entity ecs.Entity
	kind   Kind
}

// Store holds the ECS world and the id/order bookkeeping around it.
type Store struct {
	world *ecs.World

	fishMap  *ecs.Map3[components.Position, components.Body, components.Fish]
	plantMap *ecs.Map3[components.Position, components.Body, components.Plant]
	invMap   *ecs.Map3[components.Position, components.Body, components.Invertebrate]
	larvaMap *ecs.Map3[components.Position, components.Body, components.Larva]

	fishFilter *ecs.Filter2[components.Body, components.Fish]

	order   [numKinds][]components.ID
	handles map[components.ID]handle
	pending map[components.ID]struct{}
	nextID  components.ID
}

// New creates an empty store.
func New() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:      world,
		fishMap:    ecs.NewMap3[components.Position, components.Body, components.Fish](world),
		plantMap:   ecs.NewMap3[components.Position, components.Body, components.Plant](world),
		invMap:     ecs.NewMap3[components.Position, components.Body, components.Invertebrate](world),
		larvaMap:   ecs.NewMap3[components.Position, components.Body, components.Larva](world),
		fishFilter: ecs.NewFilter2[components.Body, components.Fish](world),
		handles:    make(map[components.ID]handle),
		pending:    make(map[components.ID]struct{}),
	}
}

func (s *Store) register(e ecs.Entity, k Kind) components.ID {
	s.nextID++
	id := s.nextID
	s.handles[id] = handle{entity: e, kind: k}
	s.order[k] = append(s.order[k], id)
	return id
}

// InsertFish adds a fish and returns its new ID.
// Pointers previously obtained for other fish may be invalidated.
func (s *Store) InsertFish(pos components.Position, body components.Body, fish components.Fish) components.ID {
	return s.register(s.fishMap.NewEntity(&pos, &body, &fish), KindFish)
}

// InsertPlant adds a plant and returns its new ID.
// Pointers previously obtained for other plants may be invalidated.
func (s *Store) InsertPlant(pos components.Position, body components.Body, plant components.Plant) components.ID {
	return s.register(s.plantMap.NewEntity(&pos, &body, &plant), KindPlant)
}

// InsertInvertebrate adds an invertebrate and returns its new ID.
// Pointers previously obtained for other invertebrates may be invalidated.
func (s *Store) InsertInvertebrate(pos components.Position, body components.Body, inv components.Invertebrate) components.ID {
	return s.register(s.invMap.NewEntity(&pos, &body, &inv), KindInvertebrate)
}

// InsertLarva adds a larva and returns its new ID.
// Pointers previously obtained for other larvae may be invalidated.
func (s *Store) InsertLarva(pos components.Position, body components.Body, larva components.Larva) components.ID {
	return s.register(s.larvaMap.NewEntity(&pos, &body, &larva), KindLarva)
}

// Live reports whether id resolves to an entity not marked for removal.
func (s *Store) Live(id components.ID) bool {
	if _, ok := s.handles[id]; !ok {
		return false
	}
	_, dying := s.pending[id]
	return !dying
}

// MarkForRemoval queues id for removal at the next flush. Marked entities
// are treated as absent by lookups and iteration from now on. Reports
// whether the mark was new.
func (s *Store) MarkForRemoval(id components.ID) bool {
	if !s.Live(id) {
		return false
	}
	s.pending[id] = struct{}{}
	return true
}

// PendingRemovals returns the number of entities waiting for the flush.
func (s *Store) PendingRemovals() int {
	return len(s.pending)
}

// FlushRemovals destroys every marked entity. Survivors keep their relative
// order. Must not be called while a query is open. Returns the number of
// entities removed.
func (s *Store) FlushRemovals() int {
	n := len(s.pending)
	if n == 0 {
		return 0
	}
	for k := range s.order {
		s.order[k] = slices.DeleteFunc(s.order[k], func(id components.ID) bool {
			_, dying := s.pending[id]
			return dying
		})
	}
	for id := range s.pending {
		s.world.RemoveEntity(s.handles[id].entity)
		delete(s.handles, id)
	}
	clear(s.pending)
	return n
}

// Clear removes every entity immediately. ID allocation continues from
// where it was, so IDs stay unique for the life of the store.
func (s *Store) Clear() {
	for id, h := range s.handles {
		s.world.RemoveEntity(h.entity)
		delete(s.handles, id)
	}
	for k := range s.order {
		s.order[k] = s.order[k][:0]
	}
	clear(s.pending)
}

// Count returns the number of live entities of a kind.
func (s *Store) Count(k Kind) int {
	n := 0
	for _, id := range s.order[k] {
		if _, dying := s.pending[id]; !dying {
			n++
		}
	}
	return n
}

// ids yields the live IDs of a kind in insertion order. The order is
// captured up front: entities inserted during the walk are not visited, and
// entities marked along the way are skipped when reached.
func (s *Store) ids(k Kind) iter.Seq[components.ID] {
	snapshot := slices.Clone(s.order[k])
	return func(yield func(components.ID) bool) {
		for _, id := range snapshot {
			if !s.Live(id) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}
