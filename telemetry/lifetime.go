package telemetry

import "github.com/pthm-cable/pond/components"

// LifetimeStats tracks per-fish statistics over its lifetime.
type LifetimeStats struct {
	Species   components.Species
	BirthTime float64 // simulated seconds
	Hatched   bool    // false for fish seeded into the pond

	Meals    int
	Pairings int
	Spawns   int // larvae this fish parented
}

// LifetimeTracker manages per-fish lifetime statistics. It implements Sink.
type LifetimeTracker struct {
	stats map[components.ID]*LifetimeStats

	// ages at death since the last Drain
	lifespans []float64
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[components.ID]*LifetimeStats),
	}
}

// Record implements Sink.
func (lt *LifetimeTracker) Record(e Event) {
	switch e.Type {
	case EventFishSpawned:
		lt.Register(e.EntityID, e.Species, e.Time, false)
	case EventHatched:
		lt.Register(e.EntityID, e.Species, e.Time, true)
	case EventPaired:
		lt.bump(e.EntityID, func(s *LifetimeStats) { s.Pairings++ })
		lt.bump(e.TargetID, func(s *LifetimeStats) { s.Pairings++ })
	case EventLarvaLaid:
		lt.bump(e.EntityID, func(s *LifetimeStats) { s.Spawns++ })
		lt.bump(e.TargetID, func(s *LifetimeStats) { s.Spawns++ })
	case EventInvertebrateEaten, EventPlantGrazed:
		lt.bump(e.EntityID, func(s *LifetimeStats) { s.Meals++ })
	case EventPreyed:
		lt.bump(e.EntityID, func(s *LifetimeStats) { s.Meals++ })
		lt.died(e.TargetID, e.Time)
	case EventStarved:
		lt.died(e.EntityID, e.Time)
	}
}

// Register creates lifetime stats for a new fish.
func (lt *LifetimeTracker) Register(id components.ID, species components.Species, birthTime float64, hatched bool) {
	lt.stats[id] = &LifetimeStats{Species: species, BirthTime: birthTime, Hatched: hatched}
}

// Get returns the lifetime stats for a fish, or nil if not found.
func (lt *LifetimeTracker) Get(id components.ID) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a fish's stats and returns them.
func (lt *LifetimeTracker) Remove(id components.ID) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Count returns the number of tracked fish.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Drain returns the lifespans recorded since the previous call.
func (lt *LifetimeTracker) Drain() []float64 {
	out := lt.lifespans
	lt.lifespans = nil
	return out
}

// Reset forgets every tracked fish.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
	lt.lifespans = nil
}

func (lt *LifetimeTracker) bump(id components.ID, fn func(*LifetimeStats)) {
	if s := lt.stats[id]; s != nil {
		fn(s)
	}
}

func (lt *LifetimeTracker) died(id components.ID, now float64) {
	if s := lt.Remove(id); s != nil {
		lt.lifespans = append(lt.lifespans, now-s.BirthTime)
	}
}
