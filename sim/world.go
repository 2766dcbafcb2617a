// Package sim advances the pond one tick at a time.
//
// World is the single owned aggregate: configuration, entity store, random
// source, clocks and telemetry all hang off it. Tick runs the phases in a
// fixed order (plants, invertebrates, cooldowns, fish, larvae) and flushes
// deferred removals at the end, so every phase sees a stable population.
package sim

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/store"
	"github.com/pthm-cable/pond/systems"
	"github.com/pthm-cable/pond/telemetry"
)

// bookmarkHistory is the number of stats windows bookmark detection looks back over.
const bookmarkHistory = 10

// Options configures a World.
type Options struct {
	Seed   int64 // 0 = time-based
	Logger *slog.Logger

	// Telemetry
	StatsWindowSec float64 // 0 = use config
	LogStats       bool
	Output         *telemetry.OutputManager
	Metrics        *telemetry.Metrics
	Perf           *telemetry.PerfCollector
	Sink           telemetry.Sink // extra event consumer
	OnStats        func(telemetry.WindowStats)
}

// World holds the complete pond state.
type World struct {
	cfg    *config.Config
	store  *store.Store
	rng    *rand.Rand
	seed   int64
	log    *slog.Logger
	bounds systems.Bounds

	// Clocks
	speed    float64
	tick     uint64
	simTime  float64 // sum of speed factors
	realTime float64 // sum of wall-clock deltas

	// Telemetry
	sink      telemetry.Sink
	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	metrics   *telemetry.Metrics
	perf      *telemetry.PerfCollector
	logStats  bool
	onStats   func(telemetry.WindowStats)
}

// New creates a pond from cfg and seeds the initial population.
// The configuration is copied; later edits to cfg do not reach the world.
func New(cfg *config.Config, opts Options) *World {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}

	w := &World{
		cfg:       cfg.Clone(),
		store:     store.New(),
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
		log:       logger,
		bounds:    systems.Bounds{Width: cfg.World.Width, Height: cfg.World.Height},
		collector: telemetry.NewCollector(window),
		lifetimes: telemetry.NewLifetimeTracker(),
		bookmarks: telemetry.NewBookmarkDetector(bookmarkHistory),
		output:    opts.Output,
		metrics:   opts.Metrics,
		perf:      opts.Perf,
		logStats:  opts.LogStats,
		onStats:   opts.OnStats,
	}
	w.speed = w.cfg.ClampSpeed(w.cfg.Simulation.Speed)

	sinks := telemetry.Sinks{w.collector, w.lifetimes}
	if w.output != nil {
		sinks = append(sinks, w.output.Events())
	}
	if w.metrics != nil {
		sinks = append(sinks, w.metrics)
	}
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}
	w.sink = sinks

	w.seedPopulation()
	return w
}

// Tick advances the pond by deltaTime wall-clock seconds scaled by the
// simulation speed.
func (w *World) Tick(deltaTime float64) {
	sf := deltaTime * w.speed

	w.perf.StartTick()

	w.perf.StartPhase(telemetry.PhasePlants)
	w.updatePlants(sf)

	w.perf.StartPhase(telemetry.PhaseInvertebrates)
	w.updateInvertebrates(sf)

	w.perf.StartPhase(telemetry.PhaseCooldowns)
	w.updateCooldowns(sf)

	w.perf.StartPhase(telemetry.PhaseFish)
	for f := range w.store.AllFish() {
		w.updateFish(f, sf)
	}

	w.perf.StartPhase(telemetry.PhaseLarvae)
	w.updateLarvae(sf)

	w.perf.StartPhase(telemetry.PhaseFlush)
	w.store.FlushRemovals()

	w.tick++
	w.simTime += sf
	w.realTime += deltaTime

	w.perf.StartPhase(telemetry.PhaseTelemetry)
	w.flushTelemetry()

	w.perf.EndTick()
}

// Store exposes the entity store for read access and test setup.
func (w *World) Store() *store.Store {
	return w.store
}

// Config returns the live configuration. Callers must not modify it; use
// the parameter setters instead.
func (w *World) Config() *config.Config {
	return w.cfg
}

// TickCount returns the number of ticks processed since the last reset.
func (w *World) TickCount() uint64 {
	return w.tick
}

// SimulationTime returns simulated seconds since the last reset.
func (w *World) SimulationTime() float64 {
	return w.simTime
}

// RealTime returns wall-clock seconds fed to Tick since the last reset.
func (w *World) RealTime() float64 {
	return w.realTime
}

// Speed returns the current simulation speed multiplier.
func (w *World) Speed() float64 {
	return w.speed
}

// Seed returns the seed the random source was created with.
func (w *World) Seed() int64 {
	return w.seed
}

// SpawnFish adds an adult of species s at pos with the species defaults.
func (w *World) SpawnFish(s components.Species, pos components.Position) components.ID {
	sp := w.cfg.Species.For(s)
	id := w.store.InsertFish(pos, components.Body{Size: sp.Size}, w.newFish(s))
	w.emit(telemetry.EventFishSpawned, s, id, 0, pos, 0)
	return id
}

// SpawnPlant adds a plant at a random position.
func (w *World) SpawnPlant() components.ID {
	pos, body, plant := systems.NewPlant(w.cfg.Plant, w.bounds, w.rng)
	id := w.store.InsertPlant(pos, body, plant)
	w.emit(telemetry.EventPlantSprouted, 0, id, 0, pos, body.Size)
	return id
}

// SpawnInvertebrate adds an invertebrate at a random position.
func (w *World) SpawnInvertebrate() components.ID {
	pos, body, inv := systems.NewInvertebrate(w.cfg.Invertebrate, w.bounds, w.rng)
	id := w.store.InsertInvertebrate(pos, body, inv)
	w.emit(telemetry.EventInvertebrateSpawned, 0, id, 0, pos, body.Size)
	return id
}

// seedPopulation creates the starting entities.
func (w *World) seedPopulation() {
	pop := w.cfg.Population
	for _, s := range components.AllSpecies() {
		for range pop.Fish(s) {
			w.SpawnFish(s, w.randomPosition())
		}
	}
	for range pop.Plants {
		w.SpawnPlant()
	}
	for range pop.Invertebrates {
		w.SpawnInvertebrate()
	}
}

// newFish builds the behavioral state for a fish of species s from the
// current species bundle.
func (w *World) newFish(s components.Species) components.Fish {
	sp := w.cfg.Species.For(s)
	return components.Fish{
		Species:         s,
		Direction:       w.rng.Float64() * 2 * math.Pi,
		Speed:           sp.Speed,
		Hunger:          sp.InitialHunger,
		DetectionRadius: sp.DetectionRadius,
		ReproduceAge:    sp.ReproduceAge,
		ReproduceHunger: sp.ReproduceHunger,
	}
}

func (w *World) randomPosition() components.Position {
	return components.Position{
		X: w.rng.Float64() * w.bounds.Width,
		Y: w.rng.Float64() * w.bounds.Height,
	}
}

// emit records a telemetry event stamped with the current clock.
func (w *World) emit(t telemetry.EventType, s components.Species, id, target components.ID, at components.Position, amount float64) {
	w.sink.Record(telemetry.Event{
		Type:     t,
		Tick:     w.tick,
		Time:     w.simTime,
		Species:  s,
		EntityID: id,
		TargetID: target,
		X:        at.X,
		Y:        at.Y,
		Amount:   amount,
	})
}
