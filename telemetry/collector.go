package telemetry

import "github.com/pthm-cable/pond/components"

// Population is a census taken at the end of a window.
type Population struct {
	Fish          [components.NumSpecies]int
	Plants        int
	Invertebrates int
	Larvae        int

	Hunger       []float64 // one entry per live fish
	PlantBiomass float64
}

// Collector accumulates events within time windows and produces WindowStats.
// It implements Sink.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick uint64
	windowStartTime float64

	// Event counters for current window
	counts [numEventTypes]int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// Record implements Sink.
func (c *Collector) Record(e Event) {
	if e.Type < numEventTypes {
		c.counts[e.Type]++
	}
}

// Count returns how many events of a type the current window has seen.
func (c *Collector) Count(t EventType) int {
	if t >= numEventTypes {
		return 0
	}
	return c.counts[t]
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
// lifespans holds the ages at death of fish that died during the window.
func (c *Collector) Flush(tick uint64, simTime float64, pop Population, lifespans []float64) WindowStats {
	var successRate float64
	if pairings := c.counts[EventPaired]; pairings > 0 {
		successRate = float64(c.counts[EventLarvaLaid]) / float64(pairings)
	}

	hungerMean, hungerStd, hungerP10, hungerP50, hungerP90 := DistributionStats(pop.Hunger)
	lifespanMean, _, _, lifespanP50, _ := DistributionStats(lifespans)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      simTime,

		Pike:          pop.Fish[components.Pike],
		SilverCarp:    pop.Fish[components.SilverCarp],
		Crucian:       pop.Fish[components.Crucian],
		Carp:          pop.Fish[components.Carp],
		Plants:        pop.Plants,
		Invertebrates: pop.Invertebrates,
		Larvae:        pop.Larvae,

		Hatched:      c.counts[EventHatched],
		Starved:      c.counts[EventStarved],
		Preyed:       c.counts[EventPreyed],
		PlantsGrown:  c.counts[EventPlantSprouted],
		InvertsBorn:  c.counts[EventInvertebrateSpawned],
		InvertsEaten: c.counts[EventInvertebrateEaten],
		PlantsGrazed: c.counts[EventPlantGrazed],
		PlantsEaten:  c.counts[EventPlantConsumed],

		Pairings:        c.counts[EventPaired],
		Cancellations:   c.counts[EventPairingCancelled],
		LarvaeLaid:      c.counts[EventLarvaLaid],
		PairSuccessRate: successRate,

		HungerMean: hungerMean,
		HungerStd:  hungerStd,
		HungerP10:  hungerP10,
		HungerP50:  hungerP50,
		HungerP90:  hungerP90,

		PlantBiomass: pop.PlantBiomass,

		LifespanMean: lifespanMean,
		LifespanP50:  lifespanP50,
	}

	c.Restart(tick, simTime)
	return stats
}

// Restart discards the current window and opens a new one.
func (c *Collector) Restart(tick uint64, simTime float64) {
	c.windowStartTick = tick
	c.windowStartTime = simTime
	clear(c.counts[:])
}
