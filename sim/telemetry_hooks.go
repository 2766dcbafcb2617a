package sim

import (
	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/store"
	"github.com/pthm-cable/pond/telemetry"
)

// flushTelemetry closes the stats window once it has run its course and
// handles any bookmarks it triggers.
func (w *World) flushTelemetry() {
	if w.metrics != nil {
		w.metrics.ObserveCensus(w.Census(), w.simTime)
	}
	if !w.collector.ShouldFlush(w.simTime) {
		return
	}

	stats := w.collector.Flush(w.tick, w.simTime, w.Census(), w.lifetimes.Drain())
	perfStats := w.perf.Stats()

	if w.onStats != nil {
		w.onStats(stats)
	}

	if w.logStats {
		stats.LogStats()
		if w.perf != nil {
			perfStats.LogStats()
		}
	}

	if err := w.output.WriteTelemetry(stats); err != nil {
		w.log.Error("failed to write telemetry", "error", err)
	}
	if w.perf != nil {
		if err := w.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			w.log.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range w.bookmarks.Check(stats) {
		if w.logStats {
			bm.LogBookmark()
		}
		if err := w.output.WriteBookmark(bm); err != nil {
			w.log.Error("failed to write bookmark", "error", err)
		}
		w.saveSnapshot(&bm)
	}
}

// saveSnapshot writes the pond state to the output directory, tagged with
// the bookmark that triggered it.
func (w *World) saveSnapshot(bm *telemetry.Bookmark) {
	if w.output == nil {
		return
	}
	snap, err := telemetry.NewSnapshot(w.seed, w.tick, w.Snapshot(), bm)
	if err != nil {
		w.log.Error("failed to build snapshot", "error", err)
		return
	}
	path, err := w.output.WriteSnapshot(snap)
	if err != nil {
		w.log.Error("failed to save snapshot", "error", err)
		return
	}
	w.log.Info("snapshot saved", "path", path, "tick", w.tick)
}

// Census counts the live population and samples hunger and plant biomass.
func (w *World) Census() telemetry.Population {
	var pop telemetry.Population
	for f := range w.store.AllFish() {
		pop.Fish[f.Fish.Species]++
		pop.Hunger = append(pop.Hunger, f.Fish.Hunger)
	}
	for p := range w.store.Plants() {
		pop.Plants++
		pop.PlantBiomass += p.Body.Size
	}
	pop.Invertebrates = w.store.Count(store.KindInvertebrate)
	pop.Larvae = w.store.Count(store.KindLarva)
	return pop
}

// Lifetime returns the tracked lifetime stats for a fish, or nil.
func (w *World) Lifetime(id components.ID) *telemetry.LifetimeStats {
	return w.lifetimes.Get(id)
}
