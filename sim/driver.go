package sim

import (
	"context"
	"sync"
	"time"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
)

// Driver runs a World in real time. Ticks, parameter changes and snapshots
// are serialized behind one mutex, so callers on other goroutines never see
// a half-applied tick.
type Driver struct {
	mu       sync.Mutex
	world    *World
	interval time.Duration
	run      *loopRun
	last     time.Time
}

// loopRun is one Start..Stop cycle of the tick goroutine.
type loopRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver wraps w. The tick rate comes from the simulation config.
func NewDriver(w *World) *Driver {
	hz := w.cfg.Simulation.TickHz
	if hz <= 0 {
		hz = 60
	}
	return &Driver{world: w, interval: time.Second / time.Duration(hz)}
}

// Start launches the tick loop. Starting a running driver does nothing.
// The loop also ends when ctx is cancelled.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.run != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	r := &loopRun{cancel: cancel, done: make(chan struct{})}
	d.run = r
	d.last = time.Now()
	go d.loop(ctx, r)
	d.world.log.Info("simulation started")
}

// Stop halts the tick loop and waits for it to exit; no tick runs after Stop
// returns. Stopping a stopped driver does nothing.
func (d *Driver) Stop() {
	d.mu.Lock()
	r := d.run
	d.run = nil
	d.mu.Unlock()
	if r == nil {
		return
	}
	r.cancel()
	<-r.done
	d.world.log.Info("simulation stopped")
}

// Toggle starts a stopped driver or stops a running one. Returns whether
// the driver is running afterwards.
func (d *Driver) Toggle(ctx context.Context) bool {
	if d.Running() {
		d.Stop()
		return false
	}
	d.Start(ctx)
	return true
}

// Running reports whether the tick loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.run != nil
}

func (d *Driver) loop(ctx context.Context, r *loopRun) {
	defer close(r.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			if d.run == r {
				d.run = nil
			}
			d.mu.Unlock()
			return
		case now := <-ticker.C:
			d.step(ctx, now)
		}
	}
}

// step runs one tick with the wall-clock time elapsed since the last one.
func (d *Driver) step(ctx context.Context, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	dt := now.Sub(d.last).Seconds()
	d.last = now
	d.world.perf.RecordFrame()
	d.world.Tick(dt)
}

// Do runs fn with exclusive access to the world.
func (d *Driver) Do(fn func(w *World)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.world)
}

// Snapshot copies the pond, including whether the driver is running.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := d.world.Snapshot()
	snap.Running = d.run != nil
	return snap
}

// SetSimulationSpeed sets the clamped speed multiplier and returns it.
func (d *Driver) SetSimulationSpeed(v float64) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.world.SetSimulationSpeed(v)
}

// UpdateSpeciesParams replaces a species bundle.
func (d *Driver) UpdateSpeciesParams(s components.Species, params config.SpeciesConfig) {
	d.Do(func(w *World) { w.UpdateSpeciesParams(s, params) })
}

// SetDetectionRadius changes a species' detection radius.
func (d *Driver) SetDetectionRadius(s components.Species, r float64) {
	d.Do(func(w *World) { w.SetDetectionRadius(s, r) })
}

// UpdatePopulation stores new population settings and resets the pond.
func (d *Driver) UpdatePopulation(p config.PopulationConfig) {
	d.Do(func(w *World) { w.UpdatePopulation(p) })
}

// Reset reseeds the pond from the current population settings.
func (d *Driver) Reset() {
	d.Do(func(w *World) { w.Reset() })
}
