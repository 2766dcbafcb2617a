package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/store"
	"github.com/pthm-cable/pond/telemetry"
)

const eps = 1e-9

// recorder collects every event a world emits.
type recorder struct {
	events []telemetry.Event
}

func (r *recorder) Record(e telemetry.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) of(t telemetry.EventType) []telemetry.Event {
	var out []telemetry.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// newTestWorld builds an empty pond from the embedded defaults.
func newTestWorld(t *testing.T, mutate func(*config.Config)) (*World, *recorder) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population = config.PopulationConfig{}
	if mutate != nil {
		mutate(cfg)
	}
	rec := &recorder{}
	w := New(cfg, Options{Seed: 42, Sink: rec})
	return w, rec
}

// addFish inserts an adult heading along +X with no hunger, then applies
// mutate.
func addFish(w *World, s components.Species, x, y float64, mutate func(*components.Fish)) components.ID {
	fish := w.newFish(s)
	fish.Direction = 0
	fish.Hunger = 0
	if mutate != nil {
		mutate(&fish)
	}
	body := components.Body{Size: w.cfg.Species.For(s).Size}
	return w.store.InsertFish(components.Position{X: x, Y: y}, body, fish)
}

func mustFish(t *testing.T, w *World, id components.ID) store.FishRef {
	t.Helper()
	f, ok := w.store.Fish(id)
	if !ok {
		t.Fatalf("fish %d not found", id)
	}
	return f
}

func TestNewSeedsPopulation(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population = config.PopulationConfig{Pike: 1, SilverCarp: 2, Crucian: 3, Carp: 4, Plants: 5, Invertebrates: 6}
	rec := &recorder{}
	w := New(cfg, Options{Seed: 7, Sink: rec})

	counts := w.FishCounts()
	want := map[components.Species]int{
		components.Pike: 1, components.SilverCarp: 2, components.Crucian: 3, components.Carp: 4,
	}
	for s, n := range want {
		if counts[s] != n {
			t.Errorf("%s: got %d, want %d", s, counts[s], n)
		}
	}
	if got := w.store.Count(store.KindPlant); got != 5 {
		t.Errorf("plants: got %d, want 5", got)
	}
	if got := w.store.Count(store.KindInvertebrate); got != 6 {
		t.Errorf("invertebrates: got %d, want 6", got)
	}
	if got := len(rec.of(telemetry.EventFishSpawned)); got != 10 {
		t.Errorf("spawn events: got %d, want 10", got)
	}

	for f := range w.store.AllFish() {
		sp := w.cfg.Species.For(f.Fish.Species)
		if f.Body.Size != sp.Size || f.Fish.Speed != sp.Speed || f.Fish.Hunger != sp.InitialHunger {
			t.Errorf("fish %d not built from species defaults: %+v size %v", f.ID, *f.Fish, f.Body.Size)
		}
	}
}

func TestSameSeedSameOutcome(t *testing.T) {
	run := func() Snapshot {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		cfg.Population = config.PopulationConfig{Pike: 1, SilverCarp: 3, Crucian: 3, Carp: 3, Plants: 20, Invertebrates: 15}
		w := New(cfg, Options{Seed: 99})
		for range 300 {
			w.Tick(0.05)
		}
		return w.Snapshot()
	}

	a, b := run(), run()
	if len(a.Fish) != len(b.Fish) || len(a.Plants) != len(b.Plants) || len(a.Larvae) != len(b.Larvae) {
		t.Fatalf("populations diverged: %d/%d fish, %d/%d plants", len(a.Fish), len(b.Fish), len(a.Plants), len(b.Plants))
	}
	for i := range a.Fish {
		if a.Fish[i] != b.Fish[i] {
			t.Errorf("fish %d diverged: %+v vs %+v", i, a.Fish[i], b.Fish[i])
		}
	}
}

func TestTickAccountsTime(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	w.SetSimulationSpeed(2)

	w.Tick(0.5)
	w.Tick(0.25)

	if w.TickCount() != 2 {
		t.Errorf("ticks: got %d, want 2", w.TickCount())
	}
	if math.Abs(w.RealTime()-0.75) > eps {
		t.Errorf("real time: got %v, want 0.75", w.RealTime())
	}
	if math.Abs(w.SimulationTime()-1.5) > eps {
		t.Errorf("sim time: got %v, want 1.5", w.SimulationTime())
	}
}

func TestHungerStaysBounded(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	id := addFish(w, components.Carp, 400, 250, func(f *components.Fish) { f.Hunger = 150 })

	for range 400 {
		w.Tick(0.5)
		f, ok := w.store.Fish(id)
		if !ok {
			return
		}
		if f.Fish.Hunger < 0 || f.Fish.Hunger > 200 {
			t.Fatalf("hunger out of bounds: %v", f.Fish.Hunger)
		}
	}
	t.Fatal("fish never starved")
}

func TestStarvationRemovesFish(t *testing.T) {
	w, rec := newTestWorld(t, nil)
	id := addFish(w, components.Carp, 400, 250, func(f *components.Fish) { f.Hunger = 199.9 })

	w.Tick(1)

	if _, ok := w.store.Fish(id); ok {
		t.Error("starved fish still present")
	}
	starved := rec.of(telemetry.EventStarved)
	if len(starved) != 1 || starved[0].EntityID != id {
		t.Errorf("starved events: got %+v, want one for %d", starved, id)
	}
}

func TestStarvingWhilePairedReleasesPartner(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	a := addFish(w, components.Carp, 400, 250, func(f *components.Fish) { f.Hunger = 199.9 })
	b := addFish(w, components.Carp, 420, 250, nil)
	pair(t, w, a, b)

	w.Tick(1)

	if _, ok := w.store.Fish(a); ok {
		t.Fatal("starved fish still present")
	}
	partner := mustFish(t, w, b)
	if partner.Fish.IsReproducing || partner.Fish.PartnerID != 0 {
		t.Errorf("partner still paired: %+v", *partner.Fish)
	}
	if partner.Fish.ReproductionCooldown != w.cfg.Reproduction.CancelCooldown {
		t.Errorf("partner cooldown: got %v, want %v", partner.Fish.ReproductionCooldown, w.cfg.Reproduction.CancelCooldown)
	}
}

func TestBoundaryReflection(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		dir     float64
		wantDir float64
	}{
		{"right wall", 799, 250, 0, math.Pi},
		{"left wall", 1, 250, math.Pi, 0},
		{"bottom wall", 400, 499, math.Pi / 2, -math.Pi / 2},
		{"top wall", 400, 1, -math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newTestWorld(t, nil)
			id := addFish(w, components.Carp, tt.x, tt.y, func(f *components.Fish) { f.Direction = tt.dir })

			w.Tick(0.1)

			f := mustFish(t, w, id)
			if f.Pos.X < 0 || f.Pos.X > w.bounds.Width || f.Pos.Y < 0 || f.Pos.Y > w.bounds.Height {
				t.Errorf("position outside pond: %+v", *f.Pos)
			}
			if math.Abs(f.Fish.Direction-tt.wantDir) > eps {
				t.Errorf("direction: got %v, want %v", f.Fish.Direction, tt.wantDir)
			}
		})
	}
}

func TestCrucianFleesPike(t *testing.T) {
	w, rec := newTestWorld(t, nil)
	// Hungry enough to forage and fed enough to breed, with food and a mate
	// in sight. The crucian goes first so its flight is visible to the mate.
	c := addFish(w, components.Crucian, 400, 250, func(f *components.Fish) {
		f.Age = 5
		f.Hunger = 50
	})
	mate := addFish(w, components.Crucian, 365, 250, func(f *components.Fish) {
		f.Age = 5
		f.Hunger = 10
		f.Direction = math.Pi
	})
	p := addFish(w, components.Pike, 415, 250, func(f *components.Fish) { f.Speed = 0 })
	inv := w.store.InsertInvertebrate(components.Position{X: 398, Y: 250}, components.Body{Size: 12}, components.Invertebrate{})

	const dt = 0.05
	for tick := range 5 {
		before := *mustFish(t, w, c).Pos
		pike := *mustFish(t, w, p).Pos

		w.Tick(dt)

		f := mustFish(t, w, c)
		if !f.Fish.Fleeing {
			t.Fatalf("tick %d: crucian did not flee", tick)
		}
		moved := math.Hypot(f.Pos.X-before.X, f.Pos.Y-before.Y)
		want := f.Fish.Speed * dt * w.cfg.Derived.FleeSpeedGain
		if math.Abs(moved-want) > 1e-6 {
			t.Errorf("tick %d: flee distance got %v, want %v", tick, moved, want)
		}
		// Jitter is at most a quarter turn, so each step gains distance.
		away := components.Position{X: before.X - pike.X, Y: before.Y - pike.Y}
		step := components.Position{X: f.Pos.X - before.X, Y: f.Pos.Y - before.Y}
		if dot := away.X*step.X + away.Y*step.Y; dot <= 0 {
			t.Errorf("tick %d: crucian moved toward the pike: %+v -> %+v", tick, before, *f.Pos)
		}
		if f.Fish.IsReproducing {
			t.Errorf("tick %d: fleeing crucian paired with %d", tick, f.Fish.PartnerID)
		}
		if m := mustFish(t, w, mate); m.Fish.IsReproducing {
			t.Errorf("tick %d: mate paired with %d", tick, m.Fish.PartnerID)
		}
	}

	if got := rec.of(telemetry.EventInvertebrateEaten); len(got) != 0 {
		t.Errorf("fleeing crucian ate: %+v", got)
	}
	if !w.store.Live(inv) {
		t.Error("invertebrate removed while the crucian fled")
	}
	if got := rec.of(telemetry.EventPaired); len(got) != 0 {
		t.Errorf("paired events: %+v", got)
	}

	f := mustFish(t, w, c)
	if wantAge := 5 + 5*dt*w.cfg.Simulation.AgeRate; math.Abs(f.Fish.Age-wantAge) > eps {
		t.Errorf("age: got %v, want %v", f.Fish.Age, wantAge)
	}
	if f.Fish.Hunger <= 50 {
		t.Errorf("hunger did not grow while fleeing: %v", f.Fish.Hunger)
	}
}

func TestFleeingFishStillAges(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	c := addFish(w, components.Crucian, 400, 250, func(f *components.Fish) { f.Hunger = 10 })
	p := addFish(w, components.Pike, 420, 250, func(f *components.Fish) { f.Speed = 0 })

	const (
		dt    = 0.05
		ticks = 20
	)
	for range ticks {
		// Keep the pike 20px behind the crucian.
		f := mustFish(t, w, c)
		*mustFish(t, w, p).Pos = components.Position{X: f.Pos.X + 20, Y: f.Pos.Y}
		w.Tick(dt)
		if !mustFish(t, w, c).Fish.Fleeing {
			t.Fatal("crucian stopped fleeing")
		}
	}

	f := mustFish(t, w, c)
	if want := ticks * dt * w.cfg.Simulation.AgeRate; math.Abs(f.Fish.Age-want) > eps {
		t.Errorf("age: got %v, want %v", f.Fish.Age, want)
	}
	if f.Fish.Hunger <= 10 {
		t.Errorf("hunger: got %v, want above 10", f.Fish.Hunger)
	}
}

func TestPikeEatsCrucian(t *testing.T) {
	w, rec := newTestWorld(t, nil)
	p := addFish(w, components.Pike, 400, 250, func(f *components.Fish) { f.Hunger = 100 })
	c := addFish(w, components.Crucian, 410, 250, nil)

	w.Tick(0.01)

	if _, ok := w.store.Fish(c); ok {
		t.Error("crucian survived")
	}
	pike := mustFish(t, w, p)
	crucianSize := w.cfg.Species.Crucian.Size
	want := 100 - crucianSize*w.cfg.Feeding.SatiationFactor
	if math.Abs(pike.Fish.Hunger-want) > 0.01 {
		t.Errorf("pike hunger: got %v, want about %v", pike.Fish.Hunger, want)
	}
	preyed := rec.of(telemetry.EventPreyed)
	if len(preyed) != 1 || preyed[0].EntityID != p || preyed[0].TargetID != c {
		t.Errorf("preyed events: got %+v", preyed)
	}
}

func TestPikeIgnoresPike(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	a := addFish(w, components.Pike, 400, 250, func(f *components.Fish) { f.Hunger = 100 })
	b := addFish(w, components.Pike, 405, 250, func(f *components.Fish) { f.Hunger = 100 })

	for range 10 {
		w.Tick(0.05)
	}

	mustFish(t, w, a)
	mustFish(t, w, b)
}

func TestSilverCarpGrazesPlantAway(t *testing.T) {
	w, rec := newTestWorld(t, nil)
	id := addFish(w, components.SilverCarp, 400, 250, func(f *components.Fish) { f.Hunger = 100 })
	plant := w.store.InsertPlant(components.Position{X: 405, Y: 250}, components.Body{Size: 20}, components.Plant{})

	w.Tick(0.01)

	if _, ok := w.store.Plant(plant); ok {
		t.Error("plant grazed to nothing should be removed")
	}
	if got := len(rec.of(telemetry.EventPlantConsumed)); got != 1 {
		t.Errorf("consumed events: got %d, want 1", got)
	}
	f := mustFish(t, w, id)
	if f.Fish.Hunger > 100-20*w.cfg.Feeding.SatiationFactor+1 {
		t.Errorf("hunger not relieved: %v", f.Fish.Hunger)
	}
}

func TestPlantSurvivesSmallBite(t *testing.T) {
	w, rec := newTestWorld(t, nil)
	addFish(w, components.SilverCarp, 400, 250, func(f *components.Fish) { f.Hunger = 31 })
	plant := w.store.InsertPlant(components.Position{X: 405, Y: 250}, components.Body{Size: 28}, components.Plant{})

	w.Tick(0.01)

	p, ok := w.store.Plant(plant)
	if !ok {
		t.Fatal("plant removed after a small bite")
	}
	if p.Body.Size > 28-15+eps || p.Body.Size < 28-16 {
		t.Errorf("plant size: got %v, want about 12.5", p.Body.Size)
	}
	if got := len(rec.of(telemetry.EventPlantGrazed)); got != 1 {
		t.Errorf("grazed events: got %d, want 1", got)
	}
}

func TestOmnivorePrefersInvertebrates(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	addFish(w, components.Crucian, 400, 250, func(f *components.Fish) { f.Hunger = 100 })
	plant := w.store.InsertPlant(components.Position{X: 402, Y: 250}, components.Body{Size: 20}, components.Plant{})
	inv := w.store.InsertInvertebrate(components.Position{X: 405, Y: 250}, components.Body{Size: 12}, components.Invertebrate{})

	w.Tick(0.001)

	if _, ok := w.store.Invertebrate(inv); ok {
		t.Error("invertebrate not eaten")
	}
	if p, ok := w.store.Plant(plant); !ok || p.Body.Size < 20 {
		t.Error("plant touched while an invertebrate was in reach")
	}
}

func TestPlantGrowth(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	small := w.store.InsertPlant(components.Position{X: 100, Y: 100}, components.Body{Size: 10}, components.Plant{GrowthRate: 0.2})
	big := w.store.InsertPlant(components.Position{X: 300, Y: 300}, components.Body{Size: 29.9}, components.Plant{GrowthRate: 0.3})

	for range 5 {
		w.Tick(1)
	}

	p, _ := w.store.Plant(small)
	if math.Abs(p.Body.Size-11) > eps {
		t.Errorf("small plant: got %v, want 11", p.Body.Size)
	}
	p, _ = w.store.Plant(big)
	if p.Body.Size != w.cfg.Plant.MaxSize {
		t.Errorf("big plant: got %v, want cap %v", p.Body.Size, w.cfg.Plant.MaxSize)
	}
}

func TestPlantsSeed(t *testing.T) {
	w, rec := newTestWorld(t, func(c *config.Config) { c.Plant.SpawnChance = 1 })
	w.store.InsertPlant(components.Position{X: 100, Y: 100}, components.Body{Size: 20}, components.Plant{})

	w.Tick(1)

	if got := w.store.Count(store.KindPlant); got != 2 {
		t.Fatalf("plants: got %d, want 2 (seedlings do not seed in their first tick)", got)
	}
	for p := range w.store.Plants() {
		if p.Pos.X < w.cfg.Plant.EdgeMargin || p.Pos.X > w.bounds.Width-w.cfg.Plant.EdgeMargin {
			t.Errorf("plant outside margin: %+v", *p.Pos)
		}
	}
	if got := len(rec.of(telemetry.EventPlantSprouted)); got != 1 {
		t.Errorf("sprout events: got %d, want 1", got)
	}
}

func TestInvertebratesStayInPond(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	id := w.store.InsertInvertebrate(components.Position{X: 0, Y: 0}, components.Body{Size: 10}, components.Invertebrate{Speed: 5})

	for range 50 {
		w.Tick(1)
		inv, _ := w.store.Invertebrate(id)
		if inv.Pos.X < 0 || inv.Pos.X > w.bounds.Width || inv.Pos.Y < 0 || inv.Pos.Y > w.bounds.Height {
			t.Fatalf("invertebrate escaped: %+v", *inv.Pos)
		}
	}
}

func TestLarvaHatchesWithinTick(t *testing.T) {
	w, rec := newTestWorld(t, nil)
	larva := w.store.InsertLarva(components.Position{X: 200, Y: 200}, components.Body{Size: 9},
		components.Larva{Species: components.Crucian, HatchProgress: 99})

	w.Tick(0.1)

	if _, ok := w.store.Larva(larva); ok {
		t.Error("larva still present after hatching")
	}
	hatched := rec.of(telemetry.EventHatched)
	if len(hatched) != 1 || hatched[0].TargetID != larva {
		t.Fatalf("hatched events: got %+v", hatched)
	}
	f := mustFish(t, w, hatched[0].EntityID)
	if f.Fish.Species != components.Crucian {
		t.Errorf("species: got %v, want crucian", f.Fish.Species)
	}
	if f.Body.Size != w.cfg.Species.Crucian.JuvenileSize {
		t.Errorf("size: got %v, want juvenile %v", f.Body.Size, w.cfg.Species.Crucian.JuvenileSize)
	}
	if *f.Pos != (components.Position{X: 200, Y: 200}) {
		t.Errorf("position: got %+v", *f.Pos)
	}
}

func TestLarvaIncubates(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	id := w.store.InsertLarva(components.Position{X: 200, Y: 200}, components.Body{Size: 9}, components.Larva{Species: components.Carp})

	w.Tick(1)

	l, ok := w.store.Larva(id)
	if !ok {
		t.Fatal("larva hatched too early")
	}
	if l.Larva.HatchProgress != 25 {
		t.Errorf("progress: got %v, want 25", l.Larva.HatchProgress)
	}
	if math.Abs(l.Body.Size-(9+25.0/20)) > eps {
		t.Errorf("size: got %v", l.Body.Size)
	}
}

func TestCooldownsDecrement(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	a := addFish(w, components.Carp, 100, 100, func(f *components.Fish) { f.ReproductionCooldown = 1 })
	b := addFish(w, components.Carp, 600, 400, func(f *components.Fish) { f.ReproductionCooldown = 0.2 })

	w.Tick(0.5)

	if got := mustFish(t, w, a).Fish.ReproductionCooldown; got != 0.5 {
		t.Errorf("cooldown: got %v, want 0.5", got)
	}
	if got := mustFish(t, w, b).Fish.ReproductionCooldown; got != 0 {
		t.Errorf("cooldown: got %v, want floored at 0", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	w, _ := newTestWorld(t, nil)
	id := addFish(w, components.Carp, 100, 100, nil)
	w.store.InsertPlant(components.Position{X: 50, Y: 50}, components.Body{Size: 10}, components.Plant{})

	snap := w.Snapshot()
	snap.Fish[0].X = -1

	if f := mustFish(t, w, id); f.Pos.X != 100 {
		t.Error("snapshot shares memory with the world")
	}
	if snap.FishCounts[components.Carp] != 1 || snap.FishCounts[components.Pike] != 0 {
		t.Errorf("fish counts: got %v", snap.FishCounts)
	}
	if len(snap.Plants) != 1 || len(snap.Larvae) != 0 {
		t.Errorf("collections: %d plants, %d larvae", len(snap.Plants), len(snap.Larvae))
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{9.9, "0:09"},
		{75, "1:15"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v): got %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
