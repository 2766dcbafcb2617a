package sim

import (
	"fmt"

	"github.com/pthm-cable/pond/components"
)

// FishView is a render-ready copy of one fish.
type FishView struct {
	ID            components.ID      `json:"id"`
	Species       components.Species `json:"species"`
	X             float64            `json:"x"`
	Y             float64            `json:"y"`
	Direction     float64            `json:"direction"`
	Size          float64            `json:"size"`
	Hunger        float64            `json:"hunger"`
	Age           float64            `json:"age"`
	IsReproducing bool               `json:"is_reproducing,omitempty"`
	PartnerID     components.ID      `json:"partner_id,omitempty"`
}

// PlantView is a render-ready copy of one plant.
type PlantView struct {
	ID   components.ID `json:"id"`
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
	Size float64       `json:"size"`
}

// InvertebrateView is a render-ready copy of one invertebrate.
type InvertebrateView struct {
	ID   components.ID `json:"id"`
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
	Size float64       `json:"size"`
}

// LarvaView is a render-ready copy of one larva.
type LarvaView struct {
	ID            components.ID      `json:"id"`
	Species       components.Species `json:"species"`
	X             float64            `json:"x"`
	Y             float64            `json:"y"`
	Size          float64            `json:"size"`
	HatchProgress float64            `json:"hatch_progress"`
	Age           float64            `json:"age"`
}

// Snapshot is a point-in-time copy of the pond for renderers. It shares no
// memory with the world.
type Snapshot struct {
	Tick           uint64                     `json:"tick"`
	SimulationTime float64                    `json:"simulation_time"`
	RealTime       float64                    `json:"real_time"`
	FormattedTime  string                     `json:"formatted_time"`
	Speed          float64                    `json:"speed"`
	Running        bool                       `json:"running"`
	FishCounts     map[components.Species]int `json:"fish_counts"`

	Fish          []FishView         `json:"fish"`
	Plants        []PlantView        `json:"plants"`
	Invertebrates []InvertebrateView `json:"invertebrates"`
	Larvae        []LarvaView        `json:"larvae"`
}

// Snapshot copies the live pond. Running is left false; the driver fills
// it in.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:           w.tick,
		SimulationTime: w.simTime,
		RealTime:       w.realTime,
		FormattedTime:  FormatTime(w.realTime),
		Speed:          w.speed,
		FishCounts:     w.FishCounts(),
		Fish:           []FishView{},
		Plants:         []PlantView{},
		Invertebrates:  []InvertebrateView{},
		Larvae:         []LarvaView{},
	}

	for f := range w.store.AllFish() {
		snap.Fish = append(snap.Fish, FishView{
			ID:            f.ID,
			Species:       f.Fish.Species,
			X:             f.Pos.X,
			Y:             f.Pos.Y,
			Direction:     f.Fish.Direction,
			Size:          f.Body.Size,
			Hunger:        f.Fish.Hunger,
			Age:           f.Fish.Age,
			IsReproducing: f.Fish.IsReproducing,
			PartnerID:     f.Fish.PartnerID,
		})
	}
	for p := range w.store.Plants() {
		snap.Plants = append(snap.Plants, PlantView{ID: p.ID, X: p.Pos.X, Y: p.Pos.Y, Size: p.Body.Size})
	}
	for inv := range w.store.Invertebrates() {
		snap.Invertebrates = append(snap.Invertebrates, InvertebrateView{ID: inv.ID, X: inv.Pos.X, Y: inv.Pos.Y, Size: inv.Body.Size})
	}
	for l := range w.store.Larvae() {
		snap.Larvae = append(snap.Larvae, LarvaView{
			ID:            l.ID,
			Species:       l.Larva.Species,
			X:             l.Pos.X,
			Y:             l.Pos.Y,
			Size:          l.Body.Size,
			HatchProgress: l.Larva.HatchProgress,
			Age:           l.Larva.Age,
		})
	}
	return snap
}

// FishCounts returns the live fish count per species. Every species is
// present, even at zero.
func (w *World) FishCounts() map[components.Species]int {
	counts := make(map[components.Species]int, components.NumSpecies)
	for _, s := range components.AllSpecies() {
		counts[s] = 0
	}
	for f := range w.store.AllFish() {
		counts[f.Fish.Species]++
	}
	return counts
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
