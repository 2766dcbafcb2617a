package systems

import (
	"slices"
	"testing"

	"github.com/pthm-cable/pond/components"
)

func TestMenu(t *testing.T) {
	tests := []struct {
		species components.Species
		want    []Food
	}{
		{components.Pike, []Food{FoodFish}},
		{components.SilverCarp, []Food{FoodPlant}},
		{components.Crucian, []Food{FoodInvertebrate, FoodPlant}},
		{components.Carp, []Food{FoodInvertebrate, FoodPlant}},
	}
	for _, tt := range tests {
		t.Run(tt.species.String(), func(t *testing.T) {
			if got := Menu(tt.species); !slices.Equal(got, tt.want) {
				t.Errorf("Menu = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanPrey(t *testing.T) {
	if !CanPrey(components.Pike, components.Carp) {
		t.Error("pike should prey on carp")
	}
	if CanPrey(components.Pike, components.Pike) {
		t.Error("pike should not prey on pike")
	}
	if CanPrey(components.Carp, components.Crucian) {
		t.Error("carp should not prey on fish")
	}
}

func TestHungry(t *testing.T) {
	cfg := testConfig(t)
	for _, tt := range []struct {
		hunger float64
		want   bool
	}{{30, false}, {30.01, true}, {0, false}} {
		fish := components.Fish{Hunger: tt.hunger}
		if got := Hungry(&fish, cfg.Feeding); got != tt.want {
			t.Errorf("Hungry(%v) = %v, want %v", tt.hunger, got, tt.want)
		}
	}
}

func TestInReach(t *testing.T) {
	a := components.Position{X: 0, Y: 0}
	if !InReach(a, components.Position{X: 15, Y: 0}, 20, 10) {
		t.Error("expected contact at exactly half sizes apart")
	}
	if InReach(a, components.Position{X: 15.1, Y: 0}, 20, 10) {
		t.Error("expected no contact beyond half sizes apart")
	}
}

func TestSatiate(t *testing.T) {
	cfg := testConfig(t)

	fish := components.Fish{Hunger: 50}
	Satiate(&fish, 10, cfg.Feeding)
	if fish.Hunger != 20 {
		t.Errorf("hunger = %v, want 20", fish.Hunger)
	}

	Satiate(&fish, 10, cfg.Feeding)
	if fish.Hunger != 0 {
		t.Errorf("hunger = %v, want floor 0", fish.Hunger)
	}
}

func TestGraze(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name         string
		size, hunger float64
		wantSize     float64
		wantGone     bool
	}{
		{"partial bite", 20, 10, 15, false},
		{"down to threshold", 12, 20, 2, true},
		{"floored at zero", 5, 100, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := components.Body{Size: tt.size}
			gone := Graze(&body, tt.hunger, cfg.Plant)
			if body.Size != tt.wantSize {
				t.Errorf("size = %v, want %v", body.Size, tt.wantSize)
			}
			if gone != tt.wantGone {
				t.Errorf("gone = %v, want %v", gone, tt.wantGone)
			}
		})
	}
}
