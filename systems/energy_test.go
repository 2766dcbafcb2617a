package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/config"
)

const eps = 1e-9

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

// ---------- UpdateMetabolism ----------

func TestUpdateMetabolism_AgeAccruesAtFixedRate(t *testing.T) {
	cfg := testConfig(t)
	fish := components.Fish{Species: components.Carp, Hunger: 100, Age: 1}
	body := components.Body{Size: 20}

	UpdateMetabolism(&fish, &body, NewMetabolism(cfg, components.Carp), 2)

	if math.Abs(fish.Age-1.2) > eps {
		t.Errorf("age = %v, want 1.2", fish.Age)
	}
}

func TestUpdateMetabolism_HungerBySpecies(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		species components.Species
		size    float64
		want    float64
	}{
		{components.Pike, 25, 100 + 25.0/10000},
		{components.Carp, 20, 100 + 20*0.025},
		{components.SilverCarp, 18, 100 + 18*0.025},
		{components.Crucian, 12, 100 + 12*0.025},
	}

	for _, tt := range tests {
		t.Run(tt.species.String(), func(t *testing.T) {
			// Hunger above the well-fed line, so no growth
			fish := components.Fish{Species: tt.species, Hunger: 100}
			body := components.Body{Size: tt.size}
			UpdateMetabolism(&fish, &body, NewMetabolism(cfg, tt.species), 1)
			if math.Abs(fish.Hunger-tt.want) > eps {
				t.Errorf("hunger = %v, want %v", fish.Hunger, tt.want)
			}
			if body.Size != tt.size {
				t.Errorf("size = %v, want unchanged %v", body.Size, tt.size)
			}
		})
	}
}

func TestUpdateMetabolism_HungerCapped(t *testing.T) {
	cfg := testConfig(t)
	fish := components.Fish{Species: components.Carp, Hunger: 199.9}
	body := components.Body{Size: 30}

	UpdateMetabolism(&fish, &body, NewMetabolism(cfg, components.Carp), 10)

	if fish.Hunger != cfg.Feeding.MaxHunger {
		t.Errorf("hunger = %v, want cap %v", fish.Hunger, cfg.Feeding.MaxHunger)
	}
	if !Starved(&fish, cfg.Feeding.MaxHunger) {
		t.Error("expected fish at the ceiling to be starved")
	}
}

func TestUpdateMetabolism_GrowthChargesHunger(t *testing.T) {
	cfg := testConfig(t)
	m := NewMetabolism(cfg, components.Carp)

	tests := []struct {
		name     string
		size     float64
		wantGrow float64
	}{
		{"juvenile bonus", 12, 0.1},
		{"adult", 25, 0.05},
		{"clamped to max", 31.99, 0.01},
		{"at max", 32, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fish := components.Fish{Species: components.Carp, Hunger: 0}
			body := components.Body{Size: tt.size}
			grown := UpdateMetabolism(&fish, &body, m, 1)

			if math.Abs(grown-tt.wantGrow) > 1e-6 {
				t.Errorf("grown = %v, want %v", grown, tt.wantGrow)
			}
			wantHunger := tt.size*0.025 + 2*grown
			if math.Abs(fish.Hunger-wantHunger) > 1e-6 {
				t.Errorf("hunger = %v, want %v", fish.Hunger, wantHunger)
			}
		})
	}
}

func TestUpdateMetabolism_NoGrowthWhenHungry(t *testing.T) {
	cfg := testConfig(t)
	fish := components.Fish{Species: components.Carp, Hunger: 40}
	body := components.Body{Size: 20}

	if grown := UpdateMetabolism(&fish, &body, NewMetabolism(cfg, components.Carp), 1); grown != 0 {
		t.Errorf("grown = %v, want 0", grown)
	}
}

func TestTickCooldown(t *testing.T) {
	fish := components.Fish{ReproductionCooldown: 0.5}
	TickCooldown(&fish, 0.3)
	if math.Abs(fish.ReproductionCooldown-0.2) > eps {
		t.Errorf("cooldown = %v, want 0.2", fish.ReproductionCooldown)
	}
	TickCooldown(&fish, 1)
	if fish.ReproductionCooldown != 0 {
		t.Errorf("cooldown = %v, want 0", fish.ReproductionCooldown)
	}
}
