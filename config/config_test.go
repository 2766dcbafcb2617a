package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/pond/components"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Width != 800 || cfg.World.Height != 500 {
		t.Errorf("world = %vx%v, want 800x500", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Plant.MaxSize != 30 {
		t.Errorf("plant max size = %v, want 30", cfg.Plant.MaxSize)
	}
	if cfg.Reproduction.Cooldown != 30 || cfg.Reproduction.CancelCooldown != 20 {
		t.Errorf("cooldowns = %v/%v, want 30/20", cfg.Reproduction.Cooldown, cfg.Reproduction.CancelCooldown)
	}
	if got := cfg.Derived.FleeSpeedGain; math.Abs(got-55) > 1e-9 {
		t.Errorf("flee speed gain = %v, want 55", got)
	}
}

func TestCloneRecomputesDerived(t *testing.T) {
	cfg := MustLoad("")
	cfg.Feeding.FleeBoost = 2

	cp := cfg.Clone()
	if got, want := cp.Derived.FleeSpeedGain, cfg.Simulation.MoveGain*2; got != want {
		t.Errorf("flee speed gain = %v, want %v", got, want)
	}

	cp.Species.Pike.Speed = 99
	if cfg.Species.Pike.Speed == 99 {
		t.Error("clone shares species table with original")
	}
}

func TestSpeciesTableFor(t *testing.T) {
	cfg := MustLoad("")

	tests := []struct {
		species components.Species
		speed   float64
		radius  float64
	}{
		{components.Pike, 2.0, 50},
		{components.SilverCarp, 1.5, 40},
		{components.Crucian, 1.8, 45},
		{components.Carp, 1.3, 45},
	}

	for _, tt := range tests {
		t.Run(tt.species.String(), func(t *testing.T) {
			sc := cfg.Species.For(tt.species)
			if sc.Speed != tt.speed {
				t.Errorf("speed = %v, want %v", sc.Speed, tt.speed)
			}
			if sc.DetectionRadius != tt.radius {
				t.Errorf("detection radius = %v, want %v", sc.DetectionRadius, tt.radius)
			}
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pond.yaml")
	overlay := []byte("world:\n  width: 1200\nspecies:\n  pike:\n    detection_radius: 80\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 1200 {
		t.Errorf("width = %v, want 1200", cfg.World.Width)
	}
	if cfg.World.Height != 500 {
		t.Errorf("height = %v, want default 500", cfg.World.Height)
	}
	if cfg.Species.Pike.DetectionRadius != 80 {
		t.Errorf("pike radius = %v, want 80", cfg.Species.Pike.DetectionRadius)
	}
	if cfg.Species.Pike.Speed != 2.0 {
		t.Errorf("pike speed = %v, want default 2.0", cfg.Species.Pike.Speed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClampSpeed(t *testing.T) {
	cfg := MustLoad("")

	tests := []struct {
		in, want float64
	}{
		{0, 0.1},
		{0.5, 0.5},
		{25, 10},
	}
	for _, tt := range tests {
		if got := cfg.ClampSpeed(tt.in); got != tt.want {
			t.Errorf("ClampSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := MustLoad("")
	cfg.Population.Pike = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Population.Pike != 7 {
		t.Errorf("pike population = %d, want 7", back.Population.Pike)
	}
}
