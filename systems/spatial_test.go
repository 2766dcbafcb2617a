package systems

import (
	"math"
	"slices"
	"testing"

	"github.com/pthm-cable/pond/components"
)

type point struct {
	name string
	pos  components.Position
	ok   bool
}

func pointPos(p point) components.Position { return p.pos }

func TestDistance(t *testing.T) {
	got := Distance(components.Position{X: 0, Y: 0}, components.Position{X: 3, Y: 4})
	if got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestNearestWithin(t *testing.T) {
	origin := components.Position{X: 100, Y: 100}

	tests := []struct {
		name     string
		points   []point
		radius   float64
		keepAll  bool
		wantName string
		wantOK   bool
	}{
		{
			name:   "empty",
			radius: 50,
		},
		{
			name: "picks closest",
			points: []point{
				{"far", components.Position{X: 130, Y: 100}, true},
				{"near", components.Position{X: 110, Y: 100}, true},
			},
			radius:   50,
			wantName: "near",
			wantOK:   true,
		},
		{
			name: "radius is exclusive",
			points: []point{
				{"edge", components.Position{X: 150, Y: 100}, true},
			},
			radius: 50,
		},
		{
			name: "tie goes to first seen",
			points: []point{
				{"first", components.Position{X: 120, Y: 100}, true},
				{"second", components.Position{X: 80, Y: 100}, true},
			},
			radius:   50,
			wantName: "first",
			wantOK:   true,
		},
		{
			name: "predicate filters",
			points: []point{
				{"rejected", components.Position{X: 101, Y: 100}, false},
				{"accepted", components.Position{X: 140, Y: 100}, true},
			},
			radius:   50,
			wantName: "accepted",
			wantOK:   true,
		},
		{
			name: "nil predicate keeps all",
			points: []point{
				{"rejected", components.Position{X: 101, Y: 100}, false},
			},
			radius:   50,
			keepAll:  true,
			wantName: "rejected",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep := func(p point) bool { return p.ok }
			if tt.keepAll {
				keep = nil
			}
			got, ok := NearestWithin(origin, slices.Values(tt.points), tt.radius, pointPos, keep)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.name != tt.wantName {
				t.Errorf("got %q, want %q", got.name, tt.wantName)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := normalizeAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
