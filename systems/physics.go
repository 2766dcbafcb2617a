package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/pond/components"
)

// Bounds represents the pond dimensions.
type Bounds struct {
	Width, Height float64
}

// Heading returns the angle from one position toward another.
func Heading(from, to components.Position) float64 {
	d := r2.Sub(to.Vec(), from.Vec())
	return math.Atan2(d.Y, d.X)
}

// Advance moves pos by dist along direction.
func Advance(pos components.Position, direction, dist float64) components.Position {
	step := r2.Vec{X: math.Cos(direction), Y: math.Sin(direction)}
	return components.PositionOf(r2.Add(pos.Vec(), r2.Scale(dist, step)))
}

// MoveToward moves pos by at most step toward target, stopping on it.
func MoveToward(pos, target components.Position, step float64) components.Position {
	d := r2.Sub(target.Vec(), pos.Vec())
	n := r2.Norm(d)
	if n <= step || n == 0 {
		return target
	}
	return components.PositionOf(r2.Add(pos.Vec(), r2.Scale(step/n, d)))
}

// Reflect keeps pos inside b. Leaving across a vertical wall mirrors the
// direction as Pi-dir, across a horizontal wall as -dir; the position is
// clamped back onto the wall. Reports whether a reflection happened.
func Reflect(pos *components.Position, direction *float64, b Bounds) bool {
	hit := false
	if pos.X < 0 || pos.X > b.Width {
		*direction = math.Pi - *direction
		pos.X = clamp(pos.X, 0, b.Width)
		hit = true
	}
	if pos.Y < 0 || pos.Y > b.Height {
		*direction = -*direction
		pos.Y = clamp(pos.Y, 0, b.Height)
		hit = true
	}
	return hit
}

// Inset clamps pos to lie at least margin inside b.
func Inset(pos components.Position, b Bounds, margin float64) components.Position {
	return components.Position{
		X: clamp(pos.X, margin, b.Width-margin),
		Y: clamp(pos.Y, margin, b.Height-margin),
	}
}

// Contain clamps pos into b without touching any direction.
func Contain(pos components.Position, b Bounds) components.Position {
	return Inset(pos, b, 0)
}

// FleeDirection points directly away from the predator, perturbed by r
// (uniform in [0,1)) by up to a quarter turn either way.
func FleeDirection(self, predator components.Position, r float64) float64 {
	return normalizeAngle(Heading(predator, self) + jitter(r))
}

// Wander perturbs a direction by up to a quarter turn.
func Wander(direction, r float64) float64 {
	return normalizeAngle(direction + jitter(r))
}
