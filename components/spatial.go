package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// PositionOf converts a gonum vector back to a Position.
func PositionOf(v r2.Vec) Position {
	return Position{X: v.X, Y: v.Y}
}
