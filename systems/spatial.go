// Package systems holds the per-agent rules of the pond: proximity search,
// movement, metabolism, feeding and the mating handshake. The functions here
// operate on component values only; applying them across the entity store is
// the job of package sim.
package systems

import (
	"iter"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/pond/components"
)

// Distance returns the Euclidean distance between two positions.
func Distance(a, b components.Position) float64 {
	return r2.Norm(r2.Sub(a.Vec(), b.Vec()))
}

// NearestWithin scans candidates in order and returns the closest one that
// satisfies keep and lies strictly inside radius of origin. Ties go to the
// candidate seen first. There is no index: populations are small enough that
// a full scan per query is the intended cost.
func NearestWithin[T any](
	origin components.Position,
	candidates iter.Seq[T],
	radius float64,
	at func(T) components.Position,
	keep func(T) bool,
) (T, bool) {
	var (
		best  T
		found bool
	)
	bestDist := radius
	for c := range candidates {
		if keep != nil && !keep(c) {
			continue
		}
		d := Distance(origin, at(c))
		if d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}
