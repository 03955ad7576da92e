// Package voronoi computes the 3D Voronoi tessellation of a seed set by
// iterative plane cutting: each seed's cell starts as the padded bounding
// box and is clipped against the perpendicular-bisector plane to every
// other seed, nearest first.
//
// The driver is O(n) seeds x O(n) bisector cuts with no spatial pruning
// beyond the nearest-first ordering. That is intended for tens to low
// hundreds of seeds, not a general high-n Voronoi algorithm.
package voronoi

import (
	"sort"

	"github.com/chazu/fracture/pkg/cell"
	"github.com/chazu/fracture/pkg/geom"
)

// DefaultPadding is how far the bounding box is expanded on all sides
// before cells are carved from it.
const DefaultPadding = 0.5

// Seed is an input point. ID and Tags are opaque to the tessellation:
// generators attach them and they pass through unmodified to the output
// cell.
type Seed struct {
	Position geom.Vec3         `json:"position"`
	ID       int               `json:"id"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// Cell pairs a seed with its finished convex polyhedron. The polyhedron
// is exclusively owned by its cell.
type Cell struct {
	Seed       Seed
	Polyhedron *cell.Polyhedron
}

// Compute returns one cell per seed whose polyhedron survives clipping.
// Seeds whose cell is clipped away entirely (which cannot happen with
// correct padding, but is tolerated) are silently omitted. An empty seed
// list yields a nil result.
//
// The bounding box, expanded by padding, must strictly contain every
// seed so that clipping alone produces closed cells.
func Compute(seeds []Seed, bounds geom.Box, padding float64) []Cell {
	if len(seeds) == 0 {
		return nil
	}

	padded := bounds.Expand(padding)
	cells := make([]Cell, 0, len(seeds))

	type neighbor struct {
		pos  geom.Vec3
		dist float64
	}
	neighbors := make([]neighbor, 0, len(seeds)-1)

	for i, s := range seeds {
		poly := cell.NewBox(padded.Min, padded.Max)

		// Clip against nearest seeds first: near bisectors shrink the
		// cell fastest, making later far-seed cuts cheap no-ops.
		neighbors = neighbors[:0]
		for j, o := range seeds {
			if j == i {
				continue
			}
			neighbors = append(neighbors, neighbor{
				pos:  o.Position,
				dist: s.Position.Distance(o.Position),
			})
		}
		sort.Slice(neighbors, func(a, b int) bool {
			return neighbors[a].dist < neighbors[b].dist
		})

		for _, nb := range neighbors {
			if poly.IsEmpty() {
				break // nothing left to cut
			}
			bisector := geom.PerpendicularBisector(s.Position, nb.pos)
			// Skip the cut when every vertex is already strictly inside.
			// CutWithPlane would no-op anyway; this only avoids the
			// reconstruction-pass bookkeeping.
			if poly.MaxSignedDistance(bisector) < -geom.Epsilon {
				continue
			}
			poly.CutWithPlane(bisector)
		}

		if !poly.IsEmpty() {
			cells = append(cells, Cell{Seed: s, Polyhedron: poly})
		}
	}

	return cells
}
