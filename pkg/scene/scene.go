// Package scene assembles and validates tessellation inputs: a seed set,
// a bounding box and a padding scalar. It also provides the stock seed
// generators (lattice, spiral, random, clusters).
package scene

import (
	"math"

	"github.com/chazu/fracture/pkg/geom"
	"github.com/chazu/fracture/pkg/voronoi"
)

// Scene is the full input to a tessellation run.
type Scene struct {
	Seeds   []voronoi.Seed `json:"seeds"`
	Bounds  geom.Box       `json:"bounds"`
	Padding float64        `json:"padding"`
}

// New creates an empty scene with the default padding and an unset
// bounding box. Callers either set Bounds explicitly or derive it from
// the seeds with FitBounds.
func New() *Scene {
	return &Scene{Padding: voronoi.DefaultPadding}
}

// AddSeed appends a seed, assigning the next sequential ID.
func (s *Scene) AddSeed(pos geom.Vec3, tags map[string]string) {
	s.Seeds = append(s.Seeds, voronoi.Seed{
		Position: pos,
		ID:       len(s.Seeds),
		Tags:     tags,
	})
}

// FitBounds sets Bounds to the tight axis-aligned box of the seed set.
// A scene with no seeds is left untouched.
func (s *Scene) FitBounds() {
	if len(s.Seeds) == 0 {
		return
	}
	min := s.Seeds[0].Position
	max := min
	for _, sd := range s.Seeds[1:] {
		p := sd.Position
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	s.Bounds = geom.Box{Min: min, Max: max}
}

// Tessellate validates the scene and, if it passes, runs the Voronoi
// computation. Warnings are returned alongside the cells; blocking
// validation errors abort before any geometry is built.
func (s *Scene) Tessellate() ([]voronoi.Cell, []ValidationWarning, error) {
	errs, warnings := Validate(s)
	if len(errs) > 0 {
		return nil, warnings, errs[0]
	}
	return voronoi.Compute(s.Seeds, s.Bounds, s.Padding), warnings, nil
}
