package scene

import (
	"math"
	"math/rand"
	"strconv"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/chazu/fracture/pkg/geom"
	"github.com/chazu/fracture/pkg/voronoi"
)

// Append adds generated seeds to the scene, renumbering IDs so they stay
// sequential across multiple generator calls.
func (s *Scene) Append(seeds []voronoi.Seed) {
	for _, sd := range seeds {
		sd.ID = len(s.Seeds)
		s.Seeds = append(s.Seeds, sd)
	}
}

// LatticeSpec describes a regular grid of seeds inside a box.
type LatticeSpec struct {
	NX, NY, NZ int
	Bounds     geom.Box
	Jitter     float64 // 0..1, fraction of a grid cell each point may wander
	RNGSeed    int64
}

// Lattice places one seed at the center of each grid cell, optionally
// jittered. Jitter keeps every point inside its own grid cell, so seeds
// never coincide.
func Lattice(spec LatticeSpec) []voronoi.Seed {
	if spec.NX < 1 || spec.NY < 1 || spec.NZ < 1 {
		return nil
	}
	rng := rand.New(rand.NewSource(spec.RNGSeed))
	size := spec.Bounds.Size()
	sx := size.X / float64(spec.NX)
	sy := size.Y / float64(spec.NY)
	sz := size.Z / float64(spec.NZ)

	jitter := func(step float64) float64 {
		if spec.Jitter <= 0 {
			return 0
		}
		return (rng.Float64()*2 - 1) * spec.Jitter * step / 2
	}

	seeds := make([]voronoi.Seed, 0, spec.NX*spec.NY*spec.NZ)
	for ix := 0; ix < spec.NX; ix++ {
		for iy := 0; iy < spec.NY; iy++ {
			for iz := 0; iz < spec.NZ; iz++ {
				seeds = append(seeds, voronoi.Seed{
					ID: len(seeds),
					Position: geom.Vec3{
						X: spec.Bounds.Min.X + (float64(ix)+0.5)*sx + jitter(sx),
						Y: spec.Bounds.Min.Y + (float64(iy)+0.5)*sy + jitter(sy),
						Z: spec.Bounds.Min.Z + (float64(iz)+0.5)*sz + jitter(sz),
					},
					Tags: map[string]string{"generator": "lattice"},
				})
			}
		}
	}
	return seeds
}

// SpiralSpec describes a vertical helix of seeds centered on the origin.
type SpiralSpec struct {
	Count  int
	Turns  float64
	Radius float64
	Height float64
}

// Spiral places Count seeds along a helix of the given turns, radius and
// height, spanning z in [-Height/2, Height/2].
func Spiral(spec SpiralSpec) []voronoi.Seed {
	if spec.Count < 1 {
		return nil
	}
	seeds := make([]voronoi.Seed, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		t := 0.0
		if spec.Count > 1 {
			t = float64(i) / float64(spec.Count-1)
		}
		angle := 2 * math.Pi * spec.Turns * t
		seeds = append(seeds, voronoi.Seed{
			ID: i,
			Position: geom.Vec3{
				X: spec.Radius * math.Cos(angle),
				Y: spec.Radius * math.Sin(angle),
				Z: spec.Height * (t - 0.5),
			},
			Tags: map[string]string{"generator": "spiral"},
		})
	}
	return seeds
}

// RandomSpec describes uniformly distributed seeds inside a box.
type RandomSpec struct {
	Count   int
	Bounds  geom.Box
	RNGSeed int64
}

// Random places Count seeds uniformly inside the box, deterministically
// for a given RNGSeed.
func Random(spec RandomSpec) []voronoi.Seed {
	if spec.Count < 1 {
		return nil
	}
	rng := rand.New(rand.NewSource(spec.RNGSeed))
	size := spec.Bounds.Size()
	seeds := make([]voronoi.Seed, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		seeds = append(seeds, voronoi.Seed{
			ID: i,
			Position: geom.Vec3{
				X: spec.Bounds.Min.X + rng.Float64()*size.X,
				Y: spec.Bounds.Min.Y + rng.Float64()*size.Y,
				Z: spec.Bounds.Min.Z + rng.Float64()*size.Z,
			},
			Tags: map[string]string{"generator": "random"},
		})
	}
	return seeds
}

// ClustersSpec describes Gaussian clusters of seeds. Cluster centers are
// uniform in the box; members are normally distributed around them.
type ClustersSpec struct {
	Count      int // number of clusters
	PerCluster int
	Stddev     float64
	Bounds     geom.Box
	RNGSeed    uint64
}

// Clusters generates Count clusters of PerCluster seeds each. Members
// are drawn from per-axis normal distributions around the cluster
// center; each seed is tagged with its cluster index.
func Clusters(spec ClustersSpec) []voronoi.Seed {
	if spec.Count < 1 || spec.PerCluster < 1 {
		return nil
	}
	src := exprand.NewSource(spec.RNGSeed)
	uniform := exprand.New(src)
	normal := distuv.Normal{Mu: 0, Sigma: spec.Stddev, Src: src}

	size := spec.Bounds.Size()
	seeds := make([]voronoi.Seed, 0, spec.Count*spec.PerCluster)
	for c := 0; c < spec.Count; c++ {
		center := geom.Vec3{
			X: spec.Bounds.Min.X + uniform.Float64()*size.X,
			Y: spec.Bounds.Min.Y + uniform.Float64()*size.Y,
			Z: spec.Bounds.Min.Z + uniform.Float64()*size.Z,
		}
		for i := 0; i < spec.PerCluster; i++ {
			offset := geom.Vec3{X: normal.Rand(), Y: normal.Rand(), Z: normal.Rand()}
			seeds = append(seeds, voronoi.Seed{
				ID:       len(seeds),
				Position: center.Add(offset),
				Tags: map[string]string{
					"generator": "clusters",
					"cluster":   strconv.Itoa(c),
				},
			})
		}
	}
	return seeds
}
