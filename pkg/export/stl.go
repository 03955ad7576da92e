// Package export writes finished tessellations to interchange formats:
// STL (via the sdfx render package) and JSON mesh payloads.
package export

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/fracture/pkg/geom"
	"github.com/chazu/fracture/pkg/voronoi"
)

func toV3(v geom.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Triangles fan-triangulates every face of every cell into sdf
// triangles. Face winding is already counter-clockwise from outside, so
// the triangle normals point out of each cell.
func Triangles(cells []voronoi.Cell) []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	for _, c := range cells {
		p := c.Polyhedron
		for _, face := range p.Faces {
			for i := 1; i < len(face)-1; i++ {
				t := sdf.Triangle3{
					toV3(p.Vertices[face[0]]),
					toV3(p.Vertices[face[i]]),
					toV3(p.Vertices[face[i+1]]),
				}
				tris = append(tris, &t)
			}
		}
	}
	return tris
}

// SaveSTL writes all cells into a single STL file.
func SaveSTL(path string, cells []voronoi.Cell) error {
	tris := Triangles(cells)
	if len(tris) == 0 {
		return fmt.Errorf("export: no triangles to write")
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return nil
}
