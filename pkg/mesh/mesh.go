// Package mesh converts finished cell polyhedra into flat, render-ready
// buffers annotated with volume and centroid metrics. The conversion is a
// pure read-only transform.
package mesh

import (
	"github.com/chazu/fracture/pkg/cell"
	"github.com/chazu/fracture/pkg/geom"
)

// FaceData describes one polygonal face of the source polyhedron.
type FaceData struct {
	Vertices []int     `json:"vertices"` // indices into the vertex buffer
	Center   geom.Vec3 `json:"center"`   // face centroid, for face-level styling
}

// Data is the flat mesh form of a polyhedron. Vertices holds 3 floats
// per vertex; Indices holds 3 entries per fan triangle; Edges is the
// deduplicated undirected edge list.
type Data struct {
	Vertices    []float64  `json:"vertices"`
	Indices     []int      `json:"indices"`
	Edges       [][2]int   `json:"edges"`
	Faces       []FaceData `json:"faceData"`
	VertexCount int        `json:"vertexCount"`
	FaceCount   int        `json:"faceCount"`
	Volume      float64    `json:"volume"`
	Centroid    geom.Vec3  `json:"centroid"`
}

// FromPolyhedron flattens p into mesh buffers. Faces are fan-triangulated
// from their first vertex, valid because faces are convex and planar by
// construction. Volume is exact for the closed convex boundary; Centroid
// is the arithmetic mean of the vertex positions, an approximation of the
// volumetric centroid intended for visualization and statistics only.
func FromPolyhedron(p *cell.Polyhedron) *Data {
	d := &Data{
		Vertices:    make([]float64, 0, len(p.Vertices)*3),
		VertexCount: len(p.Vertices),
		FaceCount:   len(p.Faces),
	}

	var centroid geom.Vec3
	for _, v := range p.Vertices {
		d.Vertices = append(d.Vertices, v.X, v.Y, v.Z)
		centroid = centroid.Add(v)
	}
	if len(p.Vertices) > 0 {
		d.Centroid = centroid.Scale(1 / float64(len(p.Vertices)))
	}

	seen := make(map[uint64]bool)
	for _, face := range p.Faces {
		// Fan triangulation from the first vertex, accumulating the
		// divergence-theorem volume sum v0·(v1×v2)/6 per triangle.
		for i := 1; i < len(face)-1; i++ {
			d.Indices = append(d.Indices, face[0], face[i], face[i+1])
			v0 := p.Vertices[face[0]]
			v1 := p.Vertices[face[i]]
			v2 := p.Vertices[face[i+1]]
			d.Volume += v0.Dot(v1.Cross(v2)) / 6
		}

		var center geom.Vec3
		for i, idx := range face {
			center = center.Add(p.Vertices[idx])
			a, b := idx, face[(i+1)%len(face)]
			if a > b {
				a, b = b, a
			}
			key := uint64(a)<<32 | uint64(b)
			if !seen[key] {
				seen[key] = true
				d.Edges = append(d.Edges, [2]int{a, b})
			}
		}
		d.Faces = append(d.Faces, FaceData{
			Vertices: face,
			Center:   center.Scale(1 / float64(len(face))),
		})
	}

	if d.Volume < 0 {
		d.Volume = -d.Volume
	}
	return d
}
