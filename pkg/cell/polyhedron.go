// Package cell implements the convex polyhedron representation and the
// half-space clipping operation that carves Voronoi cells out of a
// bounding box.
//
// A Polyhedron is a vertex list plus faces given as cyclic index
// sequences, counter-clockwise as seen from outside the solid. The
// boundary is closed, convex and non-self-intersecting by construction;
// no runtime validation is performed.
package cell

import (
	"math"
	"sort"

	"github.com/chazu/fracture/pkg/geom"
)

// Polyhedron is a mutable convex solid. It is created as an axis-aligned
// box and destructively rebuilt by each CutWithPlane call. An empty
// vertex list means the solid has been clipped away entirely.
type Polyhedron struct {
	Vertices []geom.Vec3
	Faces    [][]int
}

// NewBox builds the canonical 8-vertex, 6-quad-face axis-aligned box
// between min and max. Face winding is counter-clockwise seen from
// outside, verified against the outward normals.
func NewBox(min, max geom.Vec3) *Polyhedron {
	return &Polyhedron{
		Vertices: []geom.Vec3{
			{X: min.X, Y: min.Y, Z: min.Z}, // 0
			{X: max.X, Y: min.Y, Z: min.Z}, // 1
			{X: max.X, Y: max.Y, Z: min.Z}, // 2
			{X: min.X, Y: max.Y, Z: min.Z}, // 3
			{X: min.X, Y: min.Y, Z: max.Z}, // 4
			{X: max.X, Y: min.Y, Z: max.Z}, // 5
			{X: max.X, Y: max.Y, Z: max.Z}, // 6
			{X: min.X, Y: max.Y, Z: max.Z}, // 7
		},
		Faces: [][]int{
			{0, 3, 2, 1}, // -z
			{4, 5, 6, 7}, // +z
			{0, 1, 5, 4}, // -y
			{2, 3, 7, 6}, // +y
			{0, 4, 7, 3}, // -x
			{1, 2, 6, 5}, // +x
		},
	}
}

// IsEmpty reports whether the solid has been clipped away.
func (p *Polyhedron) IsEmpty() bool {
	return len(p.Vertices) == 0
}

// MaxSignedDistance returns the largest signed distance from pl over the
// current vertices, or -Inf for an empty polyhedron. If the result is
// below -Epsilon every vertex is strictly inside and cutting with pl
// would be a no-op.
func (p *Polyhedron) MaxSignedDistance(pl geom.Plane) float64 {
	max := math.Inf(-1)
	for _, v := range p.Vertices {
		if d := pl.SignedDistance(v); d > max {
			max = d
		}
	}
	return max
}

// edgeKey packs an undirected pair of vertex indices into one integer so
// each cut edge contributes exactly one shared intersection vertex.
func edgeKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// CutWithPlane intersects the solid with the half-space where the signed
// distance to pl is <= 0, rebuilding the vertex and face lists in place.
// If no vertex lies outside the plane the call is a no-op; if no vertex
// lies inside, the whole solid is discarded and the polyhedron becomes
// empty. Each face crossing the plane is truncated at cached edge/plane
// intersection points, and a single new cap face is synthesized on the
// cutting plane to keep the boundary closed.
func (p *Polyhedron) CutWithPlane(pl geom.Plane) {
	if p.IsEmpty() {
		return
	}

	// Classify every vertex: inside (d < -eps), outside (d > +eps), on.
	dist := make([]float64, len(p.Vertices))
	inside, outside := 0, 0
	for i, v := range p.Vertices {
		d := pl.SignedDistance(v)
		dist[i] = d
		switch {
		case d < -geom.Epsilon:
			inside++
		case d > geom.Epsilon:
			outside++
		}
	}

	if outside == 0 {
		return // plane does not cut this polyhedron
	}
	if inside == 0 {
		// The plane excludes the entire solid. This is valid when a far
		// seed's bisector still excludes an already-shrunk cell.
		p.Vertices = nil
		p.Faces = nil
		return
	}

	// Copy every kept vertex, tracking old index -> new index.
	newVerts := make([]geom.Vec3, 0, len(p.Vertices))
	remap := make([]int, len(p.Vertices))
	for i, v := range p.Vertices {
		if dist[i] <= geom.Epsilon {
			remap[i] = len(newVerts)
			newVerts = append(newVerts, v)
		} else {
			remap[i] = -1
		}
	}

	// Intersection vertices are cached per undirected edge so adjacent
	// faces share the same new vertex.
	cutEdges := make(map[uint64]int)
	intersect := func(a, b int) int {
		k := edgeKey(a, b)
		if idx, ok := cutEdges[k]; ok {
			return idx
		}
		d1, d2 := dist[a], dist[b]
		t := d1 / (d1 - d2)
		v := p.Vertices[a].Add(p.Vertices[b].Sub(p.Vertices[a]).Scale(t))
		idx := len(newVerts)
		newVerts = append(newVerts, v)
		cutEdges[k] = idx
		return idx
	}

	// Rebuild every face, collecting the cap vertex indices.
	newFaces := make([][]int, 0, len(p.Faces)+1)
	capSeen := make(map[int]bool)
	var capVerts []int
	for _, face := range p.Faces {
		rebuilt := make([]int, 0, len(face)+2)
		for i, cur := range face {
			next := face[(i+1)%len(face)]
			dc, dn := dist[cur], dist[next]

			if dc <= geom.Epsilon {
				rebuilt = append(rebuilt, remap[cur])
			}

			// A crossing edge (strictly inside to strictly outside, in
			// either order) gets an interpolated intersection vertex. An
			// on/outside pair gets one too, so the cap stays closed when
			// the plane passes through an existing vertex.
			crossing := (dc < -geom.Epsilon && dn > geom.Epsilon) ||
				(dc > geom.Epsilon && dn < -geom.Epsilon)
			boundary := (math.Abs(dc) <= geom.Epsilon && dn > geom.Epsilon) ||
				(dc > geom.Epsilon && math.Abs(dn) <= geom.Epsilon)
			if crossing || boundary {
				idx := intersect(cur, next)
				rebuilt = append(rebuilt, idx)
				if !capSeen[idx] {
					capSeen[idx] = true
					capVerts = append(capVerts, idx)
				}
			}
		}
		if len(rebuilt) >= 3 && !zeroAreaFace(newVerts, rebuilt) {
			newFaces = append(newFaces, rebuilt)
		}
	}

	if capFace := buildCap(newVerts, capVerts, pl); capFace != nil {
		newFaces = append(newFaces, capFace)
	}

	p.Vertices = newVerts
	p.Faces = newFaces
}

// zeroAreaFace reports whether a rebuilt face has vanishing area by its
// Newell normal. Such slivers appear when the cutting plane passes
// exactly through existing vertices and the boundary intersection points
// collapse the loop onto a line.
func zeroAreaFace(verts []geom.Vec3, face []int) bool {
	var n geom.Vec3
	for i, idx := range face {
		a := verts[idx]
		b := verts[face[(i+1)%len(face)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Length() <= geom.Epsilon
}

// buildCap orders the intersection vertices into a single convex polygon
// lying in the cutting plane. Fewer than 3 distinct cap vertices mean a
// degenerate (e.g. tangential) cut and no cap is produced.
func buildCap(verts []geom.Vec3, capVerts []int, pl geom.Plane) []int {
	if len(capVerts) < 3 {
		return nil
	}

	var centroid geom.Vec3
	for _, idx := range capVerts {
		centroid = centroid.Add(verts[idx])
	}
	centroid = centroid.Scale(1 / float64(len(capVerts)))

	// Build an orthonormal tangent basis on the plane, seeded from the
	// world axis least parallel to the normal.
	tangent := pl.Normal.Cross(leastParallelAxis(pl.Normal)).Normalize()
	bitangent := pl.Normal.Cross(tangent)

	// The kept half-space is the negative side, so the cap's outward
	// normal is +pl.Normal. With tangent × bitangent = normal, ascending
	// polar angle winds counter-clockwise around +normal, i.e.
	// counter-clockwise as seen from outside the solid.
	type capVert struct {
		idx   int
		angle float64
	}
	ordered := make([]capVert, len(capVerts))
	for i, idx := range capVerts {
		r := verts[idx].Sub(centroid)
		ordered[i] = capVert{idx: idx, angle: math.Atan2(r.Dot(bitangent), r.Dot(tangent))}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].angle < ordered[j].angle })

	face := make([]int, len(ordered))
	for i, cv := range ordered {
		face[i] = cv.idx
	}
	return face
}

// leastParallelAxis returns the world axis with the smallest absolute
// component along n, a stable seed for a tangent basis.
func leastParallelAxis(n geom.Vec3) geom.Vec3 {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax <= ay && ax <= az:
		return geom.Vec3{X: 1}
	case ay <= az:
		return geom.Vec3{Y: 1}
	default:
		return geom.Vec3{Z: 1}
	}
}
