package geom

// Plane is an oriented plane in Hessian normal form: a point p lies on
// the plane iff Normal·p + Offset = 0. Normal is unit length by
// construction. Positive signed distance means p is on the side the
// normal points to.
type Plane struct {
	Normal Vec3
	Offset float64
}

// FromPointAndNormal builds the plane through p with the given (possibly
// non-unit) normal.
func FromPointAndNormal(p, normal Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Offset: -n.Dot(p)}
}

// PerpendicularBisector builds the plane through the midpoint of a and b
// whose normal points from a toward b. Points with positive signed
// distance are nearer b; points with negative signed distance are nearer
// a. Callers must pass distinct points: coincident inputs produce a
// degenerate zero-normal plane.
func PerpendicularBisector(a, b Vec3) Plane {
	mid := a.Add(b).Scale(0.5)
	return FromPointAndNormal(mid, b.Sub(a))
}

// SignedDistance returns Normal·p + Offset.
func (pl Plane) SignedDistance(p Vec3) float64 {
	return pl.Normal.Dot(p) + pl.Offset
}
