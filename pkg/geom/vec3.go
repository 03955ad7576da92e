// Package geom provides the vector and plane primitives used by the
// polyhedron clipping core. All operations are pure: they take value
// receivers and return new values.
package geom

import "math"

// Epsilon is the tolerance used for every inside/outside/on-plane
// classification in the clipping core. A single fixed tolerance is the
// system's only defense against coplanar degeneracies.
const Epsilon = 1e-10

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns the vector scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean magnitude.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction. A near-zero
// vector (length < Epsilon) normalizes to the zero vector rather than
// producing NaNs that would propagate into downstream geometry.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance returns the Euclidean distance between two points.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Equals reports componentwise equality within Epsilon.
func (v Vec3) Equals(o Vec3) bool {
	return math.Abs(v.X-o.X) <= Epsilon &&
		math.Abs(v.Y-o.Y) <= Epsilon &&
		math.Abs(v.Z-o.Z) <= Epsilon
}

// IsFinite reports whether all components are finite numbers.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
