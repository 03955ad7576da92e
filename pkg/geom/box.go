package geom

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Expand returns the box grown by pad on all six sides.
func (b Box) Expand(pad float64) Box {
	d := Vec3{X: pad, Y: pad, Z: pad}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Size returns the edge lengths of the box.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the box volume. Degenerate boxes have zero or negative
// extent on some axis and report a non-positive volume.
func (b Box) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Contains reports whether p lies inside or on the boundary of the box.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IsDegenerate reports whether the box has no positive extent on some axis.
func (b Box) IsDegenerate() bool {
	s := b.Size()
	return s.X <= 0 || s.Y <= 0 || s.Z <= 0
}
