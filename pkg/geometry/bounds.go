package geometry

// Bounds is the axis-aligned rectangle enclosing a set of positions.
type Bounds struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// BoundsOf computes the min/max extents over both axes of points.
// An empty input yields a degenerate zero-sized bounds at the origin,
// which is still valid.
func BoundsOf(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: points[0].X, MinY: points[0].Y,
		MaxX: points[0].X, MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// IsValid reports whether the bounds are well-formed (max >= min on both axes).
func (b Bounds) IsValid() bool {
	return b.MaxX >= b.MinX && b.MaxY >= b.MinY
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// ScaleToFit uniformly rescales points (preserving aspect ratio) so the
// transformed set fits within target, re-centered on the target's midpoint.
// Content that already fits is never scaled up. Empty, singleton, and
// fully-coincident point sets are translated to the target center without
// scaling. An inverted target (max below min on either axis) has no meaningful
// midpoint, so the points are returned as an unchanged copy.
func ScaleToFit(points []Point, target Bounds) []Point {
	if len(points) == 0 {
		return nil
	}
	if !target.IsValid() {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	src := BoundsOf(points)
	scale := 1.0
	if src.Width() > 0 && src.Width() > target.Width() {
		scale = min(scale, target.Width()/src.Width())
	}
	if src.Height() > 0 && src.Height() > target.Height() {
		scale = min(scale, target.Height()/src.Height())
	}

	srcCenter := src.Center()
	dstCenter := target.Center()

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = dstCenter.Add(p.Sub(srcCenter).Scale(scale))
	}
	return out
}
