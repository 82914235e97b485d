package geometry

import "math"

const twoPi = 2 * math.Pi

// NormalizeAngle maps any angle (in radians) into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, twoPi)
	if theta < 0 {
		theta += twoPi
	}
	return theta
}

// PolarToCartesian converts a (radius, angle) pair relative to center into a
// cartesian point. The angle is measured counter-clockwise from the positive
// x-axis.
func PolarToCartesian(radius, angle float64, center Point) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// CartesianToPolar converts a point to (radius, angle) relative to center.
// The returned angle is normalized into [0, 2π). A point coincident with
// center yields radius 0 and angle 0.
//
// This is the exact inverse of PolarToCartesian: the round trip reproduces
// the input to within floating-point tolerance for any radius >= 0.
func CartesianToPolar(p, center Point) (radius, angle float64) {
	dx := p.X - center.X
	dy := p.Y - center.Y
	radius = math.Hypot(dx, dy)
	if radius == 0 {
		return 0, 0
	}
	return radius, NormalizeAngle(math.Atan2(dy, dx))
}

// DistributeAngles returns count angles evenly spaced by 2π/count starting at
// startAngle. The start angle itself is the first entry, so a single child sits
// exactly at startAngle. Returns an empty slice for count <= 0.
func DistributeAngles(count int, startAngle float64) []float64 {
	if count <= 0 {
		return nil
	}
	angles := make([]float64, count)
	step := twoPi / float64(count)
	for i := range angles {
		angles[i] = NormalizeAngle(startAngle + float64(i)*step)
	}
	return angles
}

// RadiusForChildren returns the ring radius needed to place childCount
// children around a parent without crowding. The result is never below
// minDistance, never below twice nodeSize, and is non-decreasing in
// childCount. For one child or fewer, minDistance is returned unchanged.
func RadiusForChildren(childCount int, minDistance, nodeSize float64) float64 {
	if childCount <= 1 {
		return minDistance
	}
	// Spread children along the circumference with nodeSize gaps between them.
	required := float64(childCount) * nodeSize / math.Pi
	return max(minDistance, 2*nodeSize, required)
}
