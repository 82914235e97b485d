package geometry

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		p, q Point
		want float64
	}{
		{"Same", Point{1, 1}, Point{1, 1}, 0},
		{"Axis", Point{0, 0}, Point{3, 0}, 3},
		{"Pythagorean", Point{0, 0}, Point{3, 4}, 5},
		{"Negative", Point{-1, -1}, Point{2, 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.p, tt.q); math.Abs(got-tt.want) > tol {
				t.Errorf("Distance = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		want  float64
	}{
		{"Zero", 0, 0},
		{"Pi", math.Pi, math.Pi},
		{"FullTurn", 2 * math.Pi, 0},
		{"Negative", -math.Pi / 2, 3 * math.Pi / 2},
		{"ManyTurns", 5*2*math.Pi + 1, 1},
		{"LargeNegative", -7 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAngle(tt.theta)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("NormalizeAngle(%g) = %g, want %g", tt.theta, got, tt.want)
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("NormalizeAngle(%g) = %g outside [0, 2π)", tt.theta, got)
			}
		})
	}
}

func TestPolarRoundTrip(t *testing.T) {
	center := Point{100, 200}
	for _, radius := range []float64{0, 0.5, 1, 42, 1e4} {
		for _, angle := range []float64{0, 1, math.Pi / 3, math.Pi, 5.5} {
			p := PolarToCartesian(radius, angle, center)
			r, a := CartesianToPolar(p, center)

			if math.Abs(r-radius) > 1e-6 {
				t.Errorf("radius %g/angle %g: round-trip radius = %g", radius, angle, r)
			}
			if radius > 0 && math.Abs(a-NormalizeAngle(angle)) > 1e-6 {
				t.Errorf("radius %g/angle %g: round-trip angle = %g", radius, angle, a)
			}
		}
	}
}

func TestCartesianToPolarAtCenter(t *testing.T) {
	r, a := CartesianToPolar(Point{5, 5}, Point{5, 5})
	if r != 0 || a != 0 {
		t.Errorf("coincident point: got (%g, %g), want (0, 0)", r, a)
	}
}

func TestDistributeAngles(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if got := DistributeAngles(0, 1); len(got) != 0 {
			t.Errorf("count 0: got %d angles", len(got))
		}
	})

	t.Run("Single", func(t *testing.T) {
		got := DistributeAngles(1, 1.25)
		if len(got) != 1 || math.Abs(got[0]-1.25) > tol {
			t.Errorf("count 1: got %v, want [1.25]", got)
		}
	})

	t.Run("EvenSpacing", func(t *testing.T) {
		got := DistributeAngles(4, 0.5)
		if len(got) != 4 {
			t.Fatalf("got %d angles, want 4", len(got))
		}
		step := math.Pi / 2
		for i, a := range got {
			want := NormalizeAngle(0.5 + float64(i)*step)
			if math.Abs(a-want) > 1e-6 {
				t.Errorf("angle[%d] = %g, want %g", i, a, want)
			}
		}
	})
}

func TestRadiusForChildren(t *testing.T) {
	const minDist, nodeSize = 50.0, 40.0

	if got := RadiusForChildren(0, minDist, nodeSize); got != minDist {
		t.Errorf("0 children: got %g, want %g", got, minDist)
	}
	if got := RadiusForChildren(1, minDist, nodeSize); got != minDist {
		t.Errorf("1 child: got %g, want %g", got, minDist)
	}

	prev := 0.0
	for n := 2; n <= 50; n++ {
		r := RadiusForChildren(n, minDist, nodeSize)
		if r < minDist {
			t.Errorf("%d children: radius %g below min distance", n, r)
		}
		if r < 2*nodeSize {
			t.Errorf("%d children: radius %g below 2×node size", n, r)
		}
		if r < prev {
			t.Errorf("%d children: radius %g decreased from %g", n, r, prev)
		}
		prev = r
	}
}

func TestBoundsOf(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		b := BoundsOf(nil)
		if !b.IsValid() {
			t.Error("empty bounds should be valid")
		}
		if b.Width() != 0 || b.Height() != 0 {
			t.Errorf("empty bounds not zero-sized: %+v", b)
		}
	})

	t.Run("Points", func(t *testing.T) {
		b := BoundsOf([]Point{{1, 5}, {-3, 2}, {4, -1}})
		want := Bounds{MinX: -3, MinY: -1, MaxX: 4, MaxY: 5}
		if b != want {
			t.Errorf("bounds = %+v, want %+v", b, want)
		}
	})
}

func TestScaleToFit(t *testing.T) {
	target := Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	t.Run("ShrinksOversized", func(t *testing.T) {
		points := []Point{{0, 0}, {400, 200}}
		out := ScaleToFit(points, target)
		b := BoundsOf(out)
		if b.Width() > target.Width()+tol || b.Height() > target.Height()+tol {
			t.Errorf("scaled bounds %+v exceed target", b)
		}
		// Uniform scale keeps the aspect ratio.
		if math.Abs(b.Width()/b.Height()-2) > 1e-6 {
			t.Errorf("aspect ratio changed: %g", b.Width()/b.Height())
		}
	})

	t.Run("NeverScalesUp", func(t *testing.T) {
		points := []Point{{40, 40}, {60, 60}}
		out := ScaleToFit(points, target)
		b := BoundsOf(out)
		if math.Abs(b.Width()-20) > tol {
			t.Errorf("content was scaled up: width %g", b.Width())
		}
	})

	t.Run("Coincident", func(t *testing.T) {
		out := ScaleToFit([]Point{{7, 7}, {7, 7}}, target)
		for _, p := range out {
			if !p.IsFinite() {
				t.Errorf("non-finite output %+v", p)
			}
			if Distance(p, target.Center()) > tol {
				t.Errorf("coincident points not moved to center: %+v", p)
			}
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if out := ScaleToFit(nil, target); out != nil {
			t.Errorf("empty input: got %v", out)
		}
	})

	t.Run("InvertedTarget", func(t *testing.T) {
		points := []Point{{10, 20}, {30, 40}}
		out := ScaleToFit(points, Bounds{MinX: 100, MinY: 0, MaxX: 0, MaxY: 100})
		if len(out) != len(points) {
			t.Fatalf("got %d points, want %d", len(out), len(points))
		}
		// An inverted target leaves the points untouched.
		for i, p := range points {
			if Distance(out[i], p) > tol {
				t.Errorf("point %d moved: %+v -> %+v", i, p, out[i])
			}
		}
	})
}

func TestLerp(t *testing.T) {
	p, q := Point{0, 0}, Point{10, 20}
	if got := Lerp(p, q, 0); got != p {
		t.Errorf("t=0: got %+v", got)
	}
	if got := Lerp(p, q, 1); got != q {
		t.Errorf("t=1: got %+v", got)
	}
	if got := Lerp(p, q, 0.5); got != (Point{5, 10}) {
		t.Errorf("t=0.5: got %+v", got)
	}
}
