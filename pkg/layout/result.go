package layout

import (
	"time"

	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Result is a layout engine's position proposal. It never aliases graph
// state: the caller decides whether to apply it via
// [mindmap.Graph.ApplyPositions].
type Result struct {
	// Positions maps each positioned node to its proposed location.
	Positions map[mindmap.NodeID]geometry.Point

	// Bounds is the axis-aligned rectangle enclosing all positions.
	// Empty results carry a valid zero-sized bounds.
	Bounds geometry.Bounds

	// Duration is the wall-clock computation time.
	Duration time.Duration

	// Iterations, Energy, and Converged are populated by the force engine
	// only: the number of simulation steps run, the final total kinetic
	// energy, and whether the energy fell below the convergence threshold
	// before the iteration ceiling.
	Iterations int
	Energy     float64
	Converged  bool
}

// newResult creates a result with an allocated position map.
func newResult(capacity int) Result {
	return Result{Positions: make(map[mindmap.NodeID]geometry.Point, capacity)}
}

// finalize computes the bounds from the accumulated positions and records the
// elapsed time.
func (r *Result) finalize(start time.Time) {
	points := make([]geometry.Point, 0, len(r.Positions))
	for _, p := range r.Positions {
		points = append(points, p)
	}
	r.Bounds = geometry.BoundsOf(points)
	r.Duration = time.Since(start)
}
