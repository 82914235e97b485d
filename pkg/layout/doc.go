// Package layout computes 2-D positions for mindmap graphs.
//
// Three interchangeable engines consume a graph snapshot and a [Config] and
// produce a [Result] (positions, bounds, diagnostics) without ever mutating
// the graph:
//
//   - radial: roots at the canvas center, descendants on concentric rings
//   - tree: classic two-pass hierarchical layout with four orientations
//   - force: iterative force-directed simulation with convergence detection
//
// Select an engine through the [Algorithm] constants and the package-level
// [Compute] dispatch, or construct one with [NewEngine]:
//
//	result, err := layout.Compute(ctx, layout.AlgorithmRadial, g, layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	g.ApplyPositions(result.Positions)
//
// All engines validate the configuration before any computation and accept a
// context; the force engine checks cancellation at the top of each iteration,
// so a runaway simulation can always be stopped.
package layout
