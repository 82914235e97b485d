package layout

import (
	"context"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Algorithm names a layout engine.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmRadial Algorithm = "radial"
	AlgorithmTree   Algorithm = "tree"
	AlgorithmForce  Algorithm = "force"
)

// ValidAlgorithms is the set of supported layout algorithms.
var ValidAlgorithms = map[Algorithm]bool{
	AlgorithmRadial: true,
	AlgorithmTree:   true,
	AlgorithmForce:  true,
}

// ValidateAlgorithm checks that an algorithm name is supported.
func ValidateAlgorithm(a Algorithm) error {
	if !ValidAlgorithms[a] {
		return errors.New(errors.ErrCodeInvalidOperation, "unknown layout algorithm %q (must be one of: radial, tree, force)", a)
	}
	return nil
}

// Engine computes positions for a graph. Implementations are stateless and
// safe for concurrent use; Compute reads the graph through a snapshot and
// never mutates it.
type Engine interface {
	// Name returns the engine's algorithm identifier.
	Name() Algorithm
	// Compute produces a position proposal for g under cfg.
	// The configuration is validated before any computation begins.
	Compute(ctx context.Context, g *mindmap.Graph, cfg Config) (Result, error)
}

// NewEngine returns the engine for the given algorithm.
func NewEngine(a Algorithm) (Engine, error) {
	switch a {
	case AlgorithmRadial:
		return radialEngine{}, nil
	case AlgorithmTree:
		return treeEngine{}, nil
	case AlgorithmForce:
		return forceEngine{}, nil
	default:
		return nil, ValidateAlgorithm(a)
	}
}

// Compute is the layout coordinator: it dispatches to the engine named by a
// and runs it. This is the single selection point for all callers.
func Compute(ctx context.Context, a Algorithm, g *mindmap.Graph, cfg Config) (Result, error) {
	engine, err := NewEngine(a)
	if err != nil {
		return Result{}, err
	}
	return engine.Compute(ctx, g, cfg)
}

// validateAndSnapshot performs the shared engine preamble: config validation
// followed by a consistent graph read.
func validateAndSnapshot(g *mindmap.Graph, cfg *Config) (mindmap.Snapshot, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return mindmap.Snapshot{}, err
	}
	return g.Snapshot(), nil
}

// hierarchyIndex builds children-by-parent and root lists from a snapshot's
// ParentID pointers. Snapshot order is already sorted by id, so the derived
// lists are deterministic.
func hierarchyIndex(snap mindmap.Snapshot) (children map[mindmap.NodeID][]mindmap.NodeID, roots []mindmap.NodeID) {
	children = make(map[mindmap.NodeID][]mindmap.NodeID)
	present := make(map[mindmap.NodeID]bool, len(snap.Nodes))
	for _, n := range snap.Nodes {
		present[n.ID] = true
	}
	for _, n := range snap.Nodes {
		if n.ParentID != "" && present[n.ParentID] {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		} else {
			roots = append(roots, n.ID)
		}
	}
	return children, roots
}
