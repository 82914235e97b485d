package layout

import (
	"context"
	"time"

	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// treeEngine computes a classic two-pass hierarchical layout.
//
// Pass one walks each tree bottom-up, computing the secondary-axis extent a
// subtree needs: the sum of its children's extents plus sibling spacing, never
// less than one node width. Pass two walks top-down, slotting children
// left-to-right inside the parent's allotted extent and stepping the primary
// axis by the level spacing per depth.
//
// The orientation controls which canvas axis is primary (depth) and the sign
// of travel along it.
type treeEngine struct{}

func (treeEngine) Name() Algorithm { return AlgorithmTree }

func (treeEngine) Compute(ctx context.Context, g *mindmap.Graph, cfg Config) (Result, error) {
	start := time.Now()
	snap, err := validateAndSnapshot(g, &cfg)
	if err != nil {
		return Result{}, err
	}

	result := newResult(len(snap.Nodes))
	children, roots := hierarchyIndex(snap)
	stored := storedPositions(snap)

	// Bottom-up pass: secondary-axis extent per subtree.
	extents := make(map[mindmap.NodeID]float64, len(snap.Nodes))
	var measure func(id mindmap.NodeID) float64
	measure = func(id mindmap.NodeID) float64 {
		kids := children[id]
		if len(kids) == 0 {
			extents[id] = cfg.Tree.NodeWidth
			return extents[id]
		}
		total := float64(len(kids)-1) * cfg.Tree.HorizontalSpacing
		for _, kid := range kids {
			total += measure(kid)
		}
		extents[id] = max(total, cfg.Tree.NodeWidth)
		return extents[id]
	}

	forest := float64(0)
	for i, root := range roots {
		if i > 0 {
			forest += cfg.Tree.HorizontalSpacing
		}
		forest += measure(root)
	}

	// Top-down pass: assign coordinates inside each root's slot, starting the
	// forest centered on the secondary axis.
	placer := newTreePlacer(cfg, result.Positions, children, stored)
	cursor := placer.secondaryOrigin(forest)
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		placer.place(root, cursor, 0, extents)
		cursor += extents[root] + cfg.Tree.HorizontalSpacing
	}

	result.finalize(start)
	return result, nil
}

// treePlacer carries the state of the top-down assignment pass.
type treePlacer struct {
	cfg      Config
	out      map[mindmap.NodeID]geometry.Point
	children map[mindmap.NodeID][]mindmap.NodeID
	stored   map[mindmap.NodeID]geometry.Point
}

func newTreePlacer(cfg Config, out map[mindmap.NodeID]geometry.Point, children map[mindmap.NodeID][]mindmap.NodeID, stored map[mindmap.NodeID]geometry.Point) *treePlacer {
	return &treePlacer{cfg: cfg, out: out, children: children, stored: stored}
}

// place assigns node's position given the start of its secondary-axis slot
// and its depth, then recurses into its children.
func (p *treePlacer) place(id mindmap.NodeID, slotStart float64, depth int, extents map[mindmap.NodeID]float64) {
	kids := p.children[id]

	var secondary float64
	switch {
	case len(kids) == 0:
		// Leaves sit centered in their own slot.
		secondary = slotStart + extents[id]/2
	default:
		// Place children first; the parent derives from them.
		cursor := slotStart
		sum := float64(0)
		for _, kid := range kids {
			p.place(kid, cursor, depth+1, extents)
			sum += p.secondaryOf(kid)
			cursor += extents[kid] + p.cfg.Tree.HorizontalSpacing
		}
		if p.cfg.Tree.BalanceSubtrees {
			secondary = sum / float64(len(kids))
		} else {
			secondary = p.secondaryOf(kids[0])
		}
	}

	pos := p.compose(secondary, depth)
	if p.cfg.PreservePositions {
		if stored, ok := p.stored[id]; ok {
			pos = stored
		}
	}
	p.out[id] = pos
}

// secondaryOf reads back the secondary coordinate of an already-placed node.
func (p *treePlacer) secondaryOf(id mindmap.NodeID) float64 {
	pos := p.out[id]
	switch p.cfg.Tree.Orientation {
	case OrientationLeftRight, OrientationRightLeft:
		return pos.Y
	default:
		return pos.X
	}
}

// secondaryOrigin returns the secondary-axis coordinate at which a forest of
// the given total extent starts, centered on the canvas.
func (p *treePlacer) secondaryOrigin(totalExtent float64) float64 {
	switch p.cfg.Tree.Orientation {
	case OrientationLeftRight, OrientationRightLeft:
		return p.cfg.Center.Y - totalExtent/2
	default:
		return p.cfg.Center.X - totalExtent/2
	}
}

// compose builds a point from a secondary coordinate and a depth, applying
// the orientation's primary axis and sign.
func (p *treePlacer) compose(secondary float64, depth int) geometry.Point {
	primary := float64(depth) * p.cfg.Tree.VerticalSpacing
	switch p.cfg.Tree.Orientation {
	case OrientationBottomUp:
		return geometry.Point{X: secondary, Y: p.cfg.Center.Y - primary}
	case OrientationLeftRight:
		return geometry.Point{X: p.cfg.Margin + primary, Y: secondary}
	case OrientationRightLeft:
		return geometry.Point{X: p.cfg.Width - p.cfg.Margin - primary, Y: secondary}
	default: // top-down
		return geometry.Point{X: secondary, Y: p.cfg.Margin + primary}
	}
}
