package layout

import (
	"context"
	"time"

	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// radialEngine places roots at the canvas center and each deeper hierarchy
// level on a concentric ring. A node's children spread evenly around the full
// circle, offset by the parent's own angle so sibling fans do not all cluster
// along one side.
//
// The engine is a deterministic, pure function of graph structure and config.
type radialEngine struct{}

func (radialEngine) Name() Algorithm { return AlgorithmRadial }

func (radialEngine) Compute(ctx context.Context, g *mindmap.Graph, cfg Config) (Result, error) {
	start := time.Now()
	snap, err := validateAndSnapshot(g, &cfg)
	if err != nil {
		return Result{}, err
	}

	result := newResult(len(snap.Nodes))
	children, roots := hierarchyIndex(snap)
	stored := storedPositions(snap)

	type item struct {
		id    mindmap.NodeID
		depth int
		angle float64
	}

	queue := make([]item, 0, len(snap.Nodes))
	for _, root := range roots {
		result.Positions[root] = cfg.Center
		queue = append(queue, item{id: root, depth: 0, angle: cfg.Radial.StartAngle})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		curr := queue[0]
		queue = queue[1:]

		kids := children[curr.id]
		if len(kids) == 0 {
			continue
		}

		depth := curr.depth + 1
		radius := ringRadius(depth, cfg.Radial)
		angles := geometry.DistributeAngles(len(kids), curr.angle)
		for i, childID := range kids {
			pos := geometry.PolarToCartesian(radius, angles[i], cfg.Center)
			if cfg.PreservePositions {
				if p, ok := stored[childID]; ok {
					pos = p
				}
			}
			result.Positions[childID] = pos
			queue = append(queue, item{id: childID, depth: depth, angle: angles[i]})
		}
	}

	result.finalize(start)
	return result, nil
}

// ringRadius returns the ring radius for a hierarchy depth: the base radius
// plus one increment per level. Depths beyond the configured maximum are
// clamped to the outermost computed ring so deep nodes are still positioned.
func ringRadius(depth int, cfg RadialConfig) float64 {
	if cfg.MaxDepth > 0 && depth > cfg.MaxDepth {
		depth = cfg.MaxDepth
	}
	return cfg.BaseRadius + float64(depth)*cfg.RadiusIncrement
}

// storedPositions collects the non-zero positions already present on the
// snapshot's nodes, for PreservePositions mode.
func storedPositions(snap mindmap.Snapshot) map[mindmap.NodeID]geometry.Point {
	stored := make(map[mindmap.NodeID]geometry.Point)
	for _, n := range snap.Nodes {
		if !n.Position.IsZero() {
			stored[n.ID] = n.Position
		}
	}
	return stored
}
