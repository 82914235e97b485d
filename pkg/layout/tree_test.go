package layout

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

func TestTreeChainStepsByLevelSpacing(t *testing.T) {
	g := chainGraph(t, 10)
	cfg := DefaultConfig()

	result, err := Compute(context.Background(), AlgorithmTree, g, cfg)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for i := 1; i < 10; i++ {
		parent := result.Positions[mindmap.NodeID(fmt.Sprintf("n%02d", i-1))]
		child := result.Positions[mindmap.NodeID(fmt.Sprintf("n%02d", i))]
		step := child.Y - parent.Y
		if math.Abs(step-cfg.Tree.VerticalSpacing) > 1e-6 {
			t.Errorf("level %d: step %.3f, want %.3f", i, step, cfg.Tree.VerticalSpacing)
		}
	}
}

func TestTreeSiblingsKeepSpacing(t *testing.T) {
	g := starGraph(t, 5)
	cfg := DefaultConfig()

	result, err := Compute(context.Background(), AlgorithmTree, g, cfg)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for i := 1; i < 5; i++ {
		prev := result.Positions[mindmap.NodeID(fmt.Sprintf("child-%02d", i-1))]
		curr := result.Positions[mindmap.NodeID(fmt.Sprintf("child-%02d", i))]
		gap := curr.X - prev.X
		if gap < cfg.Tree.HorizontalSpacing-1e-6 {
			t.Errorf("sibling gap %d = %.3f, want >= %.3f", i, gap, cfg.Tree.HorizontalSpacing)
		}
		if prev.Y != curr.Y {
			t.Errorf("siblings at different depths: %.3f vs %.3f", prev.Y, curr.Y)
		}
	}
}

func TestTreeOrientations(t *testing.T) {
	g := chainGraph(t, 3)

	tests := []struct {
		orientation Orientation
		// deeper reports whether child is farther along the growth
		// direction than parent.
		deeper func(parent, child mindmap.Position) bool
	}{
		{OrientationTopDown, func(p, c mindmap.Position) bool { return c.Y > p.Y }},
		{OrientationBottomUp, func(p, c mindmap.Position) bool { return c.Y < p.Y }},
		{OrientationLeftRight, func(p, c mindmap.Position) bool { return c.X > p.X }},
		{OrientationRightLeft, func(p, c mindmap.Position) bool { return c.X < p.X }},
	}

	for _, tt := range tests {
		t.Run(string(tt.orientation), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Tree.Orientation = tt.orientation

			result, err := Compute(context.Background(), AlgorithmTree, g, cfg)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}

			for i := 1; i < 3; i++ {
				parent := result.Positions[mindmap.NodeID(fmt.Sprintf("n%02d", i-1))]
				child := result.Positions[mindmap.NodeID(fmt.Sprintf("n%02d", i))]
				if !tt.deeper(parent, child) {
					t.Errorf("level %d: child %+v not past parent %+v", i, child, parent)
				}
			}
		})
	}
}

func TestTreeBalancedParentCentersOnChildren(t *testing.T) {
	g := starGraph(t, 3)
	cfg := DefaultConfig()
	cfg.Tree.BalanceSubtrees = true

	result, err := Compute(context.Background(), AlgorithmTree, g, cfg)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	mean := float64(0)
	for i := 0; i < 3; i++ {
		mean += result.Positions[mindmap.NodeID(fmt.Sprintf("child-%02d", i))].X
	}
	mean /= 3

	if got := result.Positions["root"].X; math.Abs(got-mean) > 1e-6 {
		t.Errorf("balanced root at x=%.3f, want mean %.3f", got, mean)
	}
}

func TestTreeSubtreesDoNotOverlap(t *testing.T) {
	// Two wide subtrees under one root; their leaves must not interleave.
	g := mindmap.NewGraph()
	addNode(t, g, "root", "")
	addNode(t, g, "a", "root")
	addNode(t, g, "b", "root")
	for i := 0; i < 3; i++ {
		addNode(t, g, fmt.Sprintf("a-%d", i), "a")
		addNode(t, g, fmt.Sprintf("b-%d", i), "b")
	}

	cfg := DefaultConfig()
	result, err := Compute(context.Background(), AlgorithmTree, g, cfg)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	maxA := math.Inf(-1)
	minB := math.Inf(1)
	for i := 0; i < 3; i++ {
		maxA = math.Max(maxA, result.Positions[mindmap.NodeID(fmt.Sprintf("a-%d", i))].X)
		minB = math.Min(minB, result.Positions[mindmap.NodeID(fmt.Sprintf("b-%d", i))].X)
	}

	if minB-maxA < cfg.Tree.HorizontalSpacing-1e-6 {
		t.Errorf("subtrees overlap: max(a)=%.3f, min(b)=%.3f", maxA, minB)
	}
}

func TestTreeMultipleRootsSideBySide(t *testing.T) {
	g := mindmap.NewGraph()
	addNode(t, g, "r1", "")
	addNode(t, g, "r2", "")

	cfg := DefaultConfig()
	result, err := Compute(context.Background(), AlgorithmTree, g, cfg)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	p1, p2 := result.Positions["r1"], result.Positions["r2"]
	if p1.Y != p2.Y {
		t.Errorf("roots at different depths: %.3f vs %.3f", p1.Y, p2.Y)
	}
	if math.Abs(p2.X-p1.X) < cfg.Tree.HorizontalSpacing {
		t.Errorf("roots too close: %.3f apart", math.Abs(p2.X-p1.X))
	}
}
