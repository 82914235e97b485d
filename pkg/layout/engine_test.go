package layout

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// addNode inserts a node with a fixed id and optional parent.
func addNode(t *testing.T, g *mindmap.Graph, id, parent string) mindmap.NodeID {
	t.Helper()
	n := mindmap.Node{ID: mindmap.NodeID(id), Text: id, ParentID: mindmap.NodeID(parent)}
	got, err := g.AddNode(n)
	if err != nil {
		t.Fatalf("AddNode(%s): %v", id, err)
	}
	return got
}

// starGraph builds a root with n children hanging off it.
func starGraph(t *testing.T, n int) *mindmap.Graph {
	t.Helper()
	g := mindmap.NewGraph()
	addNode(t, g, "root", "")
	for i := 0; i < n; i++ {
		addNode(t, g, fmt.Sprintf("child-%02d", i), "root")
	}
	return g
}

// chainGraph builds a linear parent chain of n nodes.
func chainGraph(t *testing.T, n int) *mindmap.Graph {
	t.Helper()
	g := mindmap.NewGraph()
	prev := ""
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("n%02d", i)
		addNode(t, g, id, prev)
		prev = id
	}
	return g
}

func TestNewEngineDispatch(t *testing.T) {
	for _, a := range []Algorithm{AlgorithmRadial, AlgorithmTree, AlgorithmForce} {
		engine, err := NewEngine(a)
		if err != nil {
			t.Fatalf("NewEngine(%s): %v", a, err)
		}
		if engine.Name() != a {
			t.Errorf("NewEngine(%s).Name() = %s", a, engine.Name())
		}
	}

	if _, err := NewEngine("circular"); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("unknown algorithm error = %v, want INVALID_OPERATION", err)
	}
}

func TestComputeEmptyGraph(t *testing.T) {
	for _, a := range []Algorithm{AlgorithmRadial, AlgorithmTree, AlgorithmForce} {
		t.Run(string(a), func(t *testing.T) {
			result, err := Compute(context.Background(), a, mindmap.NewGraph(), DefaultConfig())
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if len(result.Positions) != 0 {
				t.Errorf("positions = %d, want 0", len(result.Positions))
			}
			if !result.Bounds.IsValid() {
				t.Errorf("empty result bounds invalid: %+v", result.Bounds)
			}
		})
	}
}

func TestComputeRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = -1 }},
		{"negative spacing", func(c *Config) { c.NodeSpacing = -5 }},
		{"nan height", func(c *Config) { c.Height = math.NaN() }},
		{"bad orientation", func(c *Config) { c.Tree.Orientation = "diagonal" }},
		{"damping out of range", func(c *Config) { c.Force.Damping = 1.5 }},
		{"negative iterations", func(c *Config) { c.Force.MaxIterations = -1 }},
	}

	g := starGraph(t, 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			for _, a := range []Algorithm{AlgorithmRadial, AlgorithmTree, AlgorithmForce} {
				if _, err := Compute(context.Background(), a, g, cfg); !errors.Is(err, errors.ErrCodeInvalidOperation) {
					t.Errorf("%s: error = %v, want INVALID_OPERATION", a, err)
				}
			}
		})
	}
}

func TestComputeCoversEveryNode(t *testing.T) {
	g := starGraph(t, 5)
	// An extra cross-link must not affect coverage.
	if _, err := g.AddEdge(mindmap.NewEdge("child-00", "child-03")); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	for _, a := range []Algorithm{AlgorithmRadial, AlgorithmTree, AlgorithmForce} {
		t.Run(string(a), func(t *testing.T) {
			result, err := Compute(context.Background(), a, g, DefaultConfig())
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if len(result.Positions) != g.NodeCount() {
				t.Fatalf("positions = %d, want %d", len(result.Positions), g.NodeCount())
			}
			for id, pos := range result.Positions {
				if !pos.IsFinite() {
					t.Errorf("node %s has non-finite position %+v", id, pos)
				}
			}
		})
	}
}

func TestComputeDoesNotMutateGraph(t *testing.T) {
	g := starGraph(t, 3)
	before := g.Snapshot()

	if _, err := Compute(context.Background(), AlgorithmRadial, g, DefaultConfig()); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	after := g.Snapshot()
	for i := range before.Nodes {
		if before.Nodes[i].Position != after.Nodes[i].Position {
			t.Errorf("node %s position changed: %+v -> %+v",
				before.Nodes[i].ID, before.Nodes[i].Position, after.Nodes[i].Position)
		}
	}
}

func TestComputeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := chainGraph(t, 20)
	for _, a := range []Algorithm{AlgorithmRadial, AlgorithmTree, AlgorithmForce} {
		if _, err := Compute(ctx, a, g, DefaultConfig()); err == nil {
			t.Errorf("%s: expected error from cancelled context", a)
		}
	}
}
