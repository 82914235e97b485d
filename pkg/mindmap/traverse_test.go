package mindmap

import (
	"testing"
)

// buildComponentGraph creates two disconnected components:
// a-b, a-c, c-d (component 1) and x-y (component 2).
func buildComponentGraph(t *testing.T) (g *Graph, a, b, c, d, x, y NodeID) {
	t.Helper()
	g = NewGraph()
	a = mustAdd(t, g, NewNode("a"))
	b = mustAdd(t, g, NewNode("b"))
	c = mustAdd(t, g, NewNode("c"))
	d = mustAdd(t, g, NewNode("d"))
	x = mustAdd(t, g, NewNode("x"))
	y = mustAdd(t, g, NewNode("y"))
	mustLink(t, g, a, b)
	mustLink(t, g, a, c)
	mustLink(t, g, c, d)
	mustLink(t, g, x, y)
	return
}

func TestTraverseMissingStart(t *testing.T) {
	g := NewGraph()
	if _, err := g.Traverse("ghost", BreadthFirst); err == nil {
		t.Error("expected error for absent start node")
	}
}

func TestTraverseVisitsComponentOnly(t *testing.T) {
	for _, order := range []TraversalOrder{DepthFirst, BreadthFirst} {
		t.Run(order.String(), func(t *testing.T) {
			g, a, b, c, d, x, y := buildComponentGraph(t)

			tr, err := g.Traverse(a, order)
			if err != nil {
				t.Fatalf("Traverse: %v", err)
			}

			if len(tr.Order) != 4 {
				t.Fatalf("visited %d nodes, want 4: %v", len(tr.Order), tr.Order)
			}
			visited := make(map[NodeID]bool)
			for _, id := range tr.Order {
				visited[id] = true
			}
			for _, id := range []NodeID{a, b, c, d} {
				if !visited[id] {
					t.Errorf("component node %s not visited", id)
				}
			}
			for _, id := range []NodeID{x, y} {
				if visited[id] {
					t.Errorf("disconnected node %s visited", id)
				}
			}
		})
	}
}

func TestTraverseDepths(t *testing.T) {
	for _, order := range []TraversalOrder{DepthFirst, BreadthFirst} {
		t.Run(order.String(), func(t *testing.T) {
			g, a, _, _, _, _, _ := buildComponentGraph(t)

			tr, err := g.Traverse(a, order)
			if err != nil {
				t.Fatalf("Traverse: %v", err)
			}

			if tr.Order[0] != a {
				t.Errorf("first visited = %s, want start %s", tr.Order[0], a)
			}
			if tr.Depth[a] != 0 {
				t.Errorf("start depth = %d, want 0", tr.Depth[a])
			}

			// Depth strictly increases along every traversal-parent chain.
			for child, parent := range tr.Parent {
				if tr.Depth[child] != tr.Depth[parent]+1 {
					t.Errorf("depth(%s) = %d, parent %s depth = %d",
						child, tr.Depth[child], parent, tr.Depth[parent])
				}
			}
			// Every visited node except the start has a traversal parent.
			for _, id := range tr.Order[1:] {
				if _, ok := tr.Parent[id]; !ok {
					t.Errorf("node %s has no traversal parent", id)
				}
			}
		})
	}
}

func TestTraverseBFSRingOrder(t *testing.T) {
	g, a, _, _, d, _, _ := buildComponentGraph(t)

	tr, err := g.Traverse(a, BreadthFirst)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	// BFS visits all depth-1 nodes before any depth-2 node.
	lastDepth := 0
	for _, id := range tr.Order {
		if tr.Depth[id] < lastDepth {
			t.Fatalf("BFS order regressed in depth at %s: %v", id, tr.Order)
		}
		lastDepth = tr.Depth[id]
	}
	if tr.Depth[d] != 2 {
		t.Errorf("depth(d) = %d, want 2", tr.Depth[d])
	}
}

func TestTraverseDeterministic(t *testing.T) {
	g, a, _, _, _, _, _ := buildComponentGraph(t)

	first, err := g.Traverse(a, DepthFirst)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Traverse(a, DepthFirst)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Order) != len(second.Order) {
		t.Fatal("traversal lengths differ")
	}
	for i := range first.Order {
		if first.Order[i] != second.Order[i] {
			t.Fatalf("traversal order differs at %d: %v vs %v", i, first.Order, second.Order)
		}
	}
}

func TestTraverseIgnoresEdgeDirection(t *testing.T) {
	g := NewGraph()
	a := mustAdd(t, g, NewNode("a"))
	b := mustAdd(t, g, NewNode("b"))
	// Edge points b -> a; traversal from a must still reach b.
	mustLink(t, g, b, a)

	tr, err := g.Traverse(a, BreadthFirst)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Order) != 2 {
		t.Errorf("visited %d nodes, want 2", len(tr.Order))
	}
}
