package mindmap

import (
	"slices"

	"github.com/mindgrid/mindgrid/pkg/errors"
)

// TraversalOrder selects the visitation policy for [Graph.Traverse].
type TraversalOrder int

const (
	// DepthFirst visits a node's entire subtree of the traversal before its
	// later siblings.
	DepthFirst TraversalOrder = iota
	// BreadthFirst visits nodes in rings of increasing hop distance.
	BreadthFirst
)

// String returns the order's name for logs and errors.
func (o TraversalOrder) String() string {
	switch o {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	default:
		return "unknown"
	}
}

// Traversal is the result of walking the connected component reachable from a
// start node over undirected adjacency.
type Traversal struct {
	// Order lists nodes in the order they were visited; the start node first.
	Order []NodeID
	// Depth maps each visited node to its hop distance in the traversal tree.
	// The start node has depth 0; depth increases by one per edge hop.
	Depth map[NodeID]int
	// Parent maps each visited node (except the start) to the node it was
	// discovered from.
	Parent map[NodeID]NodeID
}

// HasPath reports whether b is reachable from a over the undirected neighbor
// graph, ignoring edge direction. It is reflexive (HasPath(x, x) is true for
// any existing x) and symmetric. Returns false if either node is absent.
func (g *Graph) HasPath(a, b NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[a]; !ok {
		return false
	}
	if _, ok := g.nodes[b]; !ok {
		return false
	}
	if a == b {
		return true
	}

	visited := map[NodeID]struct{}{a: {}}
	queue := []NodeID{a}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, n := range g.neighborsLocked(curr) {
			if n == b {
				return true
			}
			if _, seen := visited[n]; !seen {
				visited[n] = struct{}{}
				queue = append(queue, n)
			}
		}
	}
	return false
}

// Traverse walks the connected component reachable from start via undirected
// adjacency, in the given order, producing the visited sequence plus depth and
// traversal-parent maps. Disconnected components are not visited. Neighbor
// expansion is in sorted id order, so the traversal is deterministic.
//
// Fails with NODE_NOT_FOUND if start is absent.
func (g *Graph) Traverse(start NodeID, order TraversalOrder) (*Traversal, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[start]; !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", start)
	}

	t := &Traversal{
		Depth:  map[NodeID]int{start: 0},
		Parent: make(map[NodeID]NodeID),
	}

	switch order {
	case BreadthFirst:
		g.traverseBFSLocked(start, t)
	default:
		g.traverseDFSLocked(start, t)
	}
	return t, nil
}

func (g *Graph) traverseBFSLocked(start NodeID, t *Traversal) {
	visited := map[NodeID]struct{}{start: {}}
	queue := []NodeID{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		t.Order = append(t.Order, curr)

		for _, n := range g.neighborsLocked(curr) {
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			t.Depth[n] = t.Depth[curr] + 1
			t.Parent[n] = curr
			queue = append(queue, n)
		}
	}
}

func (g *Graph) traverseDFSLocked(start NodeID, t *Traversal) {
	visited := make(map[NodeID]struct{})
	stack := []NodeID{start}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[curr]; seen {
			continue
		}
		visited[curr] = struct{}{}
		t.Order = append(t.Order, curr)

		// Push in reverse so the smallest id is expanded first.
		neighbors := g.neighborsLocked(curr)
		slices.Reverse(neighbors)
		for _, n := range neighbors {
			if _, seen := visited[n]; seen {
				continue
			}
			if _, discovered := t.Depth[n]; !discovered {
				t.Depth[n] = t.Depth[curr] + 1
				t.Parent[n] = curr
			}
			stack = append(stack, n)
		}
	}
}
