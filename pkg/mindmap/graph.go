package mindmap

import (
	"slices"
	"sync"
	"time"

	"github.com/mindgrid/mindgrid/pkg/errors"
)

// Graph is the indexed node/edge store. It owns its nodes and edges and keeps
// three derived indices consistent under mutation: outgoing edges by node,
// incoming edges by node, and children by parent (built from ParentID
// pointers, not from edges).
//
// The zero value is not usable - use NewGraph.
type Graph struct {
	mu sync.RWMutex

	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	outgoing map[NodeID][]EdgeID // node -> edges with From == node
	incoming map[NodeID][]EdgeID // node -> edges with To == node
	children map[NodeID][]NodeID // parent -> child node ids
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[NodeID]*Node),
		edges:    make(map[EdgeID]*Edge),
		outgoing: make(map[NodeID][]EdgeID),
		incoming: make(map[NodeID][]EdgeID),
		children: make(map[NodeID][]NodeID),
	}
}

// =============================================================================
// Node Mutations
// =============================================================================

// AddNode inserts a node and updates the children-by-parent index, returning
// the node's id. A node with an empty ID is assigned a fresh one; zero
// timestamps are filled in.
//
// Fails with DUPLICATE_ID if the id is already present, or NODE_NOT_FOUND if
// the node's ParentID is set but absent from the graph. The graph is left
// unchanged on failure.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n.ID == "" {
		n.ID = NewNodeID()
	}
	if _, exists := g.nodes[n.ID]; exists {
		return "", errors.New(errors.ErrCodeDuplicateID, "node %s already exists", n.ID)
	}
	if n.ParentID != "" {
		if _, ok := g.nodes[n.ParentID]; !ok {
			return "", errors.New(errors.ErrCodeNodeNotFound, "parent node %s not found", n.ParentID)
		}
	}

	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}

	node := &n
	g.nodes[node.ID] = node
	if node.ParentID != "" {
		g.children[node.ParentID] = append(g.children[node.ParentID], node.ID)
	}
	return node.ID, nil
}

// UpdateNode replaces the stored node with the same ID. The hierarchy index is
// re-built for the node if its ParentID changed; a new ParentID must reference
// an existing node and must not be the node itself or one of its descendants,
// since that would detach the subtree from every root.
//
// Fails with NODE_NOT_FOUND if the id is absent (or the new parent is
// missing), or INVALID_OPERATION if the re-parent would create a cycle.
func (g *Graph) UpdateNode(n Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	old, ok := g.nodes[n.ID]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", n.ID)
	}
	if n.ParentID != "" && n.ParentID != old.ParentID {
		if _, ok := g.nodes[n.ParentID]; !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "parent node %s not found", n.ParentID)
		}
		// Walk the ancestor chain of the new parent. Hitting the node
		// itself means the parent is in its subtree. The step bound keeps
		// the walk finite even on an already-corrupt hierarchy.
		anc := n.ParentID
		for steps := len(g.nodes); anc != "" && steps > 0; steps-- {
			if anc == n.ID {
				return errors.New(errors.ErrCodeInvalidOperation, "cannot move node %s under its own descendant %s", n.ID, n.ParentID)
			}
			p, ok := g.nodes[anc]
			if !ok {
				break
			}
			anc = p.ParentID
		}
	}

	if n.ParentID != old.ParentID {
		g.detachChildLocked(old.ParentID, n.ID)
		if n.ParentID != "" {
			g.children[n.ParentID] = append(g.children[n.ParentID], n.ID)
		}
	}

	if n.CreatedAt.IsZero() {
		n.CreatedAt = old.CreatedAt
	}
	n.UpdatedAt = time.Now().UTC()
	g.nodes[n.ID] = &n
	return nil
}

// SetPosition updates a single node's position in place.
// Fails with NODE_NOT_FOUND if the id is absent.
func (g *Graph) SetPosition(id NodeID, pos Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
	}
	node.Position = pos
	node.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyPositions writes a layout's position proposal back into the graph.
// Ids not present in the graph are skipped; this lets a caller apply a result
// computed from an older snapshot after nodes were removed.
func (g *Graph) ApplyPositions(positions map[NodeID]Position) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	for id, pos := range positions {
		if node, ok := g.nodes[id]; ok {
			node.Position = pos
			node.UpdatedAt = now
		}
	}
}

// RemoveNode removes the node and every edge incident to it, keeping all
// adjacency indices consistent, and returns the removed node. Children of the
// removed node are detached to root: their ParentID is cleared rather than
// left dangling.
//
// Fails with NODE_NOT_FOUND if the id is absent; the graph is unchanged then.
func (g *Graph) RemoveNode(id NodeID) (Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return Node{}, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
	}

	// Incident edges, from both directions, deduplicated (self-loops appear in
	// both indices).
	incident := make(map[EdgeID]struct{}, len(g.outgoing[id])+len(g.incoming[id]))
	for _, eid := range g.outgoing[id] {
		incident[eid] = struct{}{}
	}
	for _, eid := range g.incoming[id] {
		incident[eid] = struct{}{}
	}
	for eid := range incident {
		g.removeEdgeLocked(eid)
	}

	// Detach children to root.
	for _, childID := range g.children[id] {
		if child, ok := g.nodes[childID]; ok {
			child.ParentID = ""
		}
	}
	delete(g.children, id)

	// Unlink from the former parent's child list.
	if node.ParentID != "" {
		g.detachChildLocked(node.ParentID, id)
	}

	removed := *node
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	return removed, nil
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[NodeID]*Node)
	g.edges = make(map[EdgeID]*Edge)
	g.outgoing = make(map[NodeID][]EdgeID)
	g.incoming = make(map[NodeID][]EdgeID)
	g.children = make(map[NodeID][]NodeID)
}

// =============================================================================
// Edge Mutations
// =============================================================================

// AddEdge inserts an edge between two existing nodes and returns its id.
// An edge with an empty ID is assigned a fresh one.
//
// Fails with NODE_NOT_FOUND naming whichever endpoint is missing, or
// DUPLICATE_ID if the edge id is already present. No partial mutation on
// failure.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e.ID == "" {
		e.ID = NewEdgeID()
	}
	if _, exists := g.edges[e.ID]; exists {
		return "", errors.New(errors.ErrCodeDuplicateID, "edge %s already exists", e.ID)
	}
	if _, ok := g.nodes[e.From]; !ok {
		return "", errors.New(errors.ErrCodeNodeNotFound, "node %s not found", e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return "", errors.New(errors.ErrCodeNodeNotFound, "node %s not found", e.To)
	}

	edge := &e
	g.edges[edge.ID] = edge
	g.outgoing[edge.From] = append(g.outgoing[edge.From], edge.ID)
	g.incoming[edge.To] = append(g.incoming[edge.To], edge.ID)
	return edge.ID, nil
}

// RemoveEdge removes the edge and returns it.
// Fails with EDGE_NOT_FOUND if the id is absent.
func (g *Graph) RemoveEdge(id EdgeID) (Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	edge, ok := g.edges[id]
	if !ok {
		return Edge{}, errors.New(errors.ErrCodeEdgeNotFound, "edge %s not found", id)
	}
	removed := *edge
	g.removeEdgeLocked(id)
	return removed, nil
}

// removeEdgeLocked deletes an edge from the edge map and both adjacency
// indices. Caller holds the write lock.
func (g *Graph) removeEdgeLocked(id EdgeID) {
	edge, ok := g.edges[id]
	if !ok {
		return
	}
	g.outgoing[edge.From] = slices.DeleteFunc(g.outgoing[edge.From], func(e EdgeID) bool { return e == id })
	g.incoming[edge.To] = slices.DeleteFunc(g.incoming[edge.To], func(e EdgeID) bool { return e == id })
	delete(g.edges, id)
}

// detachChildLocked removes childID from parentID's child list.
// Caller holds the write lock.
func (g *Graph) detachChildLocked(parentID, childID NodeID) {
	if parentID == "" {
		return
	}
	g.children[parentID] = slices.DeleteFunc(g.children[parentID], func(c NodeID) bool { return c == childID })
	if len(g.children[parentID]) == 0 {
		delete(g.children, parentID)
	}
}

// =============================================================================
// Queries
// =============================================================================

// Node returns a copy of the node with the given id, and whether it exists.
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// Contains reports whether a node with the given id exists.
func (g *Graph) Contains(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.nodes[id]
	return ok
}

// Edge returns a copy of the edge with the given id, and whether it exists.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edge, ok := g.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *edge, true
}

// Children returns the ids of nodes whose ParentID equals parentID, sorted
// for deterministic iteration. Derived purely from the hierarchy index.
func (g *Graph) Children(parentID NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := slices.Clone(g.children[parentID])
	slices.Sort(ids)
	return ids
}

// Parent returns the ParentID of the given node and whether the node exists
// and has a parent.
func (g *Graph) Parent(childID NodeID) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[childID]
	if !ok || node.ParentID == "" {
		return "", false
	}
	return node.ParentID, true
}

// RootNodes returns the ids of all nodes with no parent, sorted.
func (g *Graph) RootNodes() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var roots []NodeID
	for id, node := range g.nodes {
		if node.ParentID == "" {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// Neighbors returns the ids of all nodes connected to id by an edge in either
// direction, deduplicated and sorted. Returns nil if the node has no incident
// edges or does not exist.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.neighborsLocked(id)
}

// neighborsLocked collects undirected adjacency for id.
// Caller holds at least the read lock.
func (g *Graph) neighborsLocked(id NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	for _, eid := range g.outgoing[id] {
		seen[g.edges[eid].To] = struct{}{}
	}
	for _, eid := range g.incoming[id] {
		seen[g.edges[eid].From] = struct{}{}
	}
	delete(seen, id) // self-loops do not make a node its own neighbor

	if len(seen) == 0 {
		return nil
	}
	neighbors := make([]NodeID, 0, len(seen))
	for n := range seen {
		neighbors = append(neighbors, n)
	}
	slices.Sort(neighbors)
	return neighbors
}

// OutgoingEdges returns copies of all edges with From == id.
func (g *Graph) OutgoingEdges(id NodeID) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.collectEdgesLocked(g.outgoing[id])
}

// IncomingEdges returns copies of all edges with To == id.
func (g *Graph) IncomingEdges(id NodeID) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.collectEdgesLocked(g.incoming[id])
}

func (g *Graph) collectEdgesLocked(ids []EdgeID) []Edge {
	if len(ids) == 0 {
		return nil
	}
	edges := make([]Edge, 0, len(ids))
	for _, eid := range ids {
		edges = append(edges, *g.edges[eid])
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return edges
}

// Nodes returns copies of all nodes, sorted by id.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nodesLocked()
}

func (g *Graph) nodesLocked() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, *n)
	}
	slices.SortFunc(nodes, func(a, b Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return nodes
}

// Edges returns copies of all edges, sorted by id.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]EdgeID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	return g.collectEdgesLocked(ids)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return g.NodeCount() == 0 }

// Snapshot returns a consistent copy of all nodes and edges, taken under a
// single read lock. Both slices are sorted by id.
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]EdgeID, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	return Snapshot{
		Nodes: g.nodesLocked(),
		Edges: g.collectEdgesLocked(ids),
	}
}

// Validate checks that every edge endpoint and every ParentID reference an
// existing node, and that the hierarchy is acyclic. Returns a structured
// error describing the first inconsistency found, or nil if the graph is
// consistent.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for id, edge := range g.edges {
		if _, ok := g.nodes[edge.From]; !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "edge %s references missing node %s", id, edge.From)
		}
		if _, ok := g.nodes[edge.To]; !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "edge %s references missing node %s", id, edge.To)
		}
	}
	for id, node := range g.nodes {
		if node.ParentID == "" {
			continue
		}
		if _, ok := g.nodes[node.ParentID]; !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s references missing parent %s", id, node.ParentID)
		}
	}

	// Hierarchy cycle check. Nodes on a parent cycle are unreachable from
	// any root, so tree traversals would silently skip them. Each node's
	// ancestor chain is walked once; cleared nodes are not revisited.
	cleared := make(map[NodeID]bool, len(g.nodes))
	for id := range g.nodes {
		onPath := make(map[NodeID]bool)
		for cur := id; cur != "" && !cleared[cur]; {
			if onPath[cur] {
				return errors.New(errors.ErrCodeInvalidOperation, "hierarchy cycle through node %s", cur)
			}
			onPath[cur] = true
			node, ok := g.nodes[cur]
			if !ok {
				break
			}
			cur = node.ParentID
		}
		for visited := range onPath {
			cleared[visited] = true
		}
	}
	return nil
}
