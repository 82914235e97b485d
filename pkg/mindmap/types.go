package mindmap

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindgrid/mindgrid/pkg/geometry"
)

// NodeID uniquely identifies a node. IDs are generated on creation and never
// reused; an empty NodeID means "unset" (for example, a root node's ParentID).
type NodeID string

// EdgeID uniquely identifies an edge.
type EdgeID string

// Position aliases the geometry point type; node positions and layout
// proposals share one representation.
type Position = geometry.Point

// NewNodeID returns a fresh, globally unique node identifier.
func NewNodeID() NodeID { return NodeID(uuid.NewString()) }

// NewEdgeID returns a fresh, globally unique edge identifier.
func NewEdgeID() EdgeID { return EdgeID(uuid.NewString()) }

// Node is a single mindmap entry. Once added, the node is owned by the Graph;
// accessors return copies, and changes are applied through [Graph.UpdateNode].
//
// ParentID is the hierarchy pointer and is independent of the edge set. An
// empty ParentID marks a root node.
type Node struct {
	ID        NodeID
	Text      string
	ParentID  NodeID
	Position  geometry.Point
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNode creates a node with a fresh ID and creation timestamps.
// The node is not part of any graph until passed to [Graph.AddNode].
func NewNode(text string) Node {
	now := time.Now().UTC()
	return Node{
		ID:        NewNodeID(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewChildNode creates a node parented under parentID.
func NewChildNode(text string, parentID NodeID) Node {
	n := NewNode(text)
	n.ParentID = parentID
	return n
}

// Edge is a connection between two nodes. From/To give the edge a storage
// direction, but connectivity queries and traversal ignore it.
type Edge struct {
	ID   EdgeID
	From NodeID
	To   NodeID
}

// NewEdge creates an edge with a fresh ID between two node ids.
// The edge is not part of any graph until passed to [Graph.AddEdge].
func NewEdge(from, to NodeID) Edge {
	return Edge{ID: NewEdgeID(), From: from, To: to}
}

// Touches reports whether the edge is incident to the given node.
func (e Edge) Touches(id NodeID) bool { return e.From == id || e.To == id }

// Other returns the edge endpoint opposite to id, and whether id is an
// endpoint at all.
func (e Edge) Other(id NodeID) (NodeID, bool) {
	switch id {
	case e.From:
		return e.To, true
	case e.To:
		return e.From, true
	}
	return "", false
}

// Snapshot is a consistent, immutable copy of a graph's contents, taken under
// a single read lock. Layout engines consume snapshots so a long computation
// never holds the graph lock.
//
// Nodes and Edges are sorted by ID so consumers iterate deterministically.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// NodeIndex returns a map from node ID to index in s.Nodes.
func (s Snapshot) NodeIndex() map[NodeID]int {
	idx := make(map[NodeID]int, len(s.Nodes))
	for i, n := range s.Nodes {
		idx[n.ID] = i
	}
	return idx
}
