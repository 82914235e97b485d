package format

import (
	"sort"
	"time"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// DocumentVersion is the current native document schema version.
const DocumentVersion = 1

// =============================================================================
// Document - Canonical Serialization Format
// =============================================================================

// Document is the canonical serialization format for mindmaps. Used for API
// responses, file storage, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// import, transform, export, and re-import produce identical results.
type Document struct {
	Version   int       `json:"version" bson:"version"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	Nodes     []Node    `json:"nodes" bson:"nodes"`
	Edges     []Edge    `json:"edges" bson:"edges"`
}

// Node is the serialized node type.
type Node struct {
	ID        string          `json:"id" bson:"id"`
	Text      string          `json:"text" bson:"text"`
	ParentID  string          `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Position  *geometry.Point `json:"position,omitempty" bson:"position,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Edge is the serialized edge type.
type Edge struct {
	ID   string `json:"id,omitempty" bson:"id,omitempty"`
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Options
// =============================================================================

// EncodeOptions controls graph-to-document conversion.
type EncodeOptions struct {
	// Title is carried into the document unchanged.
	Title string
	// MaxDepth, when positive, drops nodes deeper than MaxDepth hierarchy
	// levels below their root. Edges touching a dropped node are dropped too.
	MaxDepth int
}

// DecodeOptions controls document-to-graph conversion.
type DecodeOptions struct {
	// PreserveIDs keeps the document's node and edge ids. When false, fresh
	// ids are generated and parent/edge references are remapped.
	PreserveIDs bool
	// PreserveTimestamps keeps the document's creation and update times.
	// When false, all nodes get the import time.
	PreserveTimestamps bool
}

// RoundTripOptions preserves everything, for lossless load/save cycles.
func RoundTripOptions() DecodeOptions {
	return DecodeOptions{PreserveIDs: true, PreserveTimestamps: true}
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromGraph converts a graph snapshot into its serialization format.
// Nodes and edges are sorted by id for deterministic output.
func FromGraph(g *mindmap.Graph, opts EncodeOptions) Document {
	snap := g.Snapshot()

	keep := make(map[mindmap.NodeID]bool, len(snap.Nodes))
	if opts.MaxDepth > 0 {
		for id, depth := range hierarchyDepths(snap) {
			if depth <= opts.MaxDepth {
				keep[id] = true
			}
		}
	} else {
		for _, n := range snap.Nodes {
			keep[n.ID] = true
		}
	}

	doc := Document{
		Version:   DocumentVersion,
		Title:     opts.Title,
		UpdatedAt: time.Now().UTC(),
		Nodes:     make([]Node, 0, len(snap.Nodes)),
		Edges:     make([]Edge, 0, len(snap.Edges)),
	}
	for _, n := range snap.Nodes {
		if !keep[n.ID] {
			continue
		}
		node := Node{
			ID:        string(n.ID),
			Text:      n.Text,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
		if n.ParentID != "" && keep[n.ParentID] {
			node.ParentID = string(n.ParentID)
		}
		if !n.Position.IsZero() {
			pos := n.Position
			node.Position = &pos
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	for _, e := range snap.Edges {
		if !keep[e.From] || !keep[e.To] {
			continue
		}
		doc.Edges = append(doc.Edges, Edge{ID: string(e.ID), From: string(e.From), To: string(e.To)})
	}
	return doc
}

// ToGraph builds a fresh graph from a document. Nodes are inserted parents
// before children so hierarchy pointers always resolve; edges are added last.
//
// Returns INVALID_FORMAT for structural problems: unsupported version,
// duplicate node ids, dangling parent or edge references, or a parent cycle.
func ToGraph(doc Document, opts DecodeOptions) (*mindmap.Graph, error) {
	if doc.Version > DocumentVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %d (newest known is %d)", doc.Version, DocumentVersion)
	}

	order, err := parentFirstOrder(doc.Nodes)
	if err != nil {
		return nil, err
	}

	// Remap ids up front so parent and edge references stay coherent even
	// when fresh ids are generated. Assignment is per node index: id-less
	// nodes each get their own fresh id and are only reachable as roots,
	// since nothing can reference an empty id.
	assigned := make([]mindmap.NodeID, len(doc.Nodes))
	idMap := make(map[string]mindmap.NodeID, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if opts.PreserveIDs && n.ID != "" {
			assigned[i] = mindmap.NodeID(n.ID)
		} else {
			assigned[i] = mindmap.NewNodeID()
		}
		if n.ID != "" {
			idMap[n.ID] = assigned[i]
		}
	}

	g := mindmap.NewGraph()
	now := time.Now().UTC()
	for _, idx := range order {
		src := doc.Nodes[idx]
		node := mindmap.Node{
			ID:   assigned[idx],
			Text: src.Text,
		}
		if src.ParentID != "" {
			parent, ok := idMap[src.ParentID]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s references unknown parent %s", src.ID, src.ParentID)
			}
			node.ParentID = parent
		}
		if src.Position != nil {
			node.Position = *src.Position
		}
		if opts.PreserveTimestamps {
			node.CreatedAt = src.CreatedAt
			node.UpdatedAt = src.UpdatedAt
		} else {
			node.CreatedAt = now
			node.UpdatedAt = now
		}
		if _, err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", src.ID)
		}
	}

	for _, e := range doc.Edges {
		from, okFrom := idMap[e.From]
		to, okTo := idMap[e.To]
		if !okFrom || !okTo {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s references an unknown node", e.From, e.To)
		}
		edge := mindmap.Edge{From: from, To: to}
		if opts.PreserveIDs && e.ID != "" {
			edge.ID = mindmap.EdgeID(e.ID)
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s->%s", e.From, e.To)
		}
	}

	return g, nil
}

// parentFirstOrder returns document node indices ordered so every parent
// precedes its children. Reports duplicate ids and parent cycles.
func parentFirstOrder(nodes []Node) ([]int, error) {
	byID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, exists := byID[n.ID]; exists {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %q", n.ID)
		}
		byID[n.ID] = i
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, len(nodes))
	order := make([]int, 0, len(nodes))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return errors.New(errors.ErrCodeInvalidFormat, "parent cycle involving node %q", nodes[i].ID)
		}
		state[i] = visiting
		if p := nodes[i].ParentID; p != "" {
			if j, ok := byID[p]; ok {
				if err := visit(j); err != nil {
					return err
				}
			}
		}
		state[i] = done
		order = append(order, i)
		return nil
	}

	for i := range nodes {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// hierarchyDepths computes each node's depth below its root, following
// ParentID pointers. Nodes with missing parents count as roots.
func hierarchyDepths(snap mindmap.Snapshot) map[mindmap.NodeID]int {
	index := snap.NodeIndex()
	depths := make(map[mindmap.NodeID]int, len(snap.Nodes))

	var depthOf func(id mindmap.NodeID, seen map[mindmap.NodeID]bool) int
	depthOf = func(id mindmap.NodeID, seen map[mindmap.NodeID]bool) int {
		if d, ok := depths[id]; ok {
			return d
		}
		if seen[id] {
			return 0
		}
		seen[id] = true
		i, ok := index[id]
		if !ok {
			return 0
		}
		parent := snap.Nodes[i].ParentID
		d := 0
		if parent != "" {
			if _, ok := index[parent]; ok {
				d = depthOf(parent, seen) + 1
			}
		}
		depths[id] = d
		return d
	}

	for _, n := range snap.Nodes {
		depthOf(n.ID, map[mindmap.NodeID]bool{})
	}
	return depths
}

// childrenByParent groups a document's nodes by parent id, each group sorted
// by node id for deterministic outline output. The empty key holds roots.
func childrenByParent(doc Document) map[string][]Node {
	out := make(map[string][]Node)
	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		ids[n.ID] = true
	}
	for _, n := range doc.Nodes {
		key := n.ParentID
		if key != "" && !ids[key] {
			key = ""
		}
		out[key] = append(out[key], n)
	}
	for key := range out {
		sort.Slice(out[key], func(i, j int) bool { return out[key][i].ID < out[key][j].ID })
	}
	return out
}
