package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GraphHash computes a content hash over a graph's structure: nodes (id,
// text, parent) and edges, in sorted order. Positions and timestamps are
// excluded, so the hash is stable across layout runs on the same structure.
func GraphHash(g *mindmap.Graph) string {
	return graphHash(g, false)
}

// GraphPositionHash computes a content hash that additionally covers stored
// node positions. Layout runs whose output depends on the positions
// themselves (preserve-positions mode) key their cache entries on this hash,
// so moving a node invalidates them.
func GraphPositionHash(g *mindmap.Graph) string {
	return graphHash(g, true)
}

func graphHash(g *mindmap.Graph, includePositions bool) string {
	snap := g.Snapshot()

	type hashNode struct {
		ID     mindmap.NodeID  `json:"id"`
		Text   string          `json:"text"`
		Parent mindmap.NodeID  `json:"parent,omitempty"`
		Pos    *geometry.Point `json:"pos,omitempty"`
	}
	type hashEdge struct {
		From mindmap.NodeID `json:"from"`
		To   mindmap.NodeID `json:"to"`
	}

	content := struct {
		Nodes []hashNode `json:"nodes"`
		Edges []hashEdge `json:"edges"`
	}{
		Nodes: make([]hashNode, len(snap.Nodes)),
		Edges: make([]hashEdge, len(snap.Edges)),
	}
	for i, n := range snap.Nodes {
		content.Nodes[i] = hashNode{ID: n.ID, Text: n.Text, Parent: n.ParentID}
		if includePositions && !n.Position.IsZero() {
			pos := n.Position
			content.Nodes[i].Pos = &pos
		}
	}
	for i, e := range snap.Edges {
		content.Edges[i] = hashEdge{From: e.From, To: e.To}
	}

	data, _ := json.Marshal(content)
	return Hash(data)
}
