// Package mindmap implements the in-memory graph engine at the heart of
// Mindgrid: an indexed store of nodes and edges with hierarchy and adjacency
// queries and traversal.
//
// # Two Independent Relations
//
// A mindmap carries two relations over the same node-id space:
//
//   - The hierarchy, derived from each node's ParentID pointer. This is the
//     tree structure an outline or tree layout follows.
//   - The edge set, explicit Edge records between arbitrary nodes. Edges are
//     directional in storage but treated as undirected for connectivity and
//     traversal.
//
// The two are deliberately never inferred from one another: a node can have a
// parent with no corresponding edge, and edges may connect nodes unrelated by
// hierarchy. The Graph maintains separate indices for each.
//
// # Concurrency
//
// Graph is safe for concurrent use. Queries take a read lock; mutations take
// the write lock and update every derived index before releasing it, so a
// reader never observes a half-applied mutation. Layout engines read a
// consistent copy via [Graph.Snapshot] taken under a single read lock.
//
// # Errors
//
// Mutations fail without partial application and report structured errors
// from the errors package: NODE_NOT_FOUND, EDGE_NOT_FOUND, DUPLICATE_ID.
package mindmap
