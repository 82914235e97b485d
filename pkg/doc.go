// Package pkg provides the core libraries for mindgrid mind map layout.
//
// # Overview
//
// Mindgrid arranges hierarchical mind maps in two dimensions. Nodes form a
// tree through parent pointers and may additionally be connected by free-form
// cross-link edges; layout algorithms position every node on a canvas. The
// pkg directory is organized into these areas:
//
//  1. [mindmap] - The graph model (nodes, hierarchy, adjacency, traversal)
//  2. [geometry] - Points, bounds, and polar/cartesian conversion
//  3. [layout] - Radial, tree, and force-directed layout engines
//  4. [format] - Document interchange (JSON, OPML, Markdown, text, DOT)
//  5. [animation] - Frame interpolation between two layouts
//  6. [pipeline] - Orchestration (load → layout → export) with caching
//  7. [cache], [storage] - Layout cache and document persistence
//
// # Architecture
//
// The typical data flow through mindgrid:
//
//	Document (JSON/OPML/outline)
//	         ↓
//	format.Import → mindmap.Graph
//	         ↓
//	layout.Compute → positions
//	         ↓
//	Graph.ApplyPositions → format.Export
//
// The pipeline package drives this flow end to end; the CLI and the HTTP API
// are thin layers over it.
package pkg
