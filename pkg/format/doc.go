// Package format converts mindmaps between the in-memory graph and external
// representations.
//
// # Overview
//
// The canonical interchange type is [Document], a versioned, serializable
// snapshot of a mindmap. Documents round-trip losslessly through the native
// JSON format: export, re-import, and export again produce identical output.
//
// Beyond native JSON, the package reads and writes outline-shaped formats
// that only carry the hierarchy:
//
//   - OPML 2.0 (outline tags nested by parent)
//   - Markdown (indented list items)
//   - plain text (tab-indented lines)
//   - Graphviz DOT (export only, for external graph tooling)
//
// Outline formats drop cross-link edges and positions; importing one yields
// a pure hierarchy with fresh positions.
//
// # Options
//
// [DecodeOptions] controls how much of a document survives into a graph:
// stored ids and timestamps may be preserved for round trips or regenerated
// for imports from untrusted sources. [EncodeOptions] can cap the exported
// hierarchy depth.
//
// # Concurrency
//
// All functions are safe to call concurrently. Reading functions build
// independent graphs; writing functions take a consistent snapshot of the
// source graph before encoding.
package format
