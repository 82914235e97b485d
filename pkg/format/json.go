package format

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// WriteJSON encodes a graph as an indented native JSON document and writes it
// to w. The output can be re-imported with [ReadJSON] for round-trip
// processing.
func WriteJSON(g *mindmap.Graph, w io.Writer, opts EncodeOptions) error {
	doc := FromGraph(g, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode document")
	}
	return nil
}

// ReadJSON decodes a native JSON document from r into a fresh graph.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "version": 1,
//	  "nodes": [{"id": "a", "text": "root"}, {"id": "b", "text": "child", "parent_id": "a"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// ReadJSON reports INVALID_FORMAT if the JSON is malformed, a node id is
// duplicated, a parent or edge references an unknown node, or the document
// version is newer than this build understands.
//
// The returned graph is independent of r and can be modified safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts DecodeOptions) (*mindmap.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	return ToGraph(doc, opts)
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *mindmap.Graph, path string, opts EncodeOptions) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(g, f, opts)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string, opts DecodeOptions) (*mindmap.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f, opts)
}
