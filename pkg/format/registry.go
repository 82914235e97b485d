package format

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Format names a supported interchange format.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatOPML     Format = "opml"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatDOT      Format = "dot"
)

var extensions = map[string]Format{
	".json":     FormatJSON,
	".opml":     FormatOPML,
	".xml":      FormatOPML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".txt":      FormatText,
	".dot":      FormatDOT,
	".gv":       FormatDOT,
}

// DetectFormat maps a file path to a format by extension. Reports
// UNSUPPORTED for unknown extensions.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "no format known for extension %q", ext)
}

// Export writes g to w in the named format.
func Export(g *mindmap.Graph, w io.Writer, f Format, opts EncodeOptions) error {
	switch f {
	case FormatJSON:
		return WriteJSON(g, w, opts)
	case FormatOPML:
		return WriteOPML(g, w, opts)
	case FormatMarkdown:
		return WriteMarkdown(g, w, opts)
	case FormatText:
		return WriteText(g, w, opts)
	case FormatDOT:
		return WriteDOT(g, w, opts)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown export format %q", f)
	}
}

// Import reads a graph from r in the named format. Only the native JSON
// format honors the decode options; outline formats always generate fresh
// ids and timestamps.
func Import(r io.Reader, f Format, opts DecodeOptions) (*mindmap.Graph, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r, opts)
	case FormatOPML:
		return ReadOPML(r)
	case FormatMarkdown:
		return ReadMarkdown(r)
	case FormatText:
		return ReadText(r)
	case FormatDOT:
		return nil, errors.New(errors.ErrCodeUnsupported, "dot is export-only")
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown import format %q", f)
	}
}
