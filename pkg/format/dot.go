package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// WriteDOT renders the graph in Graphviz DOT syntax for external tooling.
// Hierarchy pointers become solid edges, cross-link edges become dashed
// ones, and stored positions are emitted as pos attributes. Export only;
// DOT is not a supported import format.
func WriteDOT(g *mindmap.Graph, w io.Writer, opts EncodeOptions) error {
	doc := FromGraph(g, opts)

	var b strings.Builder
	b.WriteString("graph mindmap {\n")
	b.WriteString("  node [shape=box];\n")
	for _, n := range doc.Nodes {
		fmt.Fprintf(&b, "  %s [label=%s", dotQuote(n.ID), dotQuote(n.Text))
		if n.Position != nil {
			fmt.Fprintf(&b, ", pos=\"%g,%g\"", n.Position.X, n.Position.Y)
		}
		b.WriteString("];\n")
	}
	for _, n := range doc.Nodes {
		if n.ParentID != "" {
			fmt.Fprintf(&b, "  %s -- %s;\n", dotQuote(n.ParentID), dotQuote(n.ID))
		}
	}
	for _, e := range doc.Edges {
		fmt.Fprintf(&b, "  %s -- %s [style=dashed];\n", dotQuote(e.From), dotQuote(e.To))
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write dot")
	}
	return nil
}

// dotQuote wraps s in double quotes with DOT escaping.
func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
