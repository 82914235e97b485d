package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// =============================================================================
// Markdown and Plain Text - Indented Outlines
// =============================================================================

// WriteMarkdown renders the graph's hierarchy as a Markdown bullet list, two
// spaces of indent per level. Cross-link edges and positions are dropped.
func WriteMarkdown(g *mindmap.Graph, w io.Writer, opts EncodeOptions) error {
	return writeOutline(g, w, opts, func(depth int, text string) string {
		return strings.Repeat("  ", depth) + "- " + text
	})
}

// WriteText renders the graph's hierarchy as tab-indented plain text.
func WriteText(g *mindmap.Graph, w io.Writer, opts EncodeOptions) error {
	return writeOutline(g, w, opts, func(depth int, text string) string {
		return strings.Repeat("\t", depth) + text
	})
}

func writeOutline(g *mindmap.Graph, w io.Writer, opts EncodeOptions, line func(depth int, text string) string) error {
	doc := FromGraph(g, opts)
	byParent := childrenByParent(doc)

	var emit func(parent string, depth int) error
	emit = func(parent string, depth int) error {
		for _, n := range byParent[parent] {
			if _, err := fmt.Fprintln(w, line(depth, n.Text)); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write outline")
			}
			if err := emit(n.ID, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return emit("", 0)
}

// ReadMarkdown parses a Markdown bullet list into a fresh graph. Each list
// item becomes a node; nesting (two spaces or one tab per level) sets the
// parent. Lines that are not list items are skipped.
func ReadMarkdown(r io.Reader) (*mindmap.Graph, error) {
	return readOutline(r, func(line string) (depth int, text string, ok bool) {
		indent := 0
		for {
			if strings.HasPrefix(line, "\t") {
				line = line[1:]
			} else if strings.HasPrefix(line, "  ") {
				line = line[2:]
			} else {
				break
			}
			indent++
		}
		for _, marker := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(line, marker) {
				return indent, strings.TrimSpace(line[len(marker):]), true
			}
		}
		return 0, "", false
	})
}

// ReadText parses tab-indented plain text into a fresh graph. Each non-empty
// line becomes a node; leading tabs set the depth.
func ReadText(r io.Reader) (*mindmap.Graph, error) {
	return readOutline(r, func(line string) (depth int, text string, ok bool) {
		trimmed := strings.TrimLeft(line, "\t")
		if strings.TrimSpace(trimmed) == "" {
			return 0, "", false
		}
		return len(line) - len(trimmed), strings.TrimSpace(trimmed), true
	})
}

// readOutline builds a graph from an indentation-based outline. A line at
// depth d becomes a child of the most recent line at depth d-1; a line
// deeper than one level below its predecessor is clamped to one level.
func readOutline(r io.Reader, parse func(line string) (depth int, text string, ok bool)) (*mindmap.Graph, error) {
	g := mindmap.NewGraph()

	// stack[d] is the most recently added node at depth d.
	var stack []mindmap.NodeID

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		depth, text, ok := parse(scanner.Text())
		if !ok || text == "" {
			continue
		}
		if depth > len(stack) {
			depth = len(stack)
		}

		var parent mindmap.NodeID
		if depth > 0 {
			parent = stack[depth-1]
		}
		id, err := g.AddNode(mindmap.Node{Text: text, ParentID: parent})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %q", text)
		}
		stack = append(stack[:depth], id)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read outline")
	}
	return g, nil
}
