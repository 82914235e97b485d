package format

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// =============================================================================
// OPML 2.0 - Outline Interchange
// =============================================================================

type opmlFile struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Children []opmlOutline `xml:"outline"`
}

// WriteOPML encodes the graph's hierarchy as an OPML 2.0 outline. Cross-link
// edges and positions are not representable in OPML and are dropped.
func WriteOPML(g *mindmap.Graph, w io.Writer, opts EncodeOptions) error {
	doc := FromGraph(g, opts)
	byParent := childrenByParent(doc)

	var build func(parent string) []opmlOutline
	build = func(parent string) []opmlOutline {
		kids := byParent[parent]
		out := make([]opmlOutline, 0, len(kids))
		for _, n := range kids {
			out = append(out, opmlOutline{Text: n.Text, Children: build(n.ID)})
		}
		return out
	}

	file := opmlFile{
		Version: "2.0",
		Head: opmlHead{
			Title:       opts.Title,
			DateCreated: time.Now().UTC().Format(time.RFC1123Z),
		},
		Body: opmlBody{Outlines: build("")},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write opml header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(file); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode opml")
	}
	return nil
}

// ReadOPML decodes an OPML outline from r into a fresh graph. Every outline
// element becomes a node whose parent is the enclosing outline; top-level
// outlines become roots. Ids and timestamps are always generated.
func ReadOPML(r io.Reader) (*mindmap.Graph, error) {
	var file opmlFile
	if err := xml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode opml")
	}

	g := mindmap.NewGraph()
	var add func(outline opmlOutline, parent mindmap.NodeID) error
	add = func(outline opmlOutline, parent mindmap.NodeID) error {
		id, err := g.AddNode(mindmap.Node{Text: outline.Text, ParentID: parent})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "outline %q", outline.Text)
		}
		for _, child := range outline.Children {
			if err := add(child, id); err != nil {
				return err
			}
		}
		return nil
	}
	for _, outline := range file.Body.Outlines {
		if err := add(outline, ""); err != nil {
			return nil, err
		}
	}
	return g, nil
}
