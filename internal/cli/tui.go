package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorFaint)
	listTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// =============================================================================
// NodeBrowserModel - Interactive layout browser
// =============================================================================

// nodeRow is one displayable row of the browser: a node with its resolved
// depth in the hierarchy.
type nodeRow struct {
	node  mindmap.Node
	depth int
}

// NodeBrowserModel is the bubbletea model for browsing a positioned mind map.
// Nodes are listed in depth-first order so the table reads like an outline.
type NodeBrowserModel struct {
	graph  *mindmap.Graph
	rows   []nodeRow
	Cursor int
	Height int
	Offset int
}

// NewNodeBrowserModel creates a browser over the given graph.
func NewNodeBrowserModel(g *mindmap.Graph) NodeBrowserModel {
	return NodeBrowserModel{
		graph:  g,
		rows:   outlineRows(g),
		Height: 15,
	}
}

// outlineRows flattens the hierarchy into depth-first pre-order rows.
// Root order and sibling order follow the graph's sorted iteration.
func outlineRows(g *mindmap.Graph) []nodeRow {
	var rows []nodeRow
	var walk func(id mindmap.NodeID, depth int)
	walk = func(id mindmap.NodeID, depth int) {
		n, ok := g.Node(id)
		if !ok {
			return
		}
		rows = append(rows, nodeRow{node: n, depth: depth})
		for _, child := range g.Children(id) {
			walk(child, depth+1)
		}
	}
	for _, root := range g.RootNodes() {
		walk(root, 0)
	}
	return rows
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor = 0
			m.Offset = 0
		case "G", "end":
			m.Cursor = len(m.rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(listTitleStyle.Render("Mind Map Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		text := strings.Repeat("  ", r.depth) + r.node.Text
		pos := fmt.Sprintf("(%.1f, %.1f)", r.node.Position.X, r.node.Position.Y)
		children := fmt.Sprintf("%d", len(m.graph.Children(r.node.ID)))

		rows = append(rows, []string{cursor, text, fmt.Sprintf("%d", r.depth), pos, children})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Node", "Depth", "Position", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.rows) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Foreground(colorFaint)
			}
			if actualIdx == m.Cursor {
				if col < 2 {
					return base.Foreground(colorAccent).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detailLine())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// detailLine describes the selected node's relations.
func (m NodeBrowserModel) detailLine() string {
	if len(m.rows) == 0 {
		return ""
	}
	n := m.rows[m.Cursor].node

	parts := []string{"id " + shortID(string(n.ID))}
	if parentID, ok := m.graph.Parent(n.ID); ok {
		if parent, ok := m.graph.Node(parentID); ok {
			parts = append(parts, "parent "+parent.Text)
		}
	}
	if links := len(m.graph.OutgoingEdges(n.ID)) + len(m.graph.IncomingEdges(n.ID)); links > 0 {
		parts = append(parts, fmt.Sprintf("%d cross-links", links))
	}
	return "  " + listDimStyle.Render(strings.Join(parts, " · "))
}

// shortID abbreviates a node identifier for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
