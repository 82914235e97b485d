package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// inspectCommand creates the inspect command for browsing a layout in an
// interactive terminal view.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		algorithm string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Browse a mind map layout interactively",
		Long: `Browse a mind map layout in an interactive terminal view.

The inspect command loads a document and opens a navigable node table showing
each node's text, depth, position, and children. Documents without stored
positions are laid out first; pass --algorithm to force a fresh layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], algorithm, noCache)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "recompute the layout with this algorithm before inspecting")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runInspect loads the document, ensures it has positions, and opens the TUI.
func (c *CLI) runInspect(ctx context.Context, input, algorithm string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Input: input, Logger: c.Logger, Layout: layout.DefaultConfig()}
	c.applyCanvasDefaults(&opts.Layout)
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	if g.IsEmpty() {
		printInfo("Document is empty")
		return nil
	}

	if algorithm != "" || !hasStoredPositions(g) {
		opts.Algorithm = layout.Algorithm(algorithm)
		if err := opts.ValidateForLayout(); err != nil {
			return err
		}
		result, err := runner.ComputeLayout(ctx, g, opts)
		if err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
		g.ApplyPositions(result.Positions)
	}

	model := NewNodeBrowserModel(g)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run inspector: %w", err)
	}
	return nil
}

// hasStoredPositions reports whether any node carries a non-zero position.
func hasStoredPositions(g *mindmap.Graph) bool {
	for _, n := range g.Nodes() {
		if !n.Position.IsZero() {
			return true
		}
	}
	return false
}
