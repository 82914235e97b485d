package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// layoutCommand creates the layout command for computing mind map layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{
		Algorithm:    layout.Algorithm(c.Config.Algorithm),
		OutputFormat: format.Format(c.Config.Format),
		Layout:       layout.DefaultConfig(),
	}
	c.applyCanvasDefaults(&opts.Layout)

	cmd := &cobra.Command{
		Use:   "layout [document]",
		Short: "Compute node positions for a mind map document",
		Long: `Compute node positions for a mind map document.

The layout command loads a document (JSON, OPML, Markdown, or plain-text
outline), runs the selected layout algorithm, and writes the positioned
document to the output file. The output format is inferred from the output
extension unless --format is given.

Available algorithms:
  radial  concentric rings around the root (default)
  tree    layered top-down/left-right tree
  force   force-directed simulation

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")

	// Document flags
	cmd.Flags().StringVarP((*string)(&opts.Algorithm), "algorithm", "a", string(opts.Algorithm), "layout algorithm: radial, tree, force")
	cmd.Flags().StringVarP((*string)(&opts.OutputFormat), "format", "f", string(opts.OutputFormat), "output format: json, opml, markdown, text, dot")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title for the output")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "drop nodes deeper than this on export (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.PreserveIDs, "preserve-ids", false, "keep node identifiers from the input document")

	// Canvas flags
	cmd.Flags().Float64Var(&opts.Layout.Width, "width", opts.Layout.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Layout.Height, "height", opts.Layout.Height, "canvas height")
	cmd.Flags().Float64Var(&opts.Layout.Margin, "margin", opts.Layout.Margin, "canvas margin")
	cmd.Flags().BoolVar(&opts.Layout.PreservePositions, "preserve-positions", false, "keep stored node positions where present")

	// Algorithm flags
	cmd.Flags().Float64Var(&opts.Layout.Radial.BaseRadius, "base-radius", opts.Layout.Radial.BaseRadius, "first ring radius (radial)")
	cmd.Flags().Float64Var(&opts.Layout.Radial.RadiusIncrement, "radius-increment", opts.Layout.Radial.RadiusIncrement, "spacing between rings (radial)")
	cmd.Flags().StringVar((*string)(&opts.Layout.Tree.Orientation), "orientation", string(opts.Layout.Tree.Orientation), "tree orientation: top-down, bottom-up, left-right, right-left")
	cmd.Flags().BoolVar(&opts.Layout.Tree.BalanceSubtrees, "balance", opts.Layout.Tree.BalanceSubtrees, "center parents over their subtrees (tree)")
	cmd.Flags().IntVar(&opts.Layout.Force.MaxIterations, "iterations", opts.Layout.Force.MaxIterations, "maximum simulation steps (force)")
	cmd.Flags().Uint64Var(&opts.Layout.Force.Seed, "seed", opts.Layout.Force.Seed, "random seed for initial placement (force)")

	return cmd
}

// applyCanvasDefaults overlays config-file canvas values onto cfg.
func (c *CLI) applyCanvasDefaults(cfg *layout.Config) {
	if c.Config.Canvas.Width > 0 {
		cfg.Width = c.Config.Canvas.Width
	}
	if c.Config.Canvas.Height > 0 {
		cfg.Height = c.Config.Canvas.Height
	}
	if c.Config.Canvas.Margin > 0 {
		cfg.Margin = c.Config.Canvas.Margin
	}
}

// runLayout executes the full layout pipeline and writes the output file.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var result *pipeline.Result
	runErr := newStatusSpinner().run(ctx, fmt.Sprintf("Computing %s layout...", opts.Algorithm), func() error {
		var err error
		result, err = runner.Execute(ctx, opts)
		return err
	})
	if runErr != nil {
		printError("Layout failed")
		return fmt.Errorf("compute layout: %w", runErr)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input))
		outputPath = base + ".layout." + extensionFor(opts.OutputFormat)
	}

	if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Inspect", "mindgrid inspect "+outputPath)

	return nil
}

// extensionFor maps an output format to its default file extension.
func extensionFor(f format.Format) string {
	switch f {
	case format.FormatOPML:
		return "opml"
	case format.FormatMarkdown:
		return "md"
	case format.FormatText:
		return "txt"
	case format.FormatDOT:
		return "dot"
	default:
		return "json"
	}
}
