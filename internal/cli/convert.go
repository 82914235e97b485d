package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// convertCommand creates the convert command for translating documents
// between interchange formats without computing a layout.
func (c *CLI) convertCommand() *cobra.Command {
	var output string
	opts := pipeline.Options{
		OutputFormat: format.Format(c.Config.Format),
	}

	cmd := &cobra.Command{
		Use:   "convert [document]",
		Short: "Translate a document between outline formats",
		Long: `Translate a mind map document between outline formats.

The input format is inferred from the input extension; the output format from
the output extension, or from --format when both are given. Stored positions
survive JSON-to-JSON conversion; outline formats carry only the hierarchy.

Supported formats: json, opml, markdown, text, dot (dot is export-only).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			// An explicit output extension wins unless --format was given.
			if output != "" && !cmd.Flags().Changed("format") {
				if f, err := format.DetectFormat(output); err == nil {
					opts.OutputFormat = f
				}
			}
			return c.runConvert(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP((*string)(&opts.OutputFormat), "format", "f", string(opts.OutputFormat), "output format: json, opml, markdown, text, dot")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title for the output")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "drop nodes deeper than this on export (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.PreserveIDs, "preserve-ids", false, "keep node identifiers from the input document")

	return cmd
}

// runConvert loads the document and re-exports it in the requested format.
func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	if err := opts.ValidateForExport(); err != nil {
		return err
	}

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}

	data, err := runner.Export(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input))
		outputPath = base + "." + extensionFor(opts.OutputFormat)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Converted to %s", opts.OutputFormat)
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)

	return nil
}
