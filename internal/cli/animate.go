package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/animation"
	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
)

// animateCommand creates the animate command for producing transition frames
// between two computed layouts.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		output  string
		from    string
		to      string
		frames  int
		easing  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "animate [document]",
		Short: "Interpolate frames between two layout algorithms",
		Long: `Interpolate transition frames between two computed layouts.

The animate command loads a document, computes a start layout with the --from
algorithm and an end layout with the --to algorithm, and writes an ordered
sequence of interpolated frames as JSON. When --from is omitted and the
document carries stored positions, those positions are used as the start.

Easing functions: linear, ease-in-out, ease-out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnimate(cmd.Context(), args[0], from, to, frames, animation.Easing(easing), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frames.json)")
	cmd.Flags().StringVar(&from, "from", "", "start layout algorithm (default: stored positions)")
	cmd.Flags().StringVar(&to, "to", string(layout.AlgorithmForce), "end layout algorithm")
	cmd.Flags().IntVar(&frames, "frames", 30, "number of frames to produce")
	cmd.Flags().StringVar(&easing, "easing", string(animation.EasingLinear), "easing function: linear, ease-in-out, ease-out")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAnimate computes the endpoint layouts and writes interpolated frames.
func (c *CLI) runAnimate(ctx context.Context, input, from, to string, frames int, easing animation.Easing, output string, noCache bool) error {
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

	start, err := c.endpointPositions(ctx, runner, g, opts, from)
	if err != nil {
		return fmt.Errorf("start layout: %w", err)
	}
	end, err := c.endpointPositions(ctx, runner, g, opts, to)
	if err != nil {
		return fmt.Errorf("end layout: %w", err)
	}

	frameSeq, err := animation.Interpolate(start, end, frames, easing)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(frameSeq, "", "  ")
	if err != nil {
		return fmt.Errorf("encode frames: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".frames.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Produced %d frames", len(frameSeq))
	printFile(outputPath)
	printDetail("%s %s %s, %s easing", endpointName(from), iconArrow, endpointName(to), easing)

	return nil
}

// endpointPositions resolves one end of the animation. An empty algorithm
// means the positions stored on the graph itself.
func (c *CLI) endpointPositions(ctx context.Context, runner *pipeline.Runner, g *mindmap.Graph, opts pipeline.Options, algorithm string) (map[mindmap.NodeID]geometry.Point, error) {
	if algorithm == "" {
		positions := make(map[mindmap.NodeID]geometry.Point)
		for _, n := range g.Nodes() {
			positions[n.ID] = n.Position
		}
		return positions, nil
	}

	opts.Algorithm = layout.Algorithm(algorithm)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	result, err := runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return result.Positions, nil
}

// endpointName labels an animation endpoint for display.
func endpointName(algorithm string) string {
	if algorithm == "" {
		return "stored"
	}
	return algorithm
}
