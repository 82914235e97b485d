// Package pipeline provides the core mindmap processing pipeline.
//
// This package implements the complete load → layout → export pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a mindmap from a file in any supported format
//  2. Layout: Compute positions with the selected algorithm and apply them
//  3. Export: Serialize the positioned mindmap in the requested format
//
// Each stage can be run independently or as part of the complete pipeline.
// Layout results are cached keyed by graph content hash and configuration.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:     "map.opml",
//	    Algorithm: layout.AlgorithmRadial,
//	    Output:    "map.json",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(opts.Output, result.Output, 0644)
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, opts)
//	res, err := runner.ComputeLayout(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input string `json:"input,omitempty"`
	// InputFormat overrides extension-based detection for Input.
	InputFormat format.Format `json:"input_format,omitempty"`
	// PreserveIDs keeps ids and timestamps from the input document.
	PreserveIDs bool `json:"preserve_ids,omitempty"`

	// Layout options
	Algorithm layout.Algorithm `json:"algorithm,omitempty"`
	Layout    layout.Config    `json:"layout,omitempty"`
	// Refresh bypasses the layout cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Export options
	OutputFormat format.Format `json:"output_format,omitempty"`
	Title        string        `json:"title,omitempty"`
	MaxDepth     int           `json:"max_depth,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded mindmap with computed positions applied.
	Graph *mindmap.Graph

	// GraphHash is the content hash of the graph structure.
	GraphHash string

	// Layout is the computed layout result.
	Layout layout.Result

	// Output is the exported document in the requested format.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidOperation, "input is required")
	}
	if o.InputFormat == "" {
		detected, err := format.DetectFormat(o.Input)
		if err != nil {
			return err
		}
		o.InputFormat = detected
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if o.Algorithm == "" {
		o.Algorithm = layout.AlgorithmRadial
	}
	if err := layout.ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	o.Layout.SetDefaults()
	o.setLoggerDefault()
	return o.Layout.Validate()
}

// ValidateForExport validates and sets defaults for the export stage.
func (o *Options) ValidateForExport() error {
	if o.OutputFormat == "" {
		o.OutputFormat = format.FormatJSON
	}
	o.setLoggerDefault()
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// EncodeOptions returns the export options for this run.
func (o *Options) EncodeOptions() format.EncodeOptions {
	return format.EncodeOptions{Title: o.Title, MaxDepth: o.MaxDepth}
}

// DecodeOptions returns the import options for this run.
func (o *Options) DecodeOptions() format.DecodeOptions {
	if o.PreserveIDs {
		return format.RoundTripOptions()
	}
	return format.DecodeOptions{}
}
