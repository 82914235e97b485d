package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mindgrid/mindgrid/pkg/cache"
	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/geometry"
	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
	"github.com/mindgrid/mindgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOperation, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.GraphHash = cache.GraphHash(g)

	r.Logger.Info("loaded mindmap",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutResult, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layoutResult
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit
	g.ApplyPositions(layoutResult.Positions)

	r.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Export
	exportStart := time.Now()
	output, err := r.Export(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Output = output
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported mindmap",
		"format", opts.OutputFormat,
		"bytes", len(output),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Load reads the input file into a graph.
func (r *Runner) Load(ctx context.Context, opts Options) (*mindmap.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Layout().OnLoadStart(ctx, opts.Input)

	g, err := r.load(opts)

	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	observability.Layout().OnLoadComplete(ctx, opts.Input, nodes, time.Since(start), err)
	return g, err
}

func (r *Runner) load(opts Options) (*mindmap.Graph, error) {
	if err := errors.ValidatePath(opts.Input); err != nil {
		return nil, err
	}
	f, err := os.Open(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", opts.Input)
	}
	defer f.Close()
	return format.Import(f, opts.InputFormat, opts.DecodeOptions())
}

// cachedLayout is the serialized form of a layout result.
type cachedLayout struct {
	Positions  map[mindmap.NodeID]geometry.Point `json:"positions"`
	Bounds     geometry.Bounds                   `json:"bounds"`
	Iterations int                               `json:"iterations,omitempty"`
	Energy     float64                           `json:"energy,omitempty"`
	Converged  bool                              `json:"converged,omitempty"`
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info. The graph is not mutated; callers apply positions.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *mindmap.Graph, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	// In preserve-positions mode the output depends on stored positions,
	// so they must participate in the key.
	graphHash := cache.GraphHash(g)
	if opts.Layout.PreservePositions {
		graphHash = cache.GraphPositionHash(g)
	}
	cacheKey := r.Keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{
		Algorithm: string(opts.Algorithm),
		Config:    opts.Layout,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedLayout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return layout.Result{
					Positions:  cached.Positions,
					Bounds:     cached.Bounds,
					Iterations: cached.Iterations,
					Energy:     cached.Energy,
					Converged:  cached.Converged,
				}, true, nil
			}
			// Undecodable entry - fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, string(opts.Algorithm), g.NodeCount())
	result, err := layout.Compute(ctx, opts.Algorithm, g, opts.Layout)
	observability.Layout().OnLayoutComplete(ctx, string(opts.Algorithm), time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(cachedLayout{
		Positions:  result.Positions,
		Bounds:     result.Bounds,
		Iterations: result.Iterations,
		Energy:     result.Energy,
		Converged:  result.Converged,
	}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return result, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *mindmap.Graph, opts Options) (layout.Result, error) {
	result, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return result, err
}

// Export serializes the graph in the requested output format.
func (r *Runner) Export(ctx context.Context, g *mindmap.Graph, opts Options) ([]byte, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Layout().OnExportStart(ctx, string(opts.OutputFormat))

	var buf bytes.Buffer
	err := format.Export(g, &buf, opts.OutputFormat, opts.EncodeOptions())
	observability.Layout().OnExportComplete(ctx, string(opts.OutputFormat), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
