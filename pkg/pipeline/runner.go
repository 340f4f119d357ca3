package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modelviz/modelviz/pkg/cache"
	"github.com/modelviz/modelviz/pkg/derive"
	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/layout"
	"github.com/modelviz/modelviz/pkg/render"
	"github.com/modelviz/modelviz/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
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
// If cache is nil, a NullCache is used (caching disabled).
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

// Execute runs the complete derive → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, document []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Derive
	deriveStart := time.Now()
	t, deriveHit, err := r.DeriveWithCacheInfo(ctx, document, opts)
	if err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	result.Tree = t
	result.Graph = graph.FromTree(t)
	result.Stats.DeriveTime = time.Since(deriveStart)
	result.Stats.NodeCount = t.NodeCount()
	result.Stats.EdgeCount = t.EdgeCount()
	result.CacheInfo.DeriveHit = deriveHit

	if graphData, err := graph.MarshalGraph(t); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("derived graph",
		"nodes", t.NodeCount(),
		"edges", t.EdgeCount(),
		"duration", result.Stats.DeriveTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"boxes", len(l.Boxes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, t, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DeriveWithCacheInfo derives the graph with caching and returns cache hit info.
func (r *Runner) DeriveWithCacheInfo(ctx context.Context, document []byte, opts Options) (*tree.Tree, bool, error) {
	cacheKey := r.Keyer.DeriveKey(cache.Hash(document), opts.deriveKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			t, err := graph.ReadGraph(bytes.NewReader(data))
			if err == nil {
				return t, true, nil // Cache hit
			}
			// Corrupt entry - fall through to re-derive
		}
	}

	t, err := derive.DeriveJSON(document, opts.DeriveOptions())
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalGraph(t); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, TTLGraph)
	}

	return t, false, nil // Cache miss
}

// Derive is a convenience wrapper that discards the cache hit info.
func (r *Runner) Derive(ctx context.Context, document []byte, opts Options) (*tree.Tree, error) {
	t, _, err := r.DeriveWithCacheInfo(ctx, document, opts)
	return t, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) (graph.Layout, bool, error) {
	graphData, _ := graph.MarshalGraph(t)
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.layoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	res, err := layout.Build(t, opts.LayoutConfig())
	if err != nil {
		return graph.Layout{}, false, err
	}
	l := res.Layout()

	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, TTLLayout)
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t *tree.Tree, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// RenderWithCacheInfo renders all requested formats with per-format caching.
// The returned hit flag is true only when every format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, t *tree.Tree, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := len(opts.Formats) > 0

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(layoutHash, format)

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allHit = false

		data, err := r.renderFormat(l, t, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		_ = r.Cache.Set(ctx, cacheKey, data, TTLArtifact)
	}

	return artifacts, allHit, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, t *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, t, opts)
	return artifacts, err
}

func (r *Runner) renderFormat(l graph.Layout, t *tree.Tree, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.SVG(l), nil
	case FormatDOT:
		return []byte(render.ToDOT(t, render.DOTOptions{Detailed: opts.Detailed})), nil
	case FormatJSON:
		return graph.MarshalLayout(l)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}
