// Package pipeline provides the core visualization pipeline for modelviz.
//
// This package implements the complete derive → layout → render pipeline
// that is shared by the CLI and the HTTP API. Centralizing it keeps caching
// and defaults consistent across both entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Derive: Turn a nested document into a typed node/edge tree
//  2. Layout: Compute positions for every node
//  3. Render: Generate output in various formats (SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, document, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/modelviz/modelviz/pkg/cache"
	"github.com/modelviz/modelviz/pkg/derive"
	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/layout"
	"github.com/modelviz/modelviz/pkg/tree"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// DefaultFormat is used when no formats are requested.
const DefaultFormat = FormatSVG

// Cache TTLs per stage. Derived graphs and layouts are cheap to keep around;
// all stages are deterministic so staleness is never a correctness issue.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Derive options
	RootLabel        string `json:"root_label,omitempty"`
	CollectionsField string `json:"collections_field,omitempty"`
	Refresh          bool   `json:"refresh,omitempty"` // bypass the cache

	// Layout options
	NodeWidth       float64 `json:"node_width,omitempty"`
	NodeHeight      float64 `json:"node_height,omitempty"`
	HorizontalGap   float64 `json:"horizontal_gap,omitempty"`
	VerticalSpacing float64 `json:"vertical_spacing,omitempty"`
	CategoryWidth   float64 `json:"category_width,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT labels include kind and child count
}

// ValidateAndSetDefaults validates options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
		}
	}
	if err := o.DeriveOptions().Validate(); err != nil {
		return err
	}
	return o.LayoutConfig().Validate()
}

// DeriveOptions converts pipeline options to derivation options.
func (o Options) DeriveOptions() derive.Options {
	return derive.Options{
		RootLabel:        o.RootLabel,
		CollectionsField: o.CollectionsField,
	}
}

// LayoutConfig converts pipeline options to a layout configuration.
func (o Options) LayoutConfig() layout.Config {
	return layout.Config{
		NodeWidth:       o.NodeWidth,
		NodeHeight:      o.NodeHeight,
		HorizontalGap:   o.HorizontalGap,
		VerticalSpacing: o.VerticalSpacing,
		CategoryWidth:   o.CategoryWidth,
	}
}

func (o Options) deriveKeyOpts() cache.DeriveKeyOpts {
	return cache.DeriveKeyOpts{
		RootLabel:        o.RootLabel,
		CollectionsField: o.CollectionsField,
	}
}

func (o Options) layoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	return cache.LayoutKeyOpts{
		NodeWidth:       cfg.NodeWidth,
		NodeHeight:      cfg.NodeHeight,
		HorizontalGap:   cfg.HorizontalGap,
		VerticalSpacing: cfg.VerticalSpacing,
		CategoryWidth:   cfg.CategoryWidth,
	}
}

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Result is the outcome of a full pipeline execution.
type Result struct {
	// Tree is the derived node/edge structure with resolved positions.
	Tree *tree.Tree `json:"-"`

	// Graph is the serialization form of Tree, as sent to API clients.
	Graph graph.Graph `json:"graph"`

	// Layout holds the positioned boxes.
	Layout graph.Layout `json:"layout"`

	// Artifacts maps format name to rendered bytes.
	Artifacts map[string][]byte `json:"-"`

	// GraphHash identifies the derived graph for cache keys and ETags.
	GraphHash string `json:"graph_hash,omitempty"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache_info"`
}

// Stats captures per-stage timing and graph size.
type Stats struct {
	DeriveTime time.Duration `json:"derive_time_ns"`
	LayoutTime time.Duration `json:"layout_time_ns"`
	RenderTime time.Duration `json:"render_time_ns"`
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	DeriveHit bool `json:"derive_hit"`
	LayoutHit bool `json:"layout_hit"`
	RenderHit bool `json:"render_hit"`
}
