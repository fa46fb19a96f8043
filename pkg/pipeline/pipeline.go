// Package pipeline provides the core layout pipeline for flowgrid.
//
// This package implements the complete parse → load → simulate pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode the YAML/JSON document and check it against the schema
//  2. Load: Hydrate the runtime tree and collect semantic errors
//  3. Simulate: Compute the tile grid, boundaries and link routes
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, specBytes, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layout := result.Layout
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dataflows/flowgrid/pkg/cache"
	"github.com/dataflows/flowgrid/pkg/grid"
	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Routing options
	TurnPenalty     float64 `json:"turn_penalty,omitempty"`
	HeuristicWeight float64 `json:"heuristic_weight,omitempty"`

	// Refresh bypasses the layout cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults applies defaults for the full pipeline.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.TurnPenalty == 0 {
		o.TurnPenalty = grid.DefaultTurnPenalty
	}
	if o.HeuristicWeight == 0 {
		o.HeuristicWeight = grid.DefaultHeuristicWeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		TurnPenalty:     o.TurnPenalty,
		HeuristicWeight: o.HeuristicWeight,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// System is the hydrated runtime tree.
	System *model.System

	// Errors holds the semantic validation errors. A non-empty list does
	// not fail the pipeline; the layout is computed regardless.
	Errors []model.ValidationError

	// Layout is the computed grid, boundaries and routes.
	Layout sim.Layout

	// SpecHash is the content hash of the input document.
	SpecHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SystemCount int
	LinkCount   int
	FlowCount   int
	LoadTime    time.Duration
	LayoutTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}
