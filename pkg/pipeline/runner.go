package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dataflows/flowgrid/pkg/cache"
	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results.
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

// Execute runs the complete parse → load → simulate pipeline with caching.
// Structural failures abort with an error; semantic validation errors land
// in the result.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{SpecHash: cache.Hash(data)}

	// Stage 1+2: Parse and load. Loading is cheap and always runs so the
	// result carries the hydrated tree and validation errors even on a
	// layout cache hit.
	loadStart := time.Now()
	root, verrs, err := model.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.System = root
	result.Errors = verrs
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.LinkCount = len(root.Links)
	result.Stats.FlowCount = len(root.Flows)
	root.Walk(func(s *model.System) {
		if !s.IsRoot() {
			result.Stats.SystemCount++
		}
	})

	opts.Logger.Info("loaded specification",
		"systems", result.Stats.SystemCount,
		"links", result.Stats.LinkCount,
		"errors", len(verrs),
		"duration", result.Stats.LoadTime)

	// Stage 3: Simulate, with layout caching.
	layoutStart := time.Now()
	layout, hit, err := r.layoutWithCache(ctx, root, result.SpecHash, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("computed layout",
		"grid", fmt.Sprintf("%dx%d", layout.Boundaries.Width, layout.Boundaries.Height),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// layoutWithCache computes (or fetches) the layout for a loaded tree.
// The cache key covers the document hash and every routing option; layout
// computation is deterministic, so hits are exact.
func (r *Runner) layoutWithCache(ctx context.Context, root *model.System, specHash string, opts Options) (sim.Layout, bool, error) {
	cacheKey := r.Keyer.LayoutKey(specHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := sim.UnmarshalLayout(data)
			if err == nil {
				return cached, true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
	}

	layout, err := Simulate(root, opts)
	if err != nil {
		return sim.Layout{}, false, err
	}

	if data, err := sim.MarshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return layout, false, nil
}

// Simulate runs the simulator for a loaded tree and snapshots the result.
func Simulate(root *model.System, opts Options) (sim.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sim.Layout{}, err
	}
	s := sim.New(root)
	s.TurnPenalty = opts.TurnPenalty
	s.HeuristicWeight = opts.HeuristicWeight
	if err := s.Compute(); err != nil {
		return sim.Layout{}, err
	}
	return s.Snapshot(), nil
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
