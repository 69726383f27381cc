package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phindler/fpdviz/pkg/cache"
	apperrors "github.com/phindler/fpdviz/pkg/errors"
	"github.com/phindler/fpdviz/pkg/fpb"
	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
	"github.com/phindler/fpdviz/pkg/observability"
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

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	m, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Model = m
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.ElementCount = m.ElementCount()
	result.Stats.ErrorCount = len(m.Errors)
	result.CacheInfo.ParseHit = parseHit

	if modelData, err := json.Marshal(m); err == nil {
		result.ModelHash = cache.Hash(modelData)
	}

	r.Logger.Info("parsed document",
		"elements", m.ElementCount(),
		"errors", len(m.Errors),
		"duration", result.Stats.ParseTime)

	if opts.Strict && len(m.Errors) > 0 {
		return nil, apperrors.New(apperrors.ErrCodeParse,
			"document has %d errors, first: %s", len(m.Errors), m.Errors[0])
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	diagram, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Diagram = diagram
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"elements", len(diagram.Elements),
		"systems", len(diagram.Boundaries),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, diagram, opts)
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

// ParseWithCacheInfo parses the source with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*model.Model, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, len(opts.Source))

	cacheKey := r.Keyer.ModelKey(cache.Hash([]byte(opts.Source)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m model.Model
			if err := json.Unmarshal(data, &m); err == nil {
				observability.Cache().OnCacheHit(ctx, "model")
				observability.Pipeline().OnParseComplete(ctx, m.ElementCount(), len(m.Errors), time.Since(start))
				return &m, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "model")
	}

	m := fpb.Parse(opts.Source)
	fpb.Validate(m)

	if !opts.Refresh {
		if data, err := json.Marshal(m); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLModel)
			observability.Cache().OnCacheSet(ctx, "model", len(data))
		}
	}

	observability.Pipeline().OnParseComplete(ctx, m.ElementCount(), len(m.Errors), time.Since(start))
	return m, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*model.Model, error) {
	m, _, err := r.ParseWithCacheInfo(ctx, opts)
	return m, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, m *model.Model, opts Options) (*layout.Diagram, bool, error) {
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, m.ElementCount())

	modelData, err := json.Marshal(m)
	if err != nil {
		return nil, false, fmt.Errorf("serialize model for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(modelData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Diagram
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				observability.Pipeline().OnLayoutComplete(ctx, len(cached.Elements), time.Since(start))
				return &cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	diagram := layout.Compute(m, opts.LayoutConfig())

	if !opts.Refresh {
		if data, err := json.Marshal(diagram); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	observability.Pipeline().OnLayoutComplete(ctx, len(diagram.Elements), time.Since(start))
	return diagram, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, m *model.Model, opts Options) (*layout.Diagram, error) {
	diagram, _, err := r.ComputeLayoutWithCacheInfo(ctx, m, opts)
	return diagram, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *model.Model, diagram *layout.Diagram, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := apperrors.ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	diagramData, err := json.Marshal(diagram)
	if err != nil {
		return nil, false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	layoutHash := cache.Hash(diagramData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := renderFormats(ctx, m, diagram, opts)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *model.Model, diagram *layout.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, m, diagram, opts)
	return artifacts, err
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
