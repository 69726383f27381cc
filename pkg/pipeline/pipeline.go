// Package pipeline provides the core processing pipeline for fpdviz.
//
// This package implements the complete parse → validate → layout → render
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Turn FPB source text into a process model and validate its
//     connection semantics
//  2. Layout: Compute element positions and system boundaries
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT,
//     FPB text, VDI 3682 XML)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  source,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/phindler/fpdviz/pkg/cache"
	apperrors "github.com/phindler/fpdviz/pkg/errors"
	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
	"github.com/phindler/fpdviz/pkg/session"
)

// DefaultScale is the default PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatFPB = "fpb"
	FormatXML = "xml"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatFPB: true,
	FormatXML: true,
	FormatSVG: true,
	FormatPDF: true,
	FormatPNG: true,
	FormatDOT: true,
}

// Options contains all configuration for the processing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source is the FPB document to process.
	Source string `json:"source"`

	// Layout options. Zero values take the layout defaults.
	Padding         float64 `json:"padding,omitempty"`
	HGap            float64 `json:"h_gap,omitempty"`
	VGap            float64 `json:"v_gap,omitempty"`
	BoundaryPadding float64 `json:"boundary_padding,omitempty"`
	ResourceOffsetX float64 `json:"resource_offset_x,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor
	Detailed bool     `json:"detailed,omitempty"` // Include IDs in DOT labels

	// Strict fails the pipeline when the document has parse or validation
	// errors instead of carrying them in the result.
	Strict bool `json:"strict,omitempty"`

	// Refresh bypasses the cache for all stages.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the parsed process model, including any document errors.
	Model *model.Model

	// ModelHash is the content hash of the model.
	ModelHash string

	// Diagram contains the positioned elements and boundaries.
	Diagram *layout.Diagram

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Session packages the result for the session store.
func (r *Result) Session(ttl time.Duration, source string) *session.Session {
	s := session.New(ttl)
	s.Source = source
	s.Model = r.Model
	s.Diagram = r.Diagram
	return s
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	ErrorCount   int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the model came from cache
	LayoutHit bool // Whether the diagram came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := apperrors.ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if err := apperrors.ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutConfig returns the layout configuration with defaults filled in.
func (o *Options) LayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	if o.Padding != 0 {
		cfg.Padding = o.Padding
	}
	if o.HGap != 0 {
		cfg.HGap = o.HGap
	}
	if o.VGap != 0 {
		cfg.VGap = o.VGap
	}
	if o.BoundaryPadding != 0 {
		cfg.BoundaryPadding = o.BoundaryPadding
	}
	if o.ResourceOffsetX != 0 {
		cfg.ResourceOffsetX = o.ResourceOffsetX
	}
	return cfg
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	return cache.LayoutKeyOpts{
		Padding:         cfg.Padding,
		HGap:            cfg.HGap,
		VGap:            cfg.VGap,
		BoundaryPadding: cfg.BoundaryPadding,
		ResourceOffsetX: cfg.ResourceOffsetX,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
