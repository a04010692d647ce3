// Package pipeline provides the treemap pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: filter the projects, build one directory tree per project,
//     optionally collapse single-child chains, compose and roll up
//  2. Layout: tile the annotated tree with nested squarified rectangles
//  3. Render: paint the layout into each requested format and collect the
//     hit rectangles used to map clicks back to directories
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{pipeline.FormatSVG}
//
//	root, err := runner.Build(ctx, set.Projects(), filter, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Render(ctx, root, opts, nil)
//	svg := result.Artifacts["svg"]
//
// A long-lived caller such as a server session passes its own palette to
// Render so directory colors stay stable across repaints.
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codexray/pkg/cache"
	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 2000.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 1000.0

	// MinSize is the smallest canvas side accepted.
	MinSize = 96.0

	// MaxWidth and MaxHeight bound the canvas so a single request cannot
	// allocate an unbounded raster.
	MaxWidth  = 8192.0
	MaxHeight = 4096.0

	// DefaultKPI is the statistic box areas are proportional to.
	DefaultKPI = stats.KPICode

	// DefaultContainerName names the synthetic root of a multi-project tree.
	DefaultContainerName = "Projects"

	// DefaultQuality is the JPEG quality.
	DefaultQuality = 90
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatSVG:  true,
	FormatJSON: true,
}

// FormatNames lists the supported formats in a stable order.
var FormatNames = []string{FormatPNG, FormatJPEG, FormatSVG, FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the treemap pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	KPI           stats.KPI `json:"kpi,omitempty"`
	Collapse      bool      `json:"collapse,omitempty"`
	ContainerName string    `json:"container_name,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats []string     `json:"formats,omitempty"`
	Paint   paint.Config `json:"paint"`
	Seed    uint64       `json:"seed,omitempty"`
	Quality int          `json:"quality,omitempty"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"` // Skip cache reads
	Logger  *log.Logger `json:"-"`
}

// DefaultOptions returns options with every default applied. Request bodies
// are decoded over it so omitted fields keep their defaults.
func DefaultOptions() Options {
	o := Options{Paint: paint.DefaultConfig()}
	o.SetDefaults()
	return o
}

// Result contains the outputs of a render.
type Result struct {
	// TreeHash is the content hash of the rendered tree.
	TreeHash string

	// Layout is the computed box geometry.
	Layout layout.Layout

	// Rects are the hit rectangles in paint order.
	Rects []paint.HitRect

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	BoxCount   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits of a render. Tree cache hits are reported
// by [Runner.BuildWithCacheInfo].
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in unset fields. A missing width or height is derived
// from the other at 16:9; both sides are then clamped to the supported
// range. A zero paint configuration is replaced by the default one.
func (o *Options) SetDefaults() {
	if o.KPI == "" {
		o.KPI = DefaultKPI
	}
	if o.ContainerName == "" {
		o.ContainerName = DefaultContainerName
	}

	switch {
	case o.Width <= 0 && o.Height <= 0:
		o.Width, o.Height = DefaultWidth, DefaultHeight
	case o.Height <= 0:
		o.Height = math.Round(o.Width * 9 / 16)
	case o.Width <= 0:
		o.Width = math.Round(o.Height * 16 / 9)
	}
	o.Width = math.Min(MaxWidth, math.Max(MinSize, math.Floor(o.Width)))
	o.Height = math.Min(MaxHeight, math.Max(MinSize, math.Floor(o.Height)))

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Paint == (paint.Config{}) {
		o.Paint = paint.DefaultConfig()
	}
	if o.Seed == 0 {
		o.Seed = paint.DefaultSeed
	}
	if o.Quality <= 0 {
		o.Quality = DefaultQuality
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after defaults are applied.
func (o *Options) Validate() error {
	if _, err := stats.ParseKPI(string(o.KPI)); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "quality %d out of range 1-100", o.Quality)
	}
	return o.Paint.Validate()
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// TreeKeyOpts returns cache key options for tree building.
func (o *Options) TreeKeyOpts(filterHash string) cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		KPI:        string(o.KPI),
		Collapse:   o.Collapse,
		FilterHash: filterHash + "/" + o.ContainerName,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// paletteID is the painting palette's identity.
func (o *Options) ArtifactKeyOpts(format, paletteID string) cache.ArtifactKeyOpts {
	paintHash := cache.HashJSON(o.Paint)
	if format == FormatJPEG {
		paintHash = fmt.Sprintf("%s/q%d", paintHash, o.Quality)
	}
	return cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		Paint:   paintHash,
		Palette: paletteID,
	}
}

// NewPalette returns a palette for the configured color schemes and seed.
func (o *Options) NewPalette() (*paint.Palette, error) {
	return paint.NewPalette(o.Paint.LeafColor, o.Paint.InnerColor, o.Seed)
}

// TreeHash returns the content hash of an annotated tree.
func TreeHash(root *tree.Node) (string, error) {
	data, err := tree.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("serialize tree for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
