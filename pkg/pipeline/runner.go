package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codexray/pkg/cache"
	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/observability"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner holds no pipeline results. Multiple goroutines can use the
// same Runner with different options; a palette passed to Render must not
// be shared between concurrent renders of different trees if their colors
// are expected to be reproducible.
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

// WithKeyer returns a copy of the runner that generates keys with keyer.
// The cache is shared.
func (r *Runner) WithKeyer(keyer cache.Keyer) *Runner {
	cp := *r
	cp.Keyer = keyer
	return &cp
}

// =============================================================================
// Build
// =============================================================================

// BuildWithCacheInfo runs the build stage with caching and reports whether
// the tree came from the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, projects []*project.Project, filter project.Filter, opts Options) (*tree.Node, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(projects))
	start := time.Now()

	cacheKey := r.Keyer.TreeKey(cache.HashJSON(buildInputs(projects)), opts.TreeKeyOpts(cache.HashJSON(filter)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if root, err := tree.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				hooks.OnBuildComplete(ctx, root.Count(), time.Since(start), nil)
				return root, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	root := BuildTree(projects, filter, opts)

	if data, err := tree.Marshal(root); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTree); err != nil {
			opts.Logger.Warn("cache tree", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "tree", len(data))
		}
	}

	hooks.OnBuildComplete(ctx, root.Count(), time.Since(start), nil)
	return root, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, projects []*project.Project, filter project.Filter, opts Options) (*tree.Node, error) {
	root, _, err := r.BuildWithCacheInfo(ctx, projects, filter, opts)
	return root, err
}

// =============================================================================
// Layout + Render
// =============================================================================

// Render lays out root and renders it in every requested format.
//
// palette carries the directory colors between renders. When nil, a fresh
// palette is created from the options; otherwise its schemes are switched
// to the configured ones, which clears only the caches of schemes that
// changed.
//
// Artifacts are cached by tree hash, options and palette identity. When
// every format is cached, the layout is still repainted onto
// [paint.Discard] so the hit rectangles and the palette state match a
// real paint.
func (r *Runner) Render(ctx context.Context, root *tree.Node, opts Options, palette *paint.Palette) (*Result, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tree to render")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var err error
	if palette == nil {
		if palette, err = opts.NewPalette(); err != nil {
			return nil, err
		}
	} else if err := palette.Apply(opts.Paint.LeafColor, opts.Paint.InnerColor); err != nil {
		return nil, err
	}

	treeHash, err := TreeHash(root)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	result := &Result{TreeHash: treeHash, Stats: Stats{NodeCount: root.Count()}}

	// Stage 1: Layout
	hooks.OnLayoutStart(ctx, result.Stats.NodeCount)
	layoutStart := time.Now()
	result.Layout = ComputeLayout(root, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BoxCount = len(result.Layout.Boxes)
	hooks.OnLayoutComplete(ctx, result.Stats.BoxCount, result.Stats.LayoutTime, nil)

	opts.Logger.Debug("computed layout",
		"boxes", result.Stats.BoxCount,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, rects, hit, err := r.render(ctx, treeHash, opts, palette, result.Layout)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Rects = rects
	result.CacheInfo.RenderHit = hit

	leaf, inner := palette.Cached()
	opts.Logger.Debug("painted layout",
		"rects", len(rects),
		"leaf_colors", leaf,
		"inner_colors", inner)

	r.Logger.Info("rendered treemap",
		"formats", opts.Formats,
		"boxes", result.Stats.BoxCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime+result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) render(ctx context.Context, treeHash string, opts Options, palette *paint.Palette, l layout.Layout) (map[string][]byte, []paint.HitRect, bool, error) {
	painter := paint.New(opts.Paint, palette)
	paletteID := palette.Identity()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format, paletteID))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, painter.Paint(paint.Discard, l), true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, rects, err := RenderFormats(l, painter, renderOpts)
	if err != nil {
		return nil, nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format, paletteID))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, rects, false, nil
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
