// Package sink turns a treemap layout into output files.
//
// # Overview
//
// Every sink paints the layout through a [paint.Painter] onto its own
// [paint.Canvas] and returns the encoded bytes together with the painter's
// hit rectangles, so callers can answer clicks on the produced image:
//
//   - PNG: raster image drawn with fogleman/gg, labels in Go Regular
//   - JPEG: the PNG raster flattened onto a background color
//   - SVG: vector output with per-label clip paths and drop-shadow filters
//   - JSON: the annotated tree, the box geometry and the hit rectangles
//
// # Usage
//
//	p := paint.New(paint.DefaultConfig(), palette)
//	png, rects, err := sink.RenderPNG(l, p)
//
// [Thumbnail] shrinks a raster for previews.
//
// The sinks share the painter's palette. Rendering the same layout to several
// formats with one painter gives identical colors in all of them.
package sink
