package pipeline

import (
	"fmt"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/render/treemap/sink"
)

// RenderFormats paints l once per requested format with p and returns the
// encoded outputs keyed by format together with the hit rectangles.
//
// The rectangles come from the last paint. They are identical for every
// format since painting is deterministic for a given layout and palette
// state.
func RenderFormats(l layout.Layout, p *paint.Painter, opts Options) (map[string][]byte, []paint.HitRect, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var rects []paint.HitRect

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, rects, err = sink.RenderPNG(l, p)
		case FormatJPEG:
			data, rects, err = sink.RenderJPEG(l, p, sink.WithQuality(opts.Quality))
		case FormatSVG:
			data, rects = sink.RenderSVG(l, p)
		case FormatJSON:
			rects = p.Paint(paint.Discard, l)
			data, err = sink.RenderJSON(l, rects,
				sink.WithJSONKPI(opts.KPI),
				sink.WithJSONConfig(opts.Paint),
				sink.WithJSONTree())
		default:
			return nil, nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	if rects == nil {
		rects = p.Paint(paint.Discard, l)
	}
	return artifacts, rects, nil
}
