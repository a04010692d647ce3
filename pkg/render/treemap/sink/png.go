package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
)

// RasterOption configures PNG and JPEG rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	quality    int
	background color.Color
	thumbW     int
	thumbH     int
}

// WithQuality sets the JPEG quality, 1 to 100 (default 90).
func WithQuality(q int) RasterOption {
	return func(r *rasterRenderer) { r.quality = min(100, max(1, q)) }
}

// WithBackground sets the color transparent areas are flattened onto. JPEG
// always flattens (default white); PNG only when this option is given.
func WithBackground(c color.Color) RasterOption {
	return func(r *rasterRenderer) { r.background = c }
}

// WithThumbnail shrinks the encoded image to fit within w x h. Hit rectangles
// keep full-size coordinates; map clicks with hit.Scale.
func WithThumbnail(w, h int) RasterOption {
	return func(r *rasterRenderer) { r.thumbW, r.thumbH = w, h }
}

func newRasterRenderer(opts []RasterOption) rasterRenderer {
	r := rasterRenderer{quality: 90}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Rasterize paints l onto a new Raster and returns the image and hit
// rectangles.
func Rasterize(l layout.Layout, p *paint.Painter) (image.Image, []paint.HitRect, error) {
	canvas := NewRaster()
	rects := p.Paint(canvas, l)
	if err := canvas.Err(); err != nil {
		return nil, nil, fmt.Errorf("draw labels: %w", err)
	}
	return canvas.Image(), rects, nil
}

func (r rasterRenderer) finish(img image.Image, flatten bool) image.Image {
	if r.thumbW > 0 && r.thumbH > 0 {
		img = Thumbnail(img, r.thumbW, r.thumbH)
	}
	if flatten || r.background != nil {
		bg := r.background
		if bg == nil {
			bg = color.White
		}
		b := img.Bounds()
		img = imaging.Overlay(imaging.New(b.Dx(), b.Dy(), bg), img, image.Pt(0, 0), 1.0)
	}
	return img
}

// RenderPNG renders l as a PNG with a transparent background.
func RenderPNG(l layout.Layout, p *paint.Painter, opts ...RasterOption) ([]byte, []paint.HitRect, error) {
	r := newRasterRenderer(opts)
	img, rects, err := Rasterize(l, p)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.finish(img, false), imaging.PNG); err != nil {
		return nil, nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), rects, nil
}

// RenderJPEG renders l as a JPEG flattened onto the background color.
func RenderJPEG(l layout.Layout, p *paint.Painter, opts ...RasterOption) ([]byte, []paint.HitRect, error) {
	r := newRasterRenderer(opts)
	img, rects, err := Rasterize(l, p)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.finish(img, true), imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), rects, nil
}
