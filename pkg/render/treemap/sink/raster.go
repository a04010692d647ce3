package sink

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/codexray/pkg/fonts"
	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
)

// Raster is a paint.Canvas backed by an in-memory RGBA image.
type Raster struct {
	dc    *gg.Context
	faces map[float64]font.Face
	err   error
}

// NewRaster returns an empty raster. Its size is set by the first Clear.
func NewRaster() *Raster {
	return &Raster{faces: map[float64]font.Face{}}
}

// Clear replaces the image with a transparent one of the given size. Sizes
// are rounded down to whole pixels, with a minimum of one.
func (r *Raster) Clear(width, height float64) {
	r.dc = gg.NewContext(max(1, int(width)), max(1, int(height)))
}

func (r *Raster) StrokeRect(rect layout.Rect, c color.NRGBA, lineWidth float64) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(lineWidth)
	r.dc.DrawRectangle(rect.X0, rect.Y0, rect.Width(), rect.Height())
	r.dc.Stroke()
}

func (r *Raster) FillRect(rect layout.Rect, c color.NRGBA, shadow *paint.Shadow) {
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	if shadow != nil {
		r.drawShadow(shadow, rect.X0, rect.Y0, rect.Width(), rect.Height(), func(dc *gg.Context, dx, dy float64) {
			dc.DrawRectangle(dx, dy, rect.Width(), rect.Height())
			dc.Fill()
		})
	}
	r.dc.SetColor(c)
	r.dc.DrawRectangle(rect.X0, rect.Y0, rect.Width(), rect.Height())
	r.dc.Fill()
}

func (r *Raster) Text(s string, x, y, px float64, clip layout.Rect, c color.NRGBA, shadow *paint.Shadow) {
	if px <= 0 || clip.Width() <= 0 || clip.Height() <= 0 {
		return
	}
	face, err := r.face(px)
	if err != nil {
		r.err = err
		return
	}

	r.dc.Push()
	defer r.dc.Pop()
	r.dc.DrawRectangle(clip.X0, clip.Y0, clip.Width(), clip.Height())
	r.dc.Clip()
	r.dc.SetFontFace(face)

	if shadow != nil {
		// The glow is drawn on its own layer, then composited through the
		// clip.
		w, _ := r.dc.MeasureString(s)
		r.drawShadow(shadow, x-w/2, y-px, w, px*1.3, func(dc *gg.Context, dx, dy float64) {
			dc.SetFontFace(face)
			dc.DrawStringAnchored(s, dx+w/2, dy+px, 0.5, 0)
		})
	}

	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, x, y, 0.5, 0)
}

// drawShadow renders shape in the shadow color on a padded scratch layer,
// blurs it and composites it at (x, y) shifted by the shadow offset.
func (r *Raster) drawShadow(s *paint.Shadow, x, y, w, h float64, shape func(dc *gg.Context, dx, dy float64)) {
	pad := math.Ceil(2 * s.Blur)
	lw, lh := int(math.Ceil(w+2*pad)), int(math.Ceil(h+2*pad))
	if lw <= 0 || lh <= 0 {
		return
	}
	layer := gg.NewContext(lw, lh)
	layer.SetColor(s.Color)
	shape(layer, pad, pad)

	var img image.Image = layer.Image()
	if s.Blur > 0 {
		img = imaging.Blur(img, s.Blur/2)
	}
	r.dc.DrawImage(img, int(x-pad+s.Offset), int(y-pad+s.Offset))
}

func (r *Raster) face(px float64) (font.Face, error) {
	if f, ok := r.faces[px]; ok {
		return f, nil
	}
	f, err := fonts.Face(px)
	if err != nil {
		return nil, err
	}
	r.faces[px] = f
	return f, nil
}

// Image returns the drawn image.
func (r *Raster) Image() image.Image {
	if r.dc == nil {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	return r.dc.Image()
}

// Err reports the first font error hit while drawing labels.
func (r *Raster) Err() error {
	return r.err
}

// Thumbnail scales img down to fit within maxW x maxH, keeping its aspect
// ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}
