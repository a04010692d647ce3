package paint

import (
	"image/color"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
)

// Shadow is a blurred drop shadow offset down and to the right.
type Shadow struct {
	Color  color.NRGBA
	Blur   float64
	Offset float64
}

// Canvas is a drawing surface. Coordinates are canvas pixels with the
// origin at the top left.
type Canvas interface {
	// Clear resets the whole surface to transparent and sets its size.
	Clear(width, height float64)
	// StrokeRect outlines r.
	StrokeRect(r layout.Rect, c color.NRGBA, lineWidth float64)
	// FillRect fills r, casting shadow when it is non-nil.
	FillRect(r layout.Rect, c color.NRGBA, shadow *Shadow)
	// Text draws s horizontally centered on x with its baseline at y, using
	// a px-sized sans-serif face. Nothing is drawn outside clip.
	Text(s string, x, y, px float64, clip layout.Rect, c color.NRGBA, shadow *Shadow)
}

// Discard is a Canvas that draws nothing. Painting onto it yields the hit
// rectangles of a layout without rasterizing.
var Discard Canvas = discard{}

type discard struct{}

func (discard) Clear(float64, float64) {}
func (discard) StrokeRect(layout.Rect, color.NRGBA, float64) {}
func (discard) FillRect(layout.Rect, color.NRGBA, *Shadow) {}
func (discard) Text(string, float64, float64, float64, layout.Rect, color.NRGBA, *Shadow) {}
