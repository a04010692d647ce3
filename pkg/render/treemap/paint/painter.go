// Package paint draws a treemap layout onto a Canvas.
//
// The painter walks the layout's boxes in order, so parents are drawn before
// their children and each child covers part of its parent. Every drawn box
// also yields a [HitRect]; the last rectangle containing a point is the
// innermost node under it.
//
// Colors come from a [Palette], which remembers the color of every node name
// between paints. Reusing a palette keeps colors stable while the tree is
// filtered or resized.
package paint

import (
	"image/color"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/tree"
)

var (
	black       = color.NRGBA{A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	shadowBlack = color.NRGBA{A: 128}
)

const lineWidth = 2

// HitRect is the integer pixel area a node occupies on the canvas, bounds
// inclusive.
type HitRect struct {
	Node   *tree.Node `json:"-"`
	Left   int        `json:"l"`
	Top    int        `json:"t"`
	Right  int        `json:"r"`
	Bottom int        `json:"b"`
}

// Contains reports whether (x, y) lies within r.
func (r HitRect) Contains(x, y float64) bool {
	return float64(r.Left) <= x && x <= float64(r.Right) &&
		float64(r.Top) <= y && y <= float64(r.Bottom)
}

// Painter draws layouts with a fixed configuration and palette.
type Painter struct {
	Config  Config
	Palette *Palette
}

// New returns a painter. A nil palette is replaced by DefaultPalette.
func New(cfg Config, p *Palette) *Painter {
	if p == nil {
		p = DefaultPalette()
	}
	return &Painter{Config: cfg, Palette: p}
}

// metrics are the pixel sizes derived from the layout padding.
type metrics struct {
	shrink     float64
	boxShadow  float64
	fontPx     float64
	fontShadow float64
	levels     float64
}

func newMetrics(l layout.Layout, root *tree.Node) metrics {
	fontPx := math.Floor(0.9 * l.PaddingTop)
	return metrics{
		shrink:     math.Floor(l.PaddingOuter / 2),
		boxShadow:  math.Floor(l.PaddingOuter / 2),
		fontPx:     fontPx,
		fontShadow: math.Floor(fontPx / 3),
		levels:     float64(max(1, root.InvDepth+root.Depth)),
	}
}

// Paint clears c, draws l onto it and returns the hit rectangles in paint
// order. Painting never fails; an empty layout leaves a cleared canvas.
func (p *Painter) Paint(c Canvas, l layout.Layout) []HitRect {
	c.Clear(l.Width, l.Height)
	root, ok := l.Root()
	if !ok {
		return nil
	}

	cfg := p.Config
	m := newMetrics(l, root.Node)
	rects := make([]HitRect, 0, len(l.Boxes))

	for _, b := range l.Boxes {
		n := b.Node
		depth := n.Depth
		if depth < cfg.HideBelow || depth > cfg.HideAbove {
			continue
		}

		r := b.Rect
		shrunk := depth <= cfg.ShrinkDepth()
		if shrunk {
			r.X0 += m.shrink
			r.X1 -= m.shrink
			r.Y1 -= m.shrink
		}

		rects = append(rects, HitRect{
			Node:   n,
			Left:   int(r.X0),
			Top:    int(r.Y0),
			Right:  int(r.X1),
			Bottom: int(r.Y1),
		})
		px := pixelRect(r)
		leaf := n.IsLeaf()

		if cfg.Lines && !leaf && !shrunk {
			c.StrokeRect(px, black, lineWidth)
		}

		if cfg.Boxes {
			var shadow *Shadow
			if cfg.BoxShadows && leaf {
				shadow = newShadow(shadowBlack, m.boxShadow)
			}
			c.FillRect(px, p.Palette.Color(leaf, float64(depth)/m.levels, n.Name), shadow)
		}

		if !cfg.Labels || depth > cfg.HideLabelsAbove {
			continue
		}
		label := n.Name
		if cfg.LabKPI && depth <= cfg.ThinLabelsAbove {
			label += " (" + humanize.Comma(n.Value) + ")"
		}
		var shadow *Shadow
		if cfg.LabShadows {
			shadow = newShadow(white, m.fontShadow)
		}
		x := math.Trunc((r.X0 + r.X1) / 2)
		y := math.Trunc(r.Y0 + m.fontPx*0.9)
		c.Text(label, x, y, m.fontPx, px, black, shadow)
	}
	return rects
}

// pixelRect snaps r to whole pixels: the origin is truncated and so is the
// size, matching how a 2D context is fed integer rectangles.
func pixelRect(r layout.Rect) layout.Rect {
	x, y := math.Trunc(r.X0), math.Trunc(r.Y0)
	w, h := math.Trunc(r.X1-r.X0), math.Trunc(r.Y1-r.Y0)
	return layout.Rect{X0: x, Y0: y, X1: x + max(0, w), Y1: y + max(0, h)}
}

func newShadow(c color.NRGBA, blur float64) *Shadow {
	if blur <= 0 {
		return nil
	}
	return &Shadow{Color: c, Blur: blur, Offset: math.Floor(blur / 4)}
}
