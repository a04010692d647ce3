package paint

import (
	"image/color"

	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
)

// Recorder is a Canvas that keeps every call, in order.
type Recorder struct {
	Width, Height float64
	Ops           []Op
}

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpStroke OpKind = iota
	OpFill
	OpText
)

// Op is one recorded drawing call. Fields that do not apply to the kind are
// zero.
type Op struct {
	Kind      OpKind
	Rect      layout.Rect
	Color     color.NRGBA
	LineWidth float64
	Shadow    *Shadow
	Text      string
	X, Y, Px  float64
}

func (r *Recorder) Clear(width, height float64) {
	r.Width, r.Height = width, height
	r.Ops = r.Ops[:0]
}

func (r *Recorder) StrokeRect(rect layout.Rect, c color.NRGBA, lineWidth float64) {
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Rect: rect, Color: c, LineWidth: lineWidth})
}

func (r *Recorder) FillRect(rect layout.Rect, c color.NRGBA, shadow *Shadow) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Rect: rect, Color: c, Shadow: shadow})
}

func (r *Recorder) Text(s string, x, y, px float64, clip layout.Rect, c color.NRGBA, shadow *Shadow) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: s, X: x, Y: y, Px: px, Rect: clip, Color: c, Shadow: shadow})
}
