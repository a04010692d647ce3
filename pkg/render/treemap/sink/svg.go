package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"

	"github.com/matzehuels/codexray/pkg/fonts"
	"github.com/matzehuels/codexray/pkg/render/treemap/layout"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
)

// SVG is a paint.Canvas that writes SVG elements.
type SVG struct {
	width, height float64
	body          bytes.Buffer
	filters       map[string]bool
	clips         int
}

// NewSVG returns an empty SVG canvas.
func NewSVG() *SVG {
	return &SVG{filters: map[string]bool{}}
}

func (s *SVG) Clear(width, height float64) {
	s.width, s.height = width, height
	s.body.Reset()
	clear(s.filters)
	s.clips = 0
}

func (s *SVG) StrokeRect(r layout.Rect, c color.NRGBA, lineWidth float64) {
	fmt.Fprintf(&s.body, `  <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="none" stroke="%s" stroke-width="%.0f"/>`+"\n",
		r.X0, r.Y0, r.Width(), r.Height(), hexColor(c), lineWidth)
}

func (s *SVG) FillRect(r layout.Rect, c color.NRGBA, shadow *paint.Shadow) {
	if r.Width() <= 0 || r.Height() <= 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s"%s/>`+"\n",
		r.X0, r.Y0, r.Width(), r.Height(), hexColor(c), s.filterAttr(shadow))
}

func (s *SVG) Text(text string, x, y, px float64, clip layout.Rect, c color.NRGBA, shadow *paint.Shadow) {
	if px <= 0 || clip.Width() <= 0 || clip.Height() <= 0 {
		return
	}
	s.clips++
	id := fmt.Sprintf("clip-%d", s.clips)
	fmt.Fprintf(&s.body, `  <clipPath id="%s"><rect x="%.0f" y="%.0f" width="%.0f" height="%.0f"/></clipPath>`+"\n",
		id, clip.X0, clip.Y0, clip.Width(), clip.Height())
	fmt.Fprintf(&s.body, `  <text x="%.0f" y="%.0f" clip-path="url(#%s)" text-anchor="middle" font-family="%s" font-size="%.0f" fill="%s"%s>%s</text>`+"\n",
		x, y, id, fonts.FontFamily, px, hexColor(c), s.filterAttr(shadow), escapeXML(text))
}

// filterAttr returns the filter attribute for shadow, defining the filter on
// first use.
func (s *SVG) filterAttr(shadow *paint.Shadow) string {
	if shadow == nil {
		return ""
	}
	c := shadow.Color
	id := fmt.Sprintf("shadow-%02x%02x%02x%02x-%.0f", c.R, c.G, c.B, c.A, shadow.Blur)
	if !s.filters[id] {
		s.filters[id] = true
		fmt.Fprintf(&s.body, `  <defs><filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feDropShadow dx="%.0f" dy="%.0f" stdDeviation="%.1f" flood-color="%s" flood-opacity="%.2f"/>`+
			`</filter></defs>`+"\n",
			id, shadow.Offset, shadow.Offset, shadow.Blur/2, hexColor(c), float64(c.A)/255)
	}
	return fmt.Sprintf(` filter="url(#%s)"`, id)
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderSVG renders l as an SVG document.
func RenderSVG(l layout.Layout, p *paint.Painter) ([]byte, []paint.HitRect) {
	canvas := NewSVG()
	rects := p.Paint(canvas, l)
	return canvas.Bytes(), rects
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
