// Package hit maps canvas coordinates back to tree nodes.
package hit

import (
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/tree"
)

// Find returns the innermost node whose hit rectangle contains (x, y). Since
// children are painted after their parents, that is the last containing
// rectangle in paint order. It returns nil when nothing matches or when the
// match is the synthetic multi-project container.
func Find(rects []paint.HitRect, x, y float64) *tree.Node {
	for i := len(rects) - 1; i >= 0; i-- {
		r := rects[i]
		if !r.Contains(x, y) {
			continue
		}
		if r.Node == nil || r.Node.Depth < 0 {
			return nil
		}
		return r.Node
	}
	return nil
}

// Scale converts a point on a displayed canvas to canvas pixels. The canvas
// may be drawn larger or smaller than its pixel size; a non-positive display
// size leaves the coordinate unchanged.
func Scale(x, y, displayW, displayH, canvasW, canvasH float64) (float64, float64) {
	if displayW > 0 {
		x = x * canvasW / displayW
	}
	if displayH > 0 {
		y = y * canvasH / displayH
	}
	return x, y
}
