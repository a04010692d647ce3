// Package layout computes squarified treemap layouts.
//
// [Build] assigns every node with a positive value an axis-aligned
// rectangle nested in its parent's. Inner nodes reserve a label strip at the
// top and a border on the other three sides before their children are
// tiled. Children are tiled with the squarify heuristic: sorted by value,
// grouped into rows that keep the worst aspect ratio as close to the target
// ratio as possible, each row laid along the shorter side of the remaining
// space.
//
// Rectangle area is proportional to node value within the parent's
// interior. When a parent also holds files of its own, its value exceeds
// the sum of its children and the remainder of the interior stays empty.
package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/codexray/pkg/tree"
)

// Phi is the golden ratio, the default target aspect ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// Box is a node with its rectangle.
type Box struct {
	Node *tree.Node
	Rect Rect
}

// Layout is the result of Build. Boxes are in pre-order: every parent
// precedes its children, and siblings follow in descending value.
type Layout struct {
	Width        float64
	Height       float64
	PaddingTop   float64
	PaddingOuter float64
	Boxes        []Box
}

// Root returns the root box, or false when nothing was laid out.
func (l Layout) Root() (Box, bool) {
	if len(l.Boxes) == 0 {
		return Box{}, false
	}
	return l.Boxes[0], true
}

// Option configures Build.
type Option func(*builder)

// WithPadding sets the label strip height and the border width reserved
// by every inner node.
func WithPadding(top, outer float64) Option {
	return func(b *builder) {
		b.top = max(0, top)
		b.outer = max(0, outer)
	}
}

// WithRatio sets the target aspect ratio of the squarify heuristic. Values
// below 1 are treated as 1.
func WithRatio(ratio float64) Option {
	return func(b *builder) { b.ratio = max(1, ratio) }
}

// DefaultPadding derives label and border padding from the canvas height.
func DefaultPadding(height float64) (top, outer float64) {
	top = math.Floor(height / 35)
	outer = math.Floor(top / 2)
	return top, outer
}

type builder struct {
	top, outer float64
	ratio      float64
	boxes      []Box
}

// Build lays out the annotated tree rooted at root on a width x height
// canvas. The root fills the canvas. Nodes with a zero value get no box,
// so a zero-valued root yields a layout without boxes. Negative sizes are
// clamped to zero.
func Build(root *tree.Node, width, height float64, opts ...Option) Layout {
	width, height = max(0, width), max(0, height)
	top, outer := DefaultPadding(height)
	b := &builder{top: top, outer: outer, ratio: Phi}
	for _, opt := range opts {
		opt(b)
	}

	l := Layout{Width: width, Height: height, PaddingTop: b.top, PaddingOuter: b.outer}
	if root == nil || root.Value <= 0 {
		return l
	}
	b.place(root, Rect{0, 0, width, height})
	l.Boxes = b.boxes
	return l
}

func (b *builder) place(n *tree.Node, r Rect) {
	b.boxes = append(b.boxes, Box{Node: n, Rect: r})

	kids := visibleChildren(n)
	if len(kids) == 0 {
		return
	}

	var sum int64
	for _, k := range kids {
		sum += k.Value
	}
	total := max(n.Value, sum)

	inner := r.Inset(b.outer, b.top, b.outer, b.outer)
	rects := b.squarify(kids, total, inner)
	for i, k := range kids {
		b.place(k, rects[i])
	}
}

// visibleChildren returns the children with a positive value, largest
// first. The node's own child order is left alone.
func visibleChildren(n *tree.Node) []*tree.Node {
	kids := make([]*tree.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Value > 0 {
			kids = append(kids, c)
		}
	}
	slices.SortStableFunc(kids, func(a, b *tree.Node) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return kids
}

// squarify tiles r with one rectangle per node. Each row takes the share
// sum/value of the remaining space, where value is what is left of total.
// When total equals the sum of the nodes, the rows exactly fill r.
func (b *builder) squarify(nodes []*tree.Node, total int64, r Rect) []Rect {
	rects := make([]Rect, len(nodes))
	value := float64(total)
	x0, y0, x1, y1 := r.X0, r.Y0, r.X1, r.Y1

	for i0, i1, n := 0, 0, len(nodes); i0 < n; i0 = i1 {
		dx, dy := x1-x0, y1-y0
		if dx <= 0 || dy <= 0 {
			// No area left: the rest collapse onto the remaining edge.
			for i := i0; i < n; i++ {
				rects[i] = Rect{x0, y0, max(x0, x1), max(y0, y1)}
			}
			break
		}

		sum := float64(nodes[i1].Value)
		i1++
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * b.ratio)
		beta := sum * sum * alpha
		best := math.Max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := float64(nodes[i1].Value)
			s := sum + v
			lo, hi := math.Min(minV, v), math.Max(maxV, v)
			beta = s * s * alpha
			worst := math.Max(hi/beta, beta/lo)
			if worst > best {
				break
			}
			sum, minV, maxV, best = s, lo, hi, worst
		}

		last := i1 == n && sum >= value
		row := nodes[i0:i1]
		if dx < dy {
			// The row spans the full width and takes a horizontal band.
			ry := y1
			if !last && dy > 0 {
				ry = y0 + dy*sum/value
			}
			dice(row, rects[i0:i1], sum, x0, y0, x1, ry)
			y0 = ry
		} else {
			// The row spans the full height and takes a vertical band.
			rx := x1
			if !last && dx > 0 {
				rx = x0 + dx*sum/value
			}
			slice(row, rects[i0:i1], sum, x0, y0, rx, y1)
			x0 = rx
		}
		value -= sum
	}
	return rects
}

// dice splits [x0, x1] among nodes proportionally, each spanning y0..y1.
func dice(nodes []*tree.Node, out []Rect, sum, x0, y0, x1, y1 float64) {
	k := 0.0
	if sum > 0 {
		k = (x1 - x0) / sum
	}
	x := x0
	for i, n := range nodes {
		next := x + float64(n.Value)*k
		if i == len(nodes)-1 {
			next = x1
		}
		out[i] = Rect{x, y0, next, y1}
		x = next
	}
}

// slice splits [y0, y1] among nodes proportionally, each spanning x0..x1.
func slice(nodes []*tree.Node, out []Rect, sum, x0, y0, x1, y1 float64) {
	k := 0.0
	if sum > 0 {
		k = (y1 - y0) / sum
	}
	y := y0
	for i, n := range nodes {
		next := y + float64(n.Value)*k
		if i == len(nodes)-1 {
			next = y1
		}
		out[i] = Rect{x0, y, x1, next}
		y = next
	}
}
