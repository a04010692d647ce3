package layout

// Rect is an axis-aligned rectangle in canvas pixels. X1 >= X0 and Y1 >= Y0
// for every rectangle produced by this package.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns X1 - X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1 - Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the centroid.
func (r Rect) Center() (x, y float64) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Inset shrinks r by the given amounts per side. A side pair that would
// cross is collapsed onto its midpoint instead, so the result is never
// negative-sized.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	out := Rect{r.X0 + left, r.Y0 + top, r.X1 - right, r.Y1 - bottom}
	if out.X1 < out.X0 {
		mid := (out.X0 + out.X1) / 2
		out.X0, out.X1 = mid, mid
	}
	if out.Y1 < out.Y0 {
		mid := (out.Y0 + out.Y1) / 2
		out.Y0, out.Y1 = mid, mid
	}
	return out
}
