// Package geom provides the geometric primitives used throughout waycore:
// integer rectangles and points, a region type over sets of non-overlapping
// rectangles, and the 24.8 fixed-point coordinate type used for pointer
// positions and scroll amounts.
//
// Regions carry no notion of coordinate space themselves. Binary region
// operations require both operands to be in the same space (surface-local or
// global); callers translate before combining.
package geom

// Point is an integer coordinate pair.
type Point struct {
	X, Y int32
}

// Rect is an axis-aligned rectangle identified by its top-left corner
// and its extent. A rectangle with non-positive width or height is empty.
type Rect struct {
	X, Y int32
	W, H int32
}

// NewRect returns a rectangle at (x, y) with extent (w, h).
func NewRect(x, y, w, h int32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty returns true if r covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the exclusive right edge.
func (r Rect) Right() int32 { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int32 { return r.Y + r.H }

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int32) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy int32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect returns the overlap of r and o. The second result is false
// when the rectangles do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x1 := max32(r.X, o.X)
	y1 := max32(r.Y, o.Y)
	x2 := min32(r.Right(), o.Right())
	y2 := min32(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}, false
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// subtract returns the parts of r not covered by o, as up to four
// non-overlapping rectangles appended to dst.
func (r Rect) subtract(o Rect, dst []Rect) []Rect {
	in, ok := r.Intersect(o)
	if !ok {
		return append(dst, r)
	}
	// Band above.
	if in.Y > r.Y {
		dst = append(dst, Rect{X: r.X, Y: r.Y, W: r.W, H: in.Y - r.Y})
	}
	// Band below.
	if in.Bottom() < r.Bottom() {
		dst = append(dst, Rect{X: r.X, Y: in.Bottom(), W: r.W, H: r.Bottom() - in.Bottom()})
	}
	// Left and right slivers within the overlap band.
	if in.X > r.X {
		dst = append(dst, Rect{X: r.X, Y: in.Y, W: in.X - r.X, H: in.H})
	}
	if in.Right() < r.Right() {
		dst = append(dst, Rect{X: in.Right(), Y: in.Y, W: r.Right() - in.Right(), H: in.H})
	}
	return dst
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
