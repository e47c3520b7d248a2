package geom

// Region is a set of points represented as non-overlapping rectangles.
// The zero value is an empty region ready to use. Regions are not safe for
// concurrent mutation; waycore confines them to the event-loop goroutine.
type Region struct {
	rects []Rect
}

// NewRegion returns an empty region.
func NewRegion() *Region {
	return &Region{}
}

// RegionFromRect returns a region covering exactly r.
func RegionFromRect(r Rect) *Region {
	reg := &Region{}
	reg.UnionRect(r)
	return reg
}

// Empty returns true if the region covers no area.
func (g *Region) Empty() bool {
	return len(g.rects) == 0
}

// NumRects returns the number of rectangles in the internal representation.
func (g *Region) NumRects() int {
	return len(g.rects)
}

// Rects returns a copy of the region's rectangles. The rectangles are
// pairwise disjoint; their order is unspecified.
func (g *Region) Rects() []Rect {
	out := make([]Rect, len(g.rects))
	copy(out, g.rects)
	return out
}

// Clone returns an independent copy of the region.
func (g *Region) Clone() *Region {
	return &Region{rects: append([]Rect(nil), g.rects...)}
}

// Clear empties the region.
func (g *Region) Clear() {
	g.rects = g.rects[:0]
}

// Set replaces the region's contents with a copy of other.
func (g *Region) Set(other *Region) {
	g.rects = append(g.rects[:0], other.rects...)
}

// UnionRect adds r to the region.
func (g *Region) UnionRect(r Rect) {
	if r.Empty() {
		return
	}
	// Keep disjointness: add only the parts of r not already covered.
	pending := []Rect{r}
	for _, have := range g.rects {
		var next []Rect
		for _, p := range pending {
			next = p.subtract(have, next)
		}
		pending = next
		if len(pending) == 0 {
			return
		}
	}
	g.rects = append(g.rects, pending...)
}

// Union adds every point of other to the region.
func (g *Region) Union(other *Region) {
	for _, r := range other.rects {
		g.UnionRect(r)
	}
}

// IntersectRect restricts the region to the points inside r.
func (g *Region) IntersectRect(r Rect) {
	out := g.rects[:0]
	for _, have := range g.rects {
		if in, ok := have.Intersect(r); ok {
			out = append(out, in)
		}
	}
	g.rects = out
}

// SubtractRect removes every point of r from the region.
func (g *Region) SubtractRect(r Rect) {
	if r.Empty() {
		return
	}
	var out []Rect
	for _, have := range g.rects {
		out = have.subtract(r, out)
	}
	g.rects = out
}

// Subtract removes every point of other from the region.
func (g *Region) Subtract(other *Region) {
	for _, r := range other.rects {
		g.SubtractRect(r)
		if len(g.rects) == 0 {
			return
		}
	}
}

// Translate shifts the whole region by (dx, dy).
func (g *Region) Translate(dx, dy int32) {
	for i := range g.rects {
		g.rects[i] = g.rects[i].Translate(dx, dy)
	}
}

// Contains reports whether the point (x, y) lies inside the region.
func (g *Region) Contains(x, y int32) bool {
	for _, r := range g.rects {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// ContainsRect reports whether the region fully covers r.
func (g *Region) ContainsRect(r Rect) bool {
	if r.Empty() {
		return true
	}
	pending := []Rect{r}
	for _, have := range g.rects {
		var next []Rect
		for _, p := range pending {
			next = p.subtract(have, next)
		}
		pending = next
		if len(pending) == 0 {
			return true
		}
	}
	return false
}

// Extents returns the bounding rectangle of the region. The extents of an
// empty region are the empty rectangle.
func (g *Region) Extents() Rect {
	if len(g.rects) == 0 {
		return Rect{}
	}
	e := g.rects[0]
	x2, y2 := e.Right(), e.Bottom()
	for _, r := range g.rects[1:] {
		e.X = min32(e.X, r.X)
		e.Y = min32(e.Y, r.Y)
		x2 = max32(x2, r.Right())
		y2 = max32(y2, r.Bottom())
	}
	e.W = x2 - e.X
	e.H = y2 - e.Y
	return e
}

// Area returns the total covered area. Mostly useful in tests.
func (g *Region) Area() int64 {
	var a int64
	for _, r := range g.rects {
		a += int64(r.W) * int64(r.H)
	}
	return a
}

// Equal reports whether g and other cover exactly the same points.
func (g *Region) Equal(other *Region) bool {
	if g.Area() != other.Area() {
		return false
	}
	for _, r := range g.rects {
		if !other.ContainsRect(r) {
			return false
		}
	}
	return true
}
