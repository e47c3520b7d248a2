package geom

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Rect
		want   Rect
		wantOK bool
	}{
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 5, 5), Rect{}, false},
		{"touching edges", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), Rect{}, false},
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5), true},
		{"contained", NewRect(0, 0, 100, 100), NewRect(10, 10, 5, 5), NewRect(10, 10, 5, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Intersect ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRegionUnionDisjointness(t *testing.T) {
	g := NewRegion()
	g.UnionRect(NewRect(0, 0, 100, 100))
	g.UnionRect(NewRect(50, 50, 100, 100))
	g.UnionRect(NewRect(0, 0, 100, 100)) // fully covered already

	// Total area of the two overlapping squares is 2*10000 - 2500.
	if got := g.Area(); got != 17500 {
		t.Errorf("Area = %d, want 17500", got)
	}

	rects := g.Rects()
	for i, a := range rects {
		for _, b := range rects[i+1:] {
			if _, ok := a.Intersect(b); ok {
				t.Fatalf("rects overlap: %+v and %+v", a, b)
			}
		}
	}
}

func TestRegionSubtract(t *testing.T) {
	g := RegionFromRect(NewRect(0, 0, 100, 100))
	g.SubtractRect(NewRect(25, 25, 50, 50))

	if got := g.Area(); got != 7500 {
		t.Errorf("Area = %d, want 7500", got)
	}
	if g.Contains(50, 50) {
		t.Error("Contains(50,50) = true after subtracting the center")
	}
	for _, p := range []Point{{0, 0}, {99, 99}, {24, 50}, {75, 50}} {
		if !g.Contains(p.X, p.Y) {
			t.Errorf("Contains(%d,%d) = false, want true", p.X, p.Y)
		}
	}
}

func TestRegionIntersectRect(t *testing.T) {
	g := NewRegion()
	g.UnionRect(NewRect(0, 0, 50, 50))
	g.UnionRect(NewRect(100, 100, 50, 50))
	g.IntersectRect(NewRect(0, 0, 120, 120))

	if got := g.Area(); got != 50*50+20*20 {
		t.Errorf("Area = %d, want %d", got, 50*50+20*20)
	}
}

func TestRegionTranslate(t *testing.T) {
	g := RegionFromRect(NewRect(0, 0, 10, 10))
	g.Translate(5, -5)
	if !g.Contains(5, -5) || g.Contains(0, 0) {
		t.Errorf("Translate moved region incorrectly: %+v", g.Rects())
	}
}

func TestRegionExtents(t *testing.T) {
	g := NewRegion()
	if got := g.Extents(); !got.Empty() {
		t.Errorf("empty region extents = %+v, want empty", got)
	}
	g.UnionRect(NewRect(10, 10, 5, 5))
	g.UnionRect(NewRect(-20, 0, 5, 5))
	want := NewRect(-20, 0, 35, 15)
	if got := g.Extents(); got != want {
		t.Errorf("Extents = %+v, want %+v", got, want)
	}
}

func TestRegionEqual(t *testing.T) {
	a := RegionFromRect(NewRect(0, 0, 10, 10))
	b := NewRegion()
	b.UnionRect(NewRect(0, 0, 10, 5))
	b.UnionRect(NewRect(0, 5, 10, 5))
	if !a.Equal(b) {
		t.Error("regions built from different rect splits should be equal")
	}
	b.UnionRect(NewRect(10, 0, 1, 1))
	if a.Equal(b) {
		t.Error("regions with different coverage reported equal")
	}
}

func TestRegionSubtractRegion(t *testing.T) {
	a := RegionFromRect(NewRect(0, 0, 100, 100))
	b := NewRegion()
	b.UnionRect(NewRect(0, 0, 100, 50))
	b.UnionRect(NewRect(0, 50, 50, 50))
	a.Subtract(b)

	want := RegionFromRect(NewRect(50, 50, 50, 50))
	if !a.Equal(want) {
		t.Errorf("Subtract result = %+v, want %+v", a.Rects(), want.Rects())
	}
}

func TestFixedRoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 100, -100, 8388607}
	for _, v := range tests {
		if got := FixedFromInt(v).Int(); got != v {
			t.Errorf("FixedFromInt(%d).Int() = %d", v, got)
		}
	}
	if got := FixedFromFloat(1.5).Float64(); got != 1.5 {
		t.Errorf("FixedFromFloat(1.5).Float64() = %v", got)
	}
}
