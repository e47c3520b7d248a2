package compositor

import (
	"github.com/dshills/waycore/internal/geom"
)

// SurfaceID identifies a surface within one compositor.
type SurfaceID uint32

// FrameFunc is a client frame-done callback, invoked with the flip
// timestamp once every output's flip for a cycle has completed.
type FrameFunc func(time uint32)

// Surface is a client-owned drawable plus the per-surface state the core
// maintains for it. Geometry is in global coordinates; the damage, opaque
// and input regions are surface-local. The clip region and border state are
// owned by the core and mutated only during damage accumulation.
type Surface struct {
	id       SurfaceID
	geometry geom.Rect

	damage *geom.Region // surface-local, drained each accumulation pass
	opaque *geom.Region // surface-local
	input  *geom.Region // surface-local, hit-testing

	// clip is the global-space region covered by opaque content in front
	// of this surface, recomputed every frame and read by the renderer.
	clip *geom.Region

	border struct {
		damaged bool
		extents geom.Rect
	}

	frameCallbacks []FrameFunc
}

func newSurface(id SurfaceID) *Surface {
	return &Surface{
		id:     id,
		damage: geom.NewRegion(),
		opaque: geom.NewRegion(),
		input:  geom.NewRegion(),
		clip:   geom.NewRegion(),
	}
}

// ID returns the surface's identifier.
func (s *Surface) ID() SurfaceID { return s.id }

// Geometry returns the surface's global-space geometry.
func (s *Surface) Geometry() geom.Rect { return s.geometry }

// SetGeometry moves or resizes the surface. The input region is unchanged;
// callers damage the surface separately when content changes.
func (s *Surface) SetGeometry(r geom.Rect) {
	s.geometry = r
}

// Damage adds a surface-local rectangle to the surface's pending damage.
func (s *Surface) Damage(r geom.Rect) {
	s.damage.UnionRect(r)
}

// DamageAll damages the surface's whole content rectangle.
func (s *Surface) DamageAll() {
	s.damage.UnionRect(geom.NewRect(0, 0, s.geometry.W, s.geometry.H))
}

// HasDamage reports whether the surface has pending damage.
func (s *Surface) HasDamage() bool {
	return !s.damage.Empty()
}

// SetOpaque replaces the surface's opaque region (surface-local).
func (s *Surface) SetOpaque(region *geom.Region) {
	s.opaque = region.Clone()
}

// SetInput replaces the surface's input region (surface-local).
func (s *Surface) SetInput(region *geom.Region) {
	s.input = region.Clone()
}

// InputContains reports whether the surface-local point is inside the
// surface's input region.
func (s *Surface) InputContains(x, y int32) bool {
	return s.input.Contains(x, y)
}

// Clip returns the surface's clip region: the global-space area covered by
// opaque content stacked in front of it. Valid after each accumulation
// pass; the renderer must not draw this surface there.
func (s *Surface) Clip() *geom.Region {
	return s.clip
}

// DamageBorder marks the surface's decorative border, covering extents in
// global coordinates, as needing redraw.
func (s *Surface) DamageBorder(extents geom.Rect) {
	s.border.extents = extents
	s.border.damaged = true
}

// AddFrameCallback registers a frame-done callback. Callbacks fire once,
// in registration order, and are discarded after delivery.
func (s *Surface) AddFrameCallback(fn FrameFunc) {
	s.frameCallbacks = append(s.frameCallbacks, fn)
}

// sendFrameCallbacks delivers and clears the pending frame callbacks.
func (s *Surface) sendFrameCallbacks(time uint32) {
	callbacks := s.frameCallbacks
	s.frameCallbacks = nil
	for _, fn := range callbacks {
		fn(time)
	}
}
