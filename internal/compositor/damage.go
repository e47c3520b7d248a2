package compositor

import (
	"github.com/dshills/waycore/internal/geom"
)

// accumulateDamage walks the surface stack top-down once, recomputing every
// surface's clip region and folding per-surface damage into the
// compositor-wide damage region. It must run to completion before any
// output repaint in the same update pass.
func (c *Compositor) accumulateDamage() {
	c.opaque.Clear()

	for _, s := range c.surfaces {
		// Clip the surface by the opaque content already covering it:
		// surfaces earlier in the traversal are stacked in front.
		s.clip.Set(c.opaque)

		surfaceOpaque := s.opaque.Clone()
		surfaceOpaque.Translate(s.geometry.X, s.geometry.Y)
		c.opaque.Union(surfaceOpaque)

		if !s.damage.Empty() {
			c.renderer.Flush(s)

			s.damage.Translate(s.geometry.X, s.geometry.Y)
			c.damage.Union(s.damage)
			s.damage.Clear()
		}

		if s.border.damaged {
			borderRegion := geom.RegionFromRect(s.border.extents)
			borderRegion.SubtractRect(s.geometry)
			c.damage.Union(borderRegion)
			s.border.damaged = false
		}
	}
}
