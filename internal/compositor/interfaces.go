package compositor

import (
	"github.com/dshills/waycore/internal/geom"
)

// Renderer is the pixel-producing collaborator. The core tells it which
// surfaces changed, which plane to draw into, and which regions to repaint;
// how pixels get produced is outside the core.
type Renderer interface {
	// Flush uploads a surface's current content ahead of compositing.
	Flush(s *Surface)

	// SetTarget selects the plane subsequent Repaint calls draw into.
	SetTarget(plane Plane)

	// Repaint draws the composited frame. totalDamage is everything to
	// redraw; baseDamage is the subset not covered by any opaque surface,
	// where existing buffer content cannot be reused. Both are in global
	// coordinates. stack is the surface stack front-to-back.
	Repaint(totalDamage, baseDamage *geom.Region, stack []*Surface)
}

// Plane is an opaque handle to an output's framebuffer plane. Flip submits
// an atomic buffer swap; completion arrives later through
// Compositor.HandleFlipComplete with the output's identifier and a
// hardware timestamp.
type Plane interface {
	Flip() error
}

// Session mediates display-hardware mastership and virtual-terminal
// switching. The mechanics (DRM master ioctls, VT ioctls) live behind it.
type Session interface {
	SetMaster() error
	DropMaster() error
	SwitchVT(vt int) error
}

// SessionEvent is a VT enter/leave notification from the session layer.
type SessionEvent int

const (
	// VTEnter means this compositor's VT became active; it must acquire
	// display mastership.
	VTEnter SessionEvent = iota
	// VTLeave means the user switched away; mastership must be released.
	VTLeave
)

// String returns the event name.
func (e SessionEvent) String() string {
	switch e {
	case VTEnter:
		return "vt-enter"
	case VTLeave:
		return "vt-leave"
	default:
		return "unknown"
	}
}
