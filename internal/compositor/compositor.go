// Package compositor implements the waycore core: the damage accumulator,
// the per-output repaint scheduler, the update coordinator gating repaints
// on in-flight flips, pointer focus resolution, and key binding dispatch.
//
// The compositor is an explicitly constructed value owned by the event-loop
// goroutine. Collaborators that touch hardware (renderer, planes, session)
// are narrow interfaces; see interfaces.go.
package compositor

import (
	"github.com/dshills/waycore/internal/eventloop"
	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/input/binding"
	"github.com/dshills/waycore/internal/input/key"
	"github.com/dshills/waycore/internal/logging"
	"github.com/dshills/waycore/internal/seat"
	"github.com/dshills/waycore/internal/signal"
)

// DefaultSurfaceLimit bounds how many surfaces one compositor will
// allocate before reporting out-of-memory to the requester.
const DefaultSurfaceLimit = 1024

// Config assembles a Compositor. Loop, Seat, Renderer and Session are
// required; the seat must already have its devices attached (devices come
// first in the bring-up order).
type Config struct {
	Loop     *eventloop.Loop
	Seat     *seat.Seat
	Renderer Renderer
	Session  Session
	Log      *logging.Logger

	// OnTerminate runs when the terminate binding fires. Defaults to
	// stopping the event loop.
	OnTerminate func()

	// SurfaceLimit overrides DefaultSurfaceLimit when positive.
	SurfaceLimit int
}

// Compositor is the frame-production core. All methods must be called from
// the event-loop goroutine.
type Compositor struct {
	loop     *eventloop.Loop
	seat     *seat.Seat
	renderer Renderer
	session  Session
	log      *logging.Logger

	outputs  []*Output
	surfaces []*Surface // front-to-back

	// Compositor-wide regions, global coordinates. Opaque is recomputed
	// each update cycle; damage is added to and drained.
	damage *geom.Region
	opaque *geom.Region

	scheduled    OutputSet
	pendingFlips OutputSet

	bindings     *binding.Table
	pointerFocus *Surface

	// FocusChanged fires when pointer focus moves to a new surface (nil
	// for "none").
	FocusChanged signal.Signal[*Surface]

	// Destroyed fires at the start of teardown.
	Destroyed signal.Signal[struct{}]

	surfaceLimit  int
	nextSurfaceID SurfaceID
	onTerminate   func()
}

// New wires up a compositor. Initialization order mirrors teardown:
// the seat's handlers, then session, renderer, damage state, and finally
// the default bindings. Outputs are added afterwards as the backend
// discovers them.
func New(cfg Config) (*Compositor, error) {
	for _, req := range []struct {
		name    string
		present bool
	}{
		{"event loop", cfg.Loop != nil},
		{"seat", cfg.Seat != nil},
		{"renderer", cfg.Renderer != nil},
		{"session", cfg.Session != nil},
	} {
		if !req.present {
			return nil, &InitError{Component: req.name, Err: errMissingCollaborator}
		}
	}

	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}

	c := &Compositor{
		loop:         cfg.Loop,
		seat:         cfg.Seat,
		renderer:     cfg.Renderer,
		session:      cfg.Session,
		log:          log.WithComponent("compositor"),
		damage:       geom.NewRegion(),
		opaque:       geom.NewRegion(),
		bindings:     binding.NewTable(),
		surfaceLimit: cfg.SurfaceLimit,
		onTerminate:  cfg.OnTerminate,
	}
	if c.surfaceLimit <= 0 {
		c.surfaceLimit = DefaultSurfaceLimit
	}
	if c.onTerminate == nil {
		c.onTerminate = func() { c.loop.Stop() }
	}

	c.seat.Keyboard = keyboardHandler{c}
	c.seat.Pointer = pointerHandler{c}

	c.registerDefaultBindings()
	return c, nil
}

// registerDefaultBindings installs the built-in chords: Ctrl+Alt+BackSpace
// terminates, and the twelve VT-switch symbols switch VTs regardless of
// modifiers.
func (c *Compositor) registerDefaultBindings() {
	c.AddKeyBinding(key.ModCtrl|key.ModAlt, key.SymBackSpace,
		func(time uint32, sym key.Sym, data any) {
			c.log.Info("terminate binding fired")
			c.onTerminate()
		}, nil)

	for sym := key.SymSwitchVT1; sym <= key.SymSwitchVT12; sym++ {
		c.AddKeyBinding(key.ModAny, sym,
			func(time uint32, sym key.Sym, data any) {
				vt := sym.VT()
				c.log.Info("switching to vt%d", vt)
				if err := c.session.SwitchVT(vt); err != nil {
					c.log.Error("vt switch failed: %v", err)
				}
			}, nil)
	}
}

// AddKeyBinding appends a key binding. Bindings match in registration
// order; the first match wins.
func (c *Compositor) AddKeyBinding(modifiers key.Modifier, sym key.Sym, handler binding.Handler, data any) {
	c.bindings.Add(modifiers, sym, handler, data)
}

// Bindings returns the binding table, for configuration loading and the
// control interface.
func (c *Compositor) Bindings() *binding.Table {
	return c.bindings
}

// ResetBindings drops every user binding and reinstalls the built-in
// ones. Configuration reload uses this before re-applying its bindings.
func (c *Compositor) ResetBindings() {
	c.bindings.Clear()
	c.registerDefaultBindings()
}

// Seat returns the compositor's seat.
func (c *Compositor) Seat() *seat.Seat {
	return c.seat
}

// AddOutput registers a display sink with the given global geometry and
// flip target. The pointer region grows to cover it.
func (c *Compositor) AddOutput(geometry geom.Rect, plane Plane) (*Output, error) {
	if len(c.outputs) >= maxOutputs {
		return nil, ErrTooManyOutputs
	}
	o := &Output{
		id:             OutputID(len(c.outputs)),
		geometry:       geometry,
		plane:          plane,
		previousDamage: geom.NewRegion(),
	}
	c.outputs = append(c.outputs, o)
	c.updatePointerRegion()
	c.log.Info("output %d at %dx%d+%d+%d", o.id, geometry.W, geometry.H, geometry.X, geometry.Y)
	return o, nil
}

// Outputs returns the outputs in registration order.
func (c *Compositor) Outputs() []*Output {
	return c.outputs
}

func (c *Compositor) updatePointerRegion() {
	region := geom.NewRegion()
	for _, o := range c.outputs {
		region.UnionRect(o.geometry)
	}
	c.seat.SetPointerRegion(region)
}

// CreateSurface allocates a surface on behalf of a client and stacks it in
// front. Allocation failure is reported to the requester as ErrNoMemory
// and leaves all other state untouched.
func (c *Compositor) CreateSurface() (*Surface, error) {
	if len(c.surfaces) >= c.surfaceLimit {
		return nil, ErrNoMemory
	}
	s := newSurface(c.nextSurfaceID)
	c.nextSurfaceID++
	c.surfaces = append([]*Surface{s}, c.surfaces...)
	return s, nil
}

// DestroySurface removes a surface from the stack and damages the area it
// covered. Focus moves off it if it held focus.
func (c *Compositor) DestroySurface(s *Surface) error {
	idx := c.surfaceIndex(s)
	if idx < 0 {
		return ErrUnknownSurface
	}
	c.surfaces = append(c.surfaces[:idx], c.surfaces[idx+1:]...)

	if c.pointerFocus == s {
		c.setPointerFocus(nil)
	}

	c.damage.UnionRect(s.geometry)
	c.scheduleDamagedOutputs(s.geometry)
	return nil
}

// Raise moves a surface to the front of the stack.
func (c *Compositor) Raise(s *Surface) error {
	idx := c.surfaceIndex(s)
	if idx < 0 {
		return ErrUnknownSurface
	}
	c.surfaces = append(c.surfaces[:idx], c.surfaces[idx+1:]...)
	c.surfaces = append([]*Surface{s}, c.surfaces...)
	return nil
}

func (c *Compositor) surfaceIndex(s *Surface) int {
	for i, have := range c.surfaces {
		if have == s {
			return i
		}
	}
	return -1
}

// Surfaces returns the surface stack front-to-back.
func (c *Compositor) Surfaces() []*Surface {
	return c.surfaces
}

// Commit applies a surface's pending state: updates are scheduled for
// every output the surface's geometry intersects.
func (c *Compositor) Commit(s *Surface) error {
	if c.surfaceIndex(s) < 0 {
		return ErrUnknownSurface
	}
	c.scheduleDamagedOutputs(s.geometry)
	return nil
}

func (c *Compositor) scheduleDamagedOutputs(area geom.Rect) {
	for _, o := range c.outputs {
		if _, ok := o.geometry.Intersect(area); ok {
			c.ScheduleUpdate(o)
		}
	}
}

// HandleSessionEvent reacts to VT enter/leave: display mastership is
// acquired on enter and released on leave. The mechanics are delegated to
// the session layer.
func (c *Compositor) HandleSessionEvent(ev SessionEvent) {
	switch ev {
	case VTEnter:
		if err := c.session.SetMaster(); err != nil {
			c.log.Error("acquiring display mastership: %v", err)
		}
	case VTLeave:
		if err := c.session.DropMaster(); err != nil {
			c.log.Error("releasing display mastership: %v", err)
		}
	}
}

// Close tears the compositor down in reverse bring-up order.
func (c *Compositor) Close() {
	c.Destroyed.Emit(struct{}{})
	c.bindings.Clear()
	c.surfaces = nil
	c.outputs = nil
	c.seat.Keyboard = nil
	c.seat.Pointer = nil
}
