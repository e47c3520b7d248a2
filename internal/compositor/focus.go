package compositor

import (
	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/input/evdev"
	"github.com/dshills/waycore/internal/input/key"
)

// keyboardHandler implements seat.KeyboardHandler for the compositor:
// every key press is tried against the binding table before anything else
// sees it.
type keyboardHandler struct {
	c *Compositor
}

// Key resolves the pressed key to a symbol and dispatches it against the
// binding table with consumed modifier bits removed. Releases never fire
// bindings.
func (h keyboardHandler) Key(time uint32, code uint32, state evdev.State) bool {
	if state != evdev.Pressed {
		return false
	}

	sym, consumed := h.c.seat.ResolveSym(code)
	if sym == key.SymNone {
		return false
	}

	modifiers := h.c.seat.Modifiers().Without(consumed)
	handled := h.c.bindings.Dispatch(time, sym, modifiers, true)
	if handled {
		h.c.log.Debug("binding handled %s", sym)
	}
	return handled
}

// pointerHandler implements seat.PointerHandler for the compositor.
type pointerHandler struct {
	c *Compositor
}

// Focus re-evaluates pointer focus: the front-most surface whose input
// region contains the pointer wins; no hit clears focus.
func (h pointerHandler) Focus() {
	c := h.c
	px, py := c.seat.PointerPosition()

	for _, s := range c.surfaces {
		localX := px.Int() - s.geometry.X
		localY := py.Int() - s.geometry.Y
		if s.InputContains(localX, localY) {
			c.setPointerFocus(s)
			return
		}
	}
	c.setPointerFocus(nil)
}

func (h pointerHandler) Motion(time uint32) bool {
	return false
}

func (h pointerHandler) Button(time uint32, button uint32, state evdev.State) bool {
	return false
}

func (h pointerHandler) Axis(time uint32, axis evdev.Axis, amount geom.Fixed) bool {
	return false
}

func (c *Compositor) setPointerFocus(s *Surface) {
	if c.pointerFocus == s {
		return
	}
	c.pointerFocus = s
	c.FocusChanged.Emit(s)
}

// PointerFocus returns the surface currently under the pointer, or nil.
func (c *Compositor) PointerFocus() *Surface {
	return c.pointerFocus
}
