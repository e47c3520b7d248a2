// Package seat aggregates input devices into one logical seat: a keyboard
// modifier state, a pointer position, and the handler registration points
// the compositor core hooks into.
//
// The seat implements the evdev handler contract, so normalized device
// events flow directly into it. Handlers return true to consume an event;
// unconsumed events would continue to protocol delivery, which sits outside
// the core.
package seat

import (
	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/input/evdev"
	"github.com/dshills/waycore/internal/input/key"
	"github.com/dshills/waycore/internal/logging"
	"github.com/dshills/waycore/internal/signal"
)

// KeyboardHandler receives keyboard key events. Key reports whether the
// event was consumed (by a binding, typically).
type KeyboardHandler interface {
	Key(time uint32, code uint32, state evdev.State) bool
}

// PointerHandler receives pointer events. Focus is invoked after every
// pointer motion so the compositor can re-evaluate which surface is under
// the pointer.
type PointerHandler interface {
	Focus()
	Motion(time uint32) bool
	Button(time uint32, button uint32, state evdev.State) bool
	Axis(time uint32, axis evdev.Axis, amount geom.Fixed) bool
}

// Seat owns the input state for one logical seat.
type Seat struct {
	Name string

	// Handler registration points, set by the compositor during bring-up.
	Keyboard KeyboardHandler
	Pointer  PointerHandler

	// CapabilitiesChanged fires when device hotplug changes what the seat
	// can do.
	CapabilitiesChanged signal.Signal[evdev.Capability]

	devices []*evdev.Device
	caps    evdev.Capability

	// Keyboard modifier state: per-modifier depressed key counts, so a
	// chord of left and right Ctrl releases cleanly.
	modCounts map[key.Modifier]int

	// Pointer state.
	px, py        geom.Fixed
	pointerRegion *geom.Region

	log *logging.Logger
}

// New creates a seat with the given name ("seat0" conventionally).
func New(name string, log *logging.Logger) *Seat {
	return &Seat{
		Name:          name,
		modCounts:     make(map[key.Modifier]int),
		pointerRegion: geom.NewRegion(),
		log:           log.WithComponent("seat").WithField("seat", name),
	}
}

// AddDevice wraps reader in a normalizing device owned by this seat and
// returns it. The caller registers the device's descriptor on the event
// loop; enumeration and hotplug notification are external concerns.
func (s *Seat) AddDevice(reader evdev.Reader) *evdev.Device {
	dev := evdev.NewDevice(reader, s, s.log)
	s.devices = append(s.devices, dev)

	if caps := s.recomputeCapabilities(); caps != s.caps {
		s.caps = caps
		s.CapabilitiesChanged.Emit(caps)
	}
	return dev
}

// RemoveDevice detaches a device from the seat.
func (s *Seat) RemoveDevice(dev *evdev.Device) {
	for i, d := range s.devices {
		if d == dev {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			break
		}
	}
	if caps := s.recomputeCapabilities(); caps != s.caps {
		s.caps = caps
		s.CapabilitiesChanged.Emit(caps)
	}
}

func (s *Seat) recomputeCapabilities() evdev.Capability {
	var caps evdev.Capability
	for _, d := range s.devices {
		caps |= d.Capabilities()
	}
	return caps
}

// Capabilities returns the union of all device capabilities.
func (s *Seat) Capabilities() evdev.Capability {
	return s.caps
}

// Devices returns the seat's devices.
func (s *Seat) Devices() []*evdev.Device {
	return s.devices
}

// Modifiers returns the live effective modifier mask.
func (s *Seat) Modifiers() key.Modifier {
	var mods key.Modifier
	for m, n := range s.modCounts {
		if n > 0 {
			mods = mods.With(m)
		}
	}
	return mods
}

// ResolveSym resolves a key code against the current modifier state,
// returning the symbol and the modifier bits consumed by the resolution.
func (s *Seat) ResolveSym(code uint32) (key.Sym, key.Modifier) {
	return resolveSym(code, s.Modifiers())
}

// SetPointerRegion restricts the pointer to the given region (the union of
// output geometries). The current position is re-clamped.
func (s *Seat) SetPointerRegion(region *geom.Region) {
	s.pointerRegion = region.Clone()
	s.px, s.py = s.clamp(s.px, s.py)
}

// PointerPosition returns the pointer's current position.
func (s *Seat) PointerPosition() (x, y geom.Fixed) {
	return s.px, s.py
}

// clamp confines a position to the pointer region's extents.
func (s *Seat) clamp(x, y geom.Fixed) (geom.Fixed, geom.Fixed) {
	ext := s.pointerRegion.Extents()
	if ext.Empty() {
		return x, y
	}
	minX := geom.FixedFromInt(ext.X)
	maxX := geom.FixedFromInt(ext.Right() - 1)
	minY := geom.FixedFromInt(ext.Y)
	maxY := geom.FixedFromInt(ext.Bottom() - 1)

	if x < minX {
		x = minX
	} else if x > maxX {
		x = maxX
	}
	if y < minY {
		y = minY
	} else if y > maxY {
		y = maxY
	}
	return x, y
}

// Key implements evdev.Handler. Modifier state updates before the handler
// runs so the handler sees the post-event mask.
func (s *Seat) Key(time uint32, code uint32, state evdev.State) {
	if mod, ok := modifierCodes[code]; ok {
		switch state {
		case evdev.Pressed:
			s.modCounts[mod]++
		case evdev.Released:
			if s.modCounts[mod] > 0 {
				s.modCounts[mod]--
			}
		}
	}

	if s.Keyboard != nil {
		s.Keyboard.Key(time, code, state)
	}
}

// Button implements evdev.Handler.
func (s *Seat) Button(time uint32, button uint32, state evdev.State) {
	if s.Pointer != nil {
		s.Pointer.Button(time, button, state)
	}
}

// Axis implements evdev.Handler.
func (s *Seat) Axis(time uint32, axis evdev.Axis, amount geom.Fixed) {
	if s.Pointer != nil {
		s.Pointer.Axis(time, axis, amount)
	}
}

// RelativeMotion implements evdev.Handler. The pointer moves by (dx, dy)
// clamped to the pointer region, then the motion and focus hooks run.
func (s *Seat) RelativeMotion(time uint32, dx, dy geom.Fixed) {
	s.px, s.py = s.clamp(s.px+dx, s.py+dy)

	if s.Pointer != nil {
		s.Pointer.Motion(time)
		s.Pointer.Focus()
	}
}
