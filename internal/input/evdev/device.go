// Package evdev normalizes raw Linux input device events into the canonical
// pointer and keyboard events the rest of waycore consumes.
//
// A Device wraps one hardware input stream. On each readiness notification it
// drains every available raw event in a single pass, invoking its handler
// synchronously in arrival order. Bursts of relative-motion samples are
// coalesced into one motion event per drain, so downstream consumers see at
// most one motion notification per readiness callback.
package evdev

import (
	"errors"

	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/logging"
)

// AxisStepDistance is the distance one wheel detent scrolls, in pixels.
const AxisStepDistance = 10

// Reader errors.
var (
	// ErrNoEvents indicates the reader has no buffered events left.
	ErrNoEvents = errors.New("no events available")
)

// RawEvent is one undecoded event from the kernel.
type RawEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Millis returns the event timestamp in milliseconds.
func (e RawEvent) Millis() uint32 {
	return uint32(e.Sec*1000 + e.Usec/1000)
}

// ReadMode selects between normal draining and sync-catch-up draining.
type ReadMode int

const (
	// ReadNormal drains events in arrival order.
	ReadNormal ReadMode = iota
	// ReadSync drains catch-up events after a buffer overrun.
	ReadSync
)

// Status qualifies a successful read.
type Status int

const (
	// StatusOK is a normally-delivered event.
	StatusOK Status = iota
	// StatusSync indicates the device buffer overran and the caller must
	// drain catch-up events with ReadSync before resuming normal reads.
	StatusSync
)

// Reader supplies raw events and device capabilities. The fd-backed
// implementation lives in fd.go; tests use a scripted fake.
type Reader interface {
	// Next returns the next raw event. It returns ErrNoEvents when the
	// stream is drained (in ReadSync mode: when resynchronization is
	// complete).
	Next(mode ReadMode) (RawEvent, Status, error)

	// HasEventCode reports whether the device advertises the given
	// event type and code.
	HasEventCode(typ, code uint16) bool

	// Name returns the device's human-readable name.
	Name() string
}

// Capability classifies what a device can do.
type Capability uint32

const (
	// CapKeyboard is set for devices exposing a representative key.
	CapKeyboard Capability = 1 << iota
	// CapPointer is set for devices exposing relative X/Y axes and a
	// primary button.
	CapPointer
)

// String formats the capability set like "keyboard+pointer".
func (c Capability) String() string {
	switch {
	case c == CapKeyboard|CapPointer:
		return "keyboard+pointer"
	case c == CapKeyboard:
		return "keyboard"
	case c == CapPointer:
		return "pointer"
	default:
		return "none"
	}
}

// State is the pressed/released state of a key or button.
type State int

const (
	// Released means the key or button was let go.
	Released State = iota
	// Pressed means the key or button went down.
	Pressed
)

// Axis identifies a scroll axis.
type Axis int

const (
	// AxisVertical is the vertical scroll axis.
	AxisVertical Axis = iota
	// AxisHorizontal is the horizontal scroll axis.
	AxisHorizontal
)

// Handler receives normalized events. Callbacks are invoked synchronously
// from within the device's drain pass.
type Handler interface {
	Key(time uint32, code uint32, state State)
	Button(time uint32, code uint32, state State)
	Axis(time uint32, axis Axis, amount geom.Fixed)
	RelativeMotion(time uint32, dx, dy geom.Fixed)
}

// Device normalizes one input device's raw event stream.
type Device struct {
	reader  Reader
	handler Handler
	caps    Capability
	log     *logging.Logger

	// Relative-motion accumulator, flushed once per logical frame tick.
	motion struct {
		dx, dy  int32
		pending bool
	}
}

// NewDevice classifies the device behind reader and wires it to handler.
func NewDevice(reader Reader, handler Handler, log *logging.Logger) *Device {
	d := &Device{
		reader:  reader,
		handler: handler,
		log:     log.WithComponent("evdev").WithField("device", reader.Name()),
	}

	if reader.HasEventCode(EvKey, KeyEnter) {
		d.caps |= CapKeyboard
		d.log.Debug("device is a keyboard")
	}
	if reader.HasEventCode(EvRel, RelX) && reader.HasEventCode(EvRel, RelY) &&
		reader.HasEventCode(EvKey, BtnMouse) {
		d.caps |= CapPointer
		d.log.Debug("device is a pointer")
	}
	// Touch and tablet devices are deferred; absolute axes classify but
	// emit nothing.

	return d
}

// Capabilities returns the device's capability classification.
func (d *Device) Capabilities() Capability {
	return d.caps
}

// Name returns the device's human-readable name.
func (d *Device) Name() string {
	return d.reader.Name()
}

// HandleData drains all currently-available raw events. It is the readiness
// callback registered on the event loop for the device's descriptor.
func (d *Device) HandleData() {
	var lastTime uint32

	for {
		ev, status, err := d.reader.Next(ReadNormal)
		if err != nil {
			if !errors.Is(err, ErrNoEvents) {
				d.log.Warn("read failed: %v", err)
			}
			break
		}

		if status == StatusSync {
			// Buffered state desync: absorb catch-up events until the
			// reader reports resynchronized. Sync frames emit nothing.
			for {
				_, _, err := d.reader.Next(ReadSync)
				if err != nil {
					break
				}
			}
			continue
		}

		lastTime = ev.Millis()

		if !isMotionEvent(ev) {
			d.flushMotion(lastTime)
		}
		d.dispatch(ev)
	}

	d.flushMotion(lastTime)
}

func isMotionEvent(ev RawEvent) bool {
	return (ev.Type == EvRel && (ev.Code == RelX || ev.Code == RelY)) ||
		(ev.Type == EvAbs && (ev.Code == AbsX || ev.Code == AbsY))
}

func (d *Device) dispatch(ev RawEvent) {
	switch ev.Type {
	case EvKey:
		d.handleKey(ev)
	case EvRel:
		d.handleRel(ev)
	case EvAbs:
		// Recognized but intentionally unhandled.
	default:
		// No handler registered for this event type.
	}
}

func (d *Device) handleKey(ev RawEvent) {
	state := Released
	if ev.Value != 0 {
		state = Pressed
	}
	if isButtonCode(ev.Code) {
		d.handler.Button(ev.Millis(), uint32(ev.Code), state)
	} else {
		d.handler.Key(ev.Millis(), uint32(ev.Code), state)
	}
}

func (d *Device) handleRel(ev RawEvent) {
	switch ev.Code {
	case RelX:
		d.motion.dx += ev.Value
		d.motion.pending = true
	case RelY:
		d.motion.dy += ev.Value
		d.motion.pending = true
	case RelWheel:
		// The vertical wheel's sign is inverted relative to the
		// horizontal wheel. Deliberate; do not "fix".
		amount := geom.FixedFromInt(ev.Value).Mul(-AxisStepDistance)
		d.handler.Axis(ev.Millis(), AxisVertical, amount)
	case RelHWheel:
		amount := geom.FixedFromInt(ev.Value).Mul(AxisStepDistance)
		d.handler.Axis(ev.Millis(), AxisHorizontal, amount)
	}
}

// flushMotion emits the accumulated relative-motion delta as one event and
// resets the accumulator.
func (d *Device) flushMotion(time uint32) {
	if !d.motion.pending {
		return
	}
	dx := geom.FixedFromInt(d.motion.dx)
	dy := geom.FixedFromInt(d.motion.dy)
	d.handler.RelativeMotion(time, dx, dy)

	d.motion.pending = false
	d.motion.dx = 0
	d.motion.dy = 0
}
