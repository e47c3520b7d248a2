// Package signal provides ordered observer lists for intra-process events.
//
// A Signal replaces the intrusive listener chains of C display servers with
// an explicit slice of registered callbacks. Listeners are invoked in
// registration order and identified by opaque handles, so a listener can be
// removed without knowing its position.
package signal

import (
	"github.com/google/uuid"
)

// Handle identifies a registered listener.
type Handle string

// Signal is an ordered list of listeners for values of type T.
// The zero value is ready to use. Signals are not safe for concurrent use;
// waycore confines them to the event-loop goroutine.
type Signal[T any] struct {
	listeners []entry[T]
}

type entry[T any] struct {
	handle Handle
	fn     func(T)
}

// Add registers fn and returns a handle for later removal.
func (s *Signal[T]) Add(fn func(T)) Handle {
	h := Handle(uuid.NewString())
	s.listeners = append(s.listeners, entry[T]{handle: h, fn: fn})
	return h
}

// Remove unregisters the listener identified by h. Removing an unknown
// handle is a no-op.
func (s *Signal[T]) Remove(h Handle) {
	for i, e := range s.listeners {
		if e.handle == h {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Emit invokes every registered listener with v, in registration order.
// The listener list is snapshotted first, so listeners may add or remove
// listeners (including themselves) during emission.
func (s *Signal[T]) Emit(v T) {
	snapshot := append([]entry[T](nil), s.listeners...)
	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len returns the number of registered listeners.
func (s *Signal[T]) Len() int {
	return len(s.listeners)
}
