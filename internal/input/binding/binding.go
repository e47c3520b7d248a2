// Package binding implements the key binding table: registered
// modifier+keysym combinations dispatched against incoming key presses.
package binding

import (
	"fmt"

	"github.com/dshills/waycore/internal/input/key"
)

// Handler is invoked when a binding fires. It receives the device-level key
// time, the resolved symbol, and the binding's opaque data.
type Handler func(time uint32, sym key.Sym, data any)

// Binding associates a modifier mask and key symbol with a handler.
// A modifier mask of key.ModAny matches any effective modifiers.
type Binding struct {
	Modifiers key.Modifier
	Sym       key.Sym
	Handler   Handler
	Data      any
}

// String formats the binding's trigger for logs and the control interface.
func (b Binding) String() string {
	if b.Modifiers == key.ModNone {
		return b.Sym.String()
	}
	return fmt.Sprintf("%s+%s", b.Modifiers, b.Sym)
}

// Table is an append-only, ordered binding table. Registration order is
// match order: the first matching binding fires and the rest are skipped.
type Table struct {
	bindings []Binding
}

// NewTable returns an empty binding table.
func NewTable() *Table {
	return &Table{}
}

// Add appends a binding to the table.
func (t *Table) Add(modifiers key.Modifier, sym key.Sym, handler Handler, data any) {
	t.bindings = append(t.bindings, Binding{
		Modifiers: modifiers,
		Sym:       sym,
		Handler:   handler,
		Data:      data,
	})
}

// Bindings returns a copy of the registered bindings, for introspection.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Len returns the number of registered bindings.
func (t *Table) Len() int {
	return len(t.bindings)
}

// Clear removes all bindings. Used when re-applying configuration.
func (t *Table) Clear() {
	t.bindings = t.bindings[:0]
}

// Dispatch fires the first binding matching sym and modifiers and reports
// whether one fired. modifiers must already have consumed bits removed by
// the caller; bindings only fire on press, so pressed=false always returns
// false. At most one binding fires per call.
func (t *Table) Dispatch(time uint32, sym key.Sym, modifiers key.Modifier, pressed bool) bool {
	if !pressed {
		return false
	}
	for _, b := range t.bindings {
		if b.Sym != sym {
			continue
		}
		if b.Modifiers == key.ModAny || b.Modifiers == modifiers {
			b.Handler(time, sym, b.Data)
			return true
		}
	}
	return false
}
