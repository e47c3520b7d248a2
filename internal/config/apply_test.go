package config

import (
	"errors"
	"testing"

	"github.com/dshills/waycore/internal/backend/headless"
	"github.com/dshills/waycore/internal/compositor"
	"github.com/dshills/waycore/internal/eventloop"
	"github.com/dshills/waycore/internal/input/evdev"
	"github.com/dshills/waycore/internal/logging"
	"github.com/dshills/waycore/internal/seat"
)

func newTestCompositor(t *testing.T) (*compositor.Compositor, *seat.Seat) {
	t.Helper()
	loop, err := eventloop.New(logging.Discard())
	if err != nil {
		t.Fatalf("eventloop.New: %v", err)
	}
	t.Cleanup(loop.Close)

	st := seat.New("seat0", logging.Discard())
	comp, err := compositor.New(compositor.Config{
		Loop:     loop,
		Seat:     st,
		Renderer: headless.NewRenderer(nil),
		Session:  headless.NewSession(nil),
	})
	if err != nil {
		t.Fatalf("compositor.New: %v", err)
	}
	return comp, st
}

func TestApplyBindings(t *testing.T) {
	comp, st := newTestCompositor(t)

	fired := 0
	reg := NewRegistry()
	reg.Register("count", func() { fired++ })

	cfg := Default()
	cfg.Bindings = []BindingConfig{{Keys: "ctrl+x", Action: "count"}}
	if err := ApplyBindings(cfg, comp, reg, logging.Discard()); err != nil {
		t.Fatalf("ApplyBindings: %v", err)
	}

	st.Key(1, uint32(evdev.KeyLeftCtrl), evdev.Pressed)
	st.Key(2, 45, evdev.Pressed) // 'x'
	if fired != 1 {
		t.Errorf("action fired %d times, want 1", fired)
	}
}

func TestApplyBindingsUnknownAction(t *testing.T) {
	comp, _ := newTestCompositor(t)

	cfg := Default()
	cfg.Bindings = []BindingConfig{{Keys: "F2", Action: "no-such-action"}}
	err := ApplyBindings(cfg, comp, NewRegistry(), nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ApplyBindings = %v, want ErrUnknownAction", err)
	}
}

func TestApplyBindingsResetsOnReload(t *testing.T) {
	comp, st := newTestCompositor(t)

	old, current := 0, 0
	reg := NewRegistry()
	reg.Register("old", func() { old++ })
	reg.Register("current", func() { current++ })

	cfg := Default()
	cfg.Bindings = []BindingConfig{{Keys: "ctrl+x", Action: "old"}}
	if err := ApplyBindings(cfg, comp, reg, nil); err != nil {
		t.Fatalf("first ApplyBindings: %v", err)
	}

	cfg.Bindings = []BindingConfig{{Keys: "ctrl+x", Action: "current"}}
	if err := ApplyBindings(cfg, comp, reg, nil); err != nil {
		t.Fatalf("second ApplyBindings: %v", err)
	}

	st.Key(1, uint32(evdev.KeyLeftCtrl), evdev.Pressed)
	st.Key(2, 45, evdev.Pressed) // 'x'
	if old != 0 || current != 1 {
		t.Errorf("old=%d current=%d, want 0 and 1", old, current)
	}

	// The built-in bindings survive the reset.
	if comp.Bindings().Len() < 13 {
		t.Errorf("binding table has %d entries, defaults missing", comp.Bindings().Len())
	}
}
