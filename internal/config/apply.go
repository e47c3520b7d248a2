package config

import (
	"fmt"

	"github.com/dshills/waycore/internal/compositor"
	"github.com/dshills/waycore/internal/input/key"
	"github.com/dshills/waycore/internal/logging"
)

// Action is a named operation a key binding can trigger.
type Action func()

// Registry maps binding action names to their implementations. The
// daemon registers its actions once; configuration files refer to them
// by name.
type Registry struct {
	actions map[string]Action
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds an action under the given name, replacing any previous
// registration.
func (r *Registry) Register(name string, action Action) {
	r.actions[name] = action
}

// Lookup returns the action for name.
func (r *Registry) Lookup(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered action names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// ApplyBindings installs cfg's key bindings into the compositor. The
// binding table is reset first so that reloads replace rather than
// accumulate.
func ApplyBindings(cfg *Config, c *compositor.Compositor, reg *Registry, log *logging.Logger) error {
	if log == nil {
		log = logging.Discard()
	}

	c.ResetBindings()
	for _, b := range cfg.Bindings {
		mods, sym, err := ParseChord(b.Keys)
		if err != nil {
			return err
		}
		action, ok := reg.Lookup(b.Action)
		if !ok {
			return fmt.Errorf("binding %q: %w: %q", b.Keys, ErrUnknownAction, b.Action)
		}
		name := b.Action
		c.AddKeyBinding(mods, sym,
			func(time uint32, sym key.Sym, data any) {
				log.Debug("action %s fired by %s", name, sym)
				action()
			}, nil)
		log.Info("bound %s to %s", b.Keys, b.Action)
	}
	return nil
}
