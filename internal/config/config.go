// Package config loads and applies waycored configuration.
//
// Configuration comes from three sources layered in order: built-in
// defaults, a TOML or YAML file, and an optional Lua script that can
// add outputs and key bindings programmatically.
package config

import (
	"fmt"
	"strings"

	"github.com/dshills/waycore/internal/input/key"
)

// Config is the full waycored configuration.
type Config struct {
	// Log configures the logger.
	Log LogConfig `toml:"log" yaml:"log"`

	// Seat is the seat name reported to clients.
	Seat string `toml:"seat" yaml:"seat"`

	// Outputs are the outputs to create at startup.
	Outputs []OutputConfig `toml:"outputs" yaml:"outputs"`

	// Input configures raw input devices.
	Input InputConfig `toml:"input" yaml:"input"`

	// Bindings are the key bindings to install.
	Bindings []BindingConfig `toml:"bindings" yaml:"bindings"`

	// IPC configures the control socket.
	IPC IPCConfig `toml:"ipc" yaml:"ipc"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// OutputConfig places one output in the global coordinate space.
type OutputConfig struct {
	X      int32 `toml:"x" yaml:"x"`
	Y      int32 `toml:"y" yaml:"y"`
	Width  int32 `toml:"width" yaml:"width"`
	Height int32 `toml:"height" yaml:"height"`
}

// InputConfig configures raw input.
type InputConfig struct {
	// Devices are evdev device paths to open at startup.
	Devices []string `toml:"devices" yaml:"devices"`
}

// BindingConfig describes one key binding.
type BindingConfig struct {
	// Keys is the chord, e.g. "ctrl+alt+t". The final element is the
	// key name; everything before it is modifiers.
	Keys string `toml:"keys" yaml:"keys"`

	// Action is the name of a registered action to run.
	Action string `toml:"action" yaml:"action"`
}

// IPCConfig configures the control socket.
type IPCConfig struct {
	// Socket is the unix socket path. Empty disables IPC.
	Socket string `toml:"socket" yaml:"socket"`
}

// Default returns the built-in configuration. The output list starts
// empty; callers that end up with no configured outputs fall back to a
// single output of their choosing.
func Default() *Config {
	return &Config{
		Log:  LogConfig{Level: "info"},
		Seat: "seat0",
	}
}

// Validate checks the configuration for errors that would only surface
// later as confusing runtime failures.
func (c *Config) Validate() error {
	for i, o := range c.Outputs {
		if o.Width <= 0 || o.Height <= 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("outputs[%d]", i),
				Message: fmt.Sprintf("invalid size %dx%d", o.Width, o.Height),
			}
		}
	}
	for i, b := range c.Bindings {
		if b.Action == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("bindings[%d]", i),
				Message: "missing action",
			}
		}
		if _, _, err := ParseChord(b.Keys); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("bindings[%d]", i),
				Message: err.Error(),
			}
		}
	}
	return nil
}

// ParseChord splits a chord like "ctrl+alt+t" into its modifiers and
// the final key symbol.
func ParseChord(chord string) (key.Modifier, key.Sym, error) {
	if chord == "" {
		return 0, key.SymNone, fmt.Errorf("empty chord")
	}
	mods, keyName, err := splitChord(chord)
	if err != nil {
		return 0, key.SymNone, err
	}
	sym, err := key.ParseSym(keyName)
	if err != nil {
		return 0, key.SymNone, fmt.Errorf("chord %q: %w", chord, err)
	}
	return mods, sym, nil
}

func splitChord(chord string) (key.Modifier, string, error) {
	last := -1
	for i := len(chord) - 1; i >= 0; i-- {
		if chord[i] == '+' && i != len(chord)-1 {
			last = i
			break
		}
	}
	if last < 0 {
		return key.ModNone, chord, nil
	}
	var mods key.Modifier
	for _, part := range strings.Split(chord[:last], "+") {
		m, ok := key.LookupModifier(part)
		if !ok {
			return 0, "", fmt.Errorf("chord %q: unknown modifier %q", chord, part)
		}
		mods = mods.With(m)
	}
	return mods, chord[last+1:], nil
}
