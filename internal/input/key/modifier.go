// Package key defines the canonical keyboard types shared by the input
// pipeline: modifier masks and resolved key symbols.
package key

import "strings"

// Modifier is a bitmask of keyboard modifier keys.
type Modifier uint32

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModCtrl indicates the Control key.
	ModCtrl Modifier = 1 << iota

	// ModAlt indicates the Alt key.
	ModAlt

	// ModLogo indicates the Logo (Super/Windows) key.
	ModLogo

	// ModShift indicates the Shift key.
	ModShift
)

// ModAny is the wildcard modifier mask: a binding registered with ModAny
// matches regardless of the effective modifiers.
const ModAny Modifier = 1 << 31

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	if m == ModAny {
		return "Any"
	}
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModLogo) {
		parts = append(parts, "Logo")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// modifierNames maps modifier names (lowercase) to Modifier values.
var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"logo":    ModLogo,
	"super":   ModLogo,
	"win":     ModLogo,
	"shift":   ModShift,
	"any":     ModAny,
}

// LookupModifier resolves a single modifier name, reporting whether the
// name is known. Matching is case-insensitive.
func LookupModifier(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ParseModifiers parses a modifier string like "ctrl+alt" or "Ctrl-Shift".
// Unrecognized names are ignored.
func ParseModifiers(s string) Modifier {
	s = strings.ToLower(s)
	var sep string
	switch {
	case strings.Contains(s, "+"):
		sep = "+"
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return modifierNames[strings.TrimSpace(s)]
	}
	var result Modifier
	for _, part := range strings.Split(s, sep) {
		result = result.With(modifierNames[strings.TrimSpace(part)])
	}
	return result
}
