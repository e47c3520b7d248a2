package seat

import (
	"github.com/dshills/waycore/internal/input/evdev"
	"github.com/dshills/waycore/internal/input/key"
)

// The built-in keymap is deliberately small: enough to resolve binding
// triggers (letters, digits, function keys, a few editing keys) plus the
// Ctrl+Alt+Fn chords that produce VT-switch symbols. Full layout support
// belongs to an external keymap compiler, not the core.

// modifierCodes maps modifier key codes to their modifier bits.
var modifierCodes = map[uint32]key.Modifier{
	uint32(evdev.KeyLeftCtrl):   key.ModCtrl,
	uint32(evdev.KeyRightCtrl):  key.ModCtrl,
	uint32(evdev.KeyLeftAlt):    key.ModAlt,
	uint32(evdev.KeyRightAlt):   key.ModAlt,
	uint32(evdev.KeyLeftShift):  key.ModShift,
	uint32(evdev.KeyRightShift): key.ModShift,
	uint32(evdev.KeyLeftMeta):   key.ModLogo,
	uint32(evdev.KeyRightMeta):  key.ModLogo,
}

// letterCodes maps the QWERTY letter rows to their base characters.
var letterCodes = map[uint32]rune{
	16: 'q', 17: 'w', 18: 'e', 19: 'r', 20: 't', 21: 'y', 22: 'u', 23: 'i',
	24: 'o', 25: 'p', 30: 'a', 31: 's', 32: 'd', 33: 'f', 34: 'g', 35: 'h',
	36: 'j', 37: 'k', 38: 'l', 44: 'z', 45: 'x', 46: 'c', 47: 'v', 48: 'b',
	49: 'n', 50: 'm',
}

// digitCodes maps the number row; the second rune is the shifted symbol.
var digitCodes = map[uint32][2]rune{
	2: {'1', '!'}, 3: {'2', '@'}, 4: {'3', '#'}, 5: {'4', '$'}, 6: {'5', '%'},
	7: {'6', '^'}, 8: {'7', '&'}, 9: {'8', '*'}, 10: {'9', '('}, 11: {'0', ')'},
}

// specialCodes maps editing keys to their symbols.
var specialCodes = map[uint32]key.Sym{
	uint32(evdev.KeyEsc):       key.SymEscape,
	uint32(evdev.KeyBackspace): key.SymBackSpace,
	uint32(evdev.KeyTab):       key.SymTab,
	uint32(evdev.KeyEnter):     key.SymReturn,
	uint32(evdev.KeySpace):     key.SymSpace,
}

// functionKeySym returns the F-key symbol for code, or SymNone.
func functionKeySym(code uint32) key.Sym {
	switch {
	case code >= uint32(evdev.KeyF1) && code <= uint32(evdev.KeyF10):
		return key.SymF1 + key.Sym(code-uint32(evdev.KeyF1))
	case code == uint32(evdev.KeyF11):
		return key.SymF11
	case code == uint32(evdev.KeyF12):
		return key.SymF12
	default:
		return key.SymNone
	}
}

// resolveSym resolves a key code under the given effective modifiers to a
// symbol plus the modifier bits consumed by the resolution. Consumed bits
// are the ones that selected the symbol (Shift picking an uppercase letter,
// Ctrl+Alt turning an F-key into a VT switch) and must be excluded when
// matching bindings.
func resolveSym(code uint32, modifiers key.Modifier) (key.Sym, key.Modifier) {
	if r, ok := letterCodes[code]; ok {
		if modifiers.Has(key.ModShift) {
			return key.SymFromRune(r - 'a' + 'A'), key.ModShift
		}
		return key.SymFromRune(r), key.ModNone
	}

	if pair, ok := digitCodes[code]; ok {
		if modifiers.Has(key.ModShift) {
			return key.SymFromRune(pair[1]), key.ModShift
		}
		return key.SymFromRune(pair[0]), key.ModNone
	}

	if sym, ok := specialCodes[code]; ok {
		return sym, key.ModNone
	}

	if fsym := functionKeySym(code); fsym != key.SymNone {
		if modifiers.Has(key.ModCtrl) && modifiers.Has(key.ModAlt) {
			vt := int(fsym - key.SymF1)
			if vt < 12 {
				return key.SymSwitchVT1 + key.Sym(vt), key.ModCtrl | key.ModAlt
			}
		}
		return fsym, key.ModNone
	}

	return key.SymNone, key.ModNone
}
