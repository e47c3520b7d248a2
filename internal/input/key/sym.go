package key

import "fmt"

// Sym is a resolved key symbol. Values follow the X keysym encoding so that
// symbolic constants match what configuration files and external tooling
// expect.
type Sym uint32

// Symbols waycore resolves itself or binds by default.
const (
	SymNone Sym = 0

	SymBackSpace Sym = 0xff08
	SymReturn    Sym = 0xff0d
	SymEscape    Sym = 0xff1b
	SymSpace     Sym = 0x0020
	SymTab       Sym = 0xff09

	SymF1  Sym = 0xffbe
	SymF2  Sym = 0xffbf
	SymF3  Sym = 0xffc0
	SymF4  Sym = 0xffc1
	SymF5  Sym = 0xffc2
	SymF6  Sym = 0xffc3
	SymF7  Sym = 0xffc4
	SymF8  Sym = 0xffc5
	SymF9  Sym = 0xffc6
	SymF10 Sym = 0xffc7
	SymF11 Sym = 0xffc8
	SymF12 Sym = 0xffc9

	// VT-switch symbols, produced when Ctrl+Alt+Fn resolves.
	SymSwitchVT1  Sym = 0x1008fe01
	SymSwitchVT12 Sym = 0x1008fe0c
)

// IsSwitchVT reports whether s is one of the twelve VT-switch symbols.
func (s Sym) IsSwitchVT() bool {
	return s >= SymSwitchVT1 && s <= SymSwitchVT12
}

// VT returns the virtual terminal number (1-12) for a VT-switch symbol,
// or 0 for any other symbol.
func (s Sym) VT() int {
	if !s.IsSwitchVT() {
		return 0
	}
	return int(s-SymSwitchVT1) + 1
}

// SymFromRune returns the symbol for a printable character.
func SymFromRune(r rune) Sym {
	if r >= 0x20 && r <= 0x7e {
		return Sym(r)
	}
	return SymNone
}

// ParseSym resolves a key name as written in configuration files:
// a single printable character, a named key, or Fn.
func ParseSym(name string) (Sym, error) {
	switch name {
	case "":
		return SymNone, fmt.Errorf("empty key name")
	case "BackSpace", "backspace":
		return SymBackSpace, nil
	case "Return", "return", "Enter", "enter":
		return SymReturn, nil
	case "Escape", "escape", "Esc", "esc":
		return SymEscape, nil
	case "Space", "space":
		return SymSpace, nil
	case "Tab", "tab":
		return SymTab, nil
	}
	if len(name) >= 2 && len(name) <= 3 && name[0] == 'F' {
		var n int
		if _, err := fmt.Sscanf(name[1:], "%d", &n); err == nil && n >= 1 && n <= 12 {
			return SymF1 + Sym(n-1), nil
		}
	}
	runes := []rune(name)
	if len(runes) == 1 {
		if s := SymFromRune(runes[0]); s != SymNone {
			return s, nil
		}
	}
	return SymNone, fmt.Errorf("unknown key name %q", name)
}

// String formats the symbol for logs.
func (s Sym) String() string {
	switch {
	case s == SymNone:
		return "NoSymbol"
	case s == SymBackSpace:
		return "BackSpace"
	case s == SymReturn:
		return "Return"
	case s == SymEscape:
		return "Escape"
	case s >= SymF1 && s <= SymF12:
		return fmt.Sprintf("F%d", s-SymF1+1)
	case s.IsSwitchVT():
		return fmt.Sprintf("SwitchVT%d", s.VT())
	case s >= 0x20 && s <= 0x7e:
		return string(rune(s))
	default:
		return fmt.Sprintf("Sym(%#x)", uint32(s))
	}
}
