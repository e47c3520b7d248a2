package key

import "testing"

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		in   string
		want Modifier
	}{
		{"", ModNone},
		{"ctrl", ModCtrl},
		{"Ctrl+Alt", ModCtrl | ModAlt},
		{"ctrl-shift", ModCtrl | ModShift},
		{"super+shift", ModLogo | ModShift},
		{"any", ModAny},
		{"ctrl+bogus", ModCtrl},
	}
	for _, tt := range tests {
		if got := ParseModifiers(tt.in); got != tt.want {
			t.Errorf("ParseModifiers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		in   Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl | ModAlt, "Ctrl+Alt"},
		{ModShift, "Shift"},
		{ModAny, "Any"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%#x.String() = %q, want %q", uint32(tt.in), got, tt.want)
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModShift)
	if !m.Has(ModCtrl) || !m.Has(ModShift) {
		t.Fatalf("m = %v after With", m)
	}
	m = m.Without(ModShift)
	if m.Has(ModShift) || !m.Has(ModCtrl) {
		t.Errorf("m = %v after Without(Shift)", m)
	}
}

func TestSymSwitchVT(t *testing.T) {
	if got := (SymSwitchVT1 + 4).VT(); got != 5 {
		t.Errorf("VT() = %d, want 5", got)
	}
	if SymBackSpace.IsSwitchVT() {
		t.Error("BackSpace reported as VT-switch symbol")
	}
	if got := SymBackSpace.VT(); got != 0 {
		t.Errorf("BackSpace.VT() = %d, want 0", got)
	}
}

func TestSymString(t *testing.T) {
	tests := []struct {
		in   Sym
		want string
	}{
		{SymNone, "NoSymbol"},
		{SymBackSpace, "BackSpace"},
		{SymF3, "F3"},
		{SymSwitchVT1 + 1, "SwitchVT2"},
		{SymFromRune('a'), "a"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseSym(t *testing.T) {
	tests := []struct {
		in      string
		want    Sym
		wantErr bool
	}{
		{"BackSpace", SymBackSpace, false},
		{"enter", SymReturn, false},
		{"Escape", SymEscape, false},
		{"F1", SymF1, false},
		{"F12", SymF12, false},
		{"F13", SymNone, true},
		{"x", SymFromRune('x'), false},
		{"X", SymFromRune('X'), false},
		{"", SymNone, true},
		{"NoSuchKey", SymNone, true},
	}
	for _, tt := range tests {
		got, err := ParseSym(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSym(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSym(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
