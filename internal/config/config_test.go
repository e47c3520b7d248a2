package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/waycore/internal/input/key"
	"github.com/dshills/waycore/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestParseChord(t *testing.T) {
	tests := []struct {
		chord    string
		wantMods key.Modifier
		wantSym  key.Sym
		wantErr  bool
	}{
		{"ctrl+alt+t", key.ModCtrl | key.ModAlt, key.SymFromRune('t'), false},
		{"logo+Return", key.ModLogo, key.SymReturn, false},
		{"F5", key.ModNone, key.SymF5, false},
		{"shift++", key.ModShift, key.SymFromRune('+'), false},
		{"ctrl+alt+BackSpace", key.ModCtrl | key.ModAlt, key.SymBackSpace, false},
		{"any+F1", key.ModAny, key.SymF1, false},
		{"", 0, key.SymNone, true},
		{"bogus+t", 0, key.SymNone, true},
		{"ctrl+NoSuchKey", 0, key.SymNone, true},
	}
	for _, tt := range tests {
		mods, sym, err := ParseChord(tt.chord)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChord(%q) error = %v, wantErr %v", tt.chord, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if mods != tt.wantMods || sym != tt.wantSym {
			t.Errorf("ParseChord(%q) = (%v, %v), want (%v, %v)",
				tt.chord, mods, sym, tt.wantMods, tt.wantSym)
		}
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "waycore.toml", `
seat = "seat1"

[log]
level = "debug"

[[outputs]]
x = 0
y = 0
width = 1280
height = 720

[[outputs]]
x = 1280
y = 0
width = 1280
height = 720

[[bindings]]
keys = "logo+Return"
action = "spawn-terminal"

[ipc]
socket = "/run/waycore.sock"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seat != "seat1" || cfg.Log.Level != "debug" {
		t.Errorf("seat=%q level=%q", cfg.Seat, cfg.Log.Level)
	}
	if len(cfg.Outputs) != 2 || cfg.Outputs[1].X != 1280 {
		t.Errorf("outputs = %+v", cfg.Outputs)
	}
	if len(cfg.Bindings) != 1 || cfg.Bindings[0].Action != "spawn-terminal" {
		t.Errorf("bindings = %+v", cfg.Bindings)
	}
	if cfg.IPC.Socket != "/run/waycore.sock" {
		t.Errorf("ipc socket = %q", cfg.IPC.Socket)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "waycore.yaml", `
seat: seat2
log:
  level: warn
outputs:
  - {x: 0, y: 0, width: 800, height: 600}
input:
  devices:
    - /dev/input/event3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seat != "seat2" || cfg.Log.Level != "warn" {
		t.Errorf("seat=%q level=%q", cfg.Seat, cfg.Log.Level)
	}
	if len(cfg.Input.Devices) != 1 || cfg.Input.Devices[0] != "/dev/input/event3" {
		t.Errorf("devices = %v", cfg.Input.Devices)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Seat != def.Seat || cfg.Log.Level != def.Log.Level {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeFile(t, "waycore.ini", "[section]\n")
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeFile(t, "broken.toml", "outputs = [[[")
	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load = %v, want *ParseError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"empty", Config{}, true},
		{"good output", Config{Outputs: []OutputConfig{{Width: 1, Height: 1}}}, true},
		{"zero size", Config{Outputs: []OutputConfig{{Width: 0, Height: 600}}}, false},
		{"missing action", Config{Bindings: []BindingConfig{{Keys: "F1"}}}, false},
		{"bad chord", Config{Bindings: []BindingConfig{{Keys: "wat+x", Action: "a"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestRunScript(t *testing.T) {
	path := writeFile(t, "rc.lua", `
waycore.output(0, 0, 1024, 768)
waycore.output(1024, 0, 1024, 768)
waycore.bind("logo+Return", "spawn-terminal")
waycore.device("/dev/input/event5")
waycore.log("configured")
`)
	cfg := Default()
	if err := RunScript(path, cfg, logging.Discard()); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if len(cfg.Outputs) != 2 || cfg.Outputs[1].X != 1024 {
		t.Errorf("outputs = %+v", cfg.Outputs)
	}
	if len(cfg.Bindings) != 1 || cfg.Bindings[0].Keys != "logo+Return" {
		t.Errorf("bindings = %+v", cfg.Bindings)
	}
	if len(cfg.Input.Devices) != 1 {
		t.Errorf("devices = %v", cfg.Input.Devices)
	}
}

func TestRunScriptRejectsBadChord(t *testing.T) {
	path := writeFile(t, "rc.lua", `waycore.bind("wat+x", "noop")`)
	if err := RunScript(path, Default(), logging.Discard()); err == nil {
		t.Error("bad chord in script accepted")
	}
}

func TestRunScriptMissingFile(t *testing.T) {
	if err := RunScript(filepath.Join(t.TempDir(), "absent.lua"), Default(), nil); err != nil {
		t.Errorf("missing script = %v, want nil", err)
	}
}

func TestRunScriptSandbox(t *testing.T) {
	for _, global := range []string{"dofile", "loadfile", "load", "loadstring"} {
		path := writeFile(t, "rc.lua", global+`("x")`)
		if err := RunScript(path, Default(), logging.Discard()); err == nil {
			t.Errorf("%s callable from config script", global)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	ran := false
	reg.Register("noop", func() { ran = true })

	a, ok := reg.Lookup("noop")
	if !ok {
		t.Fatal("registered action not found")
	}
	a()
	if !ran {
		t.Error("action did not run")
	}
	if _, ok := reg.Lookup("absent"); ok {
		t.Error("unregistered action found")
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "noop" {
		t.Errorf("Names = %v", names)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waycore.toml")
	if err := os.WriteFile(path, []byte(`seat = "seat0"`), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, logging.Discard(), func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte(`seat = "seat9"`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Seat != "seat9" {
			t.Errorf("reloaded seat = %q, want seat9", cfg.Seat)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcherKeepsConfigOnBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waycore.toml")
	if err := os.WriteFile(path, []byte(`seat = "seat0"`), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan *Config, 4)
	w, err := Watch(path, logging.Discard(), func(cfg *Config) { reloads <- cfg })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("seat = [["), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-reloads:
		t.Errorf("broken file produced a reload: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}
