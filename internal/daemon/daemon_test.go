package daemon

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestNewWithDefaults(t *testing.T) {
	d, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Shutdown()

	if got := len(d.Compositor().Outputs()); got != 1 {
		t.Errorf("outputs = %d, want 1 fallback output", got)
	}
	g := d.Compositor().Outputs()[0].Geometry()
	if g.W != fallbackOutput.Width || g.H != fallbackOutput.Height {
		t.Errorf("fallback geometry = %+v", g)
	}
}

func TestNewFromConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "waycore.toml", `
seat = "seat7"

[[outputs]]
width = 1024
height = 768

[[outputs]]
x = 1024
width = 1024
height = 768

[[bindings]]
keys = "logo+q"
action = "terminate"
`)
	d, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Shutdown()

	if got := len(d.Compositor().Outputs()); got != 2 {
		t.Errorf("outputs = %d, want 2", got)
	}
	if d.Compositor().Seat().Name != "seat7" {
		t.Errorf("seat = %q", d.Compositor().Seat().Name)
	}
	// Built-ins plus the configured binding.
	if got := d.Compositor().Bindings().Len(); got != 14 {
		t.Errorf("bindings = %d, want 14", got)
	}
}

func TestNewRejectsUnknownAction(t *testing.T) {
	cfgPath := writeFile(t, "waycore.toml", `
[[bindings]]
keys = "F9"
action = "no-such-action"
`)
	if _, err := New(Options{ConfigPath: cfgPath}); err == nil {
		t.Error("unknown action accepted at startup")
	}
}

func TestLuaScriptConfiguresOutputs(t *testing.T) {
	script := writeFile(t, "rc.lua", `
waycore.output(0, 0, 640, 480)
waycore.bind("ctrl+alt+r", "redraw")
`)
	d, err := New(Options{ScriptPath: script})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Shutdown()

	if got := len(d.Compositor().Outputs()); got != 1 {
		t.Fatalf("outputs = %d, want the scripted one", got)
	}
	if g := d.Compositor().Outputs()[0].Geometry(); g.W != 640 {
		t.Errorf("geometry = %+v", g)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	d, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run = %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestTerminateActionStopsRun(t *testing.T) {
	d, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Shutdown()

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(context.Background()) }()

	action, ok := d.Registry().Lookup("terminate")
	if !ok {
		t.Fatal("terminate action not registered")
	}
	time.Sleep(50 * time.Millisecond)
	action()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run = %v, want nil after terminate", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after terminate action")
	}
}

func TestControlSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "control.sock")
	cfgPath := writeFile(t, "waycore.toml", `
[ipc]
socket = "`+sock+`"
`)
	d, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	conn, err := net.DialTimeout("unix", sock, 2*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := conn.Write([]byte(`{"method":"get_seat"}` + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		t.Fatalf("no response: %v", scanner.Err())
	}
	resp := gjson.Parse(scanner.Text())
	if !resp.Get("ok").Bool() {
		t.Errorf("response: %s", resp.Raw)
	}
}
