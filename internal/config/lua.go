package config

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/waycore/internal/logging"
)

// luaUnsafeGlobals are removed before running a config script. Scripts
// configure the compositor; they do not get to load arbitrary code.
var luaUnsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring"}

// RunScript executes the Lua configuration script at path against cfg.
// The script sees a `waycore` table:
//
//	waycore.output(x, y, width, height)
//	waycore.bind("ctrl+alt+t", "spawn-terminal")
//	waycore.device("/dev/input/event3")
//	waycore.log("message")
//
// A missing script is not an error.
func RunScript(path string, cfg *Config, log *logging.Logger) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithComponent("lua")

	L := lua.NewState()
	defer L.Close()

	for _, name := range luaUnsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("waycore", buildAPI(L, cfg, log))

	if err := L.DoFile(path); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("after script %s: %w", path, err)
	}
	return nil
}

func buildAPI(L *lua.LState, cfg *Config, log *logging.Logger) *lua.LTable {
	api := L.NewTable()

	L.SetField(api, "output", L.NewFunction(func(L *lua.LState) int {
		cfg.Outputs = append(cfg.Outputs, OutputConfig{
			X:      int32(L.CheckInt(1)),
			Y:      int32(L.CheckInt(2)),
			Width:  int32(L.CheckInt(3)),
			Height: int32(L.CheckInt(4)),
		})
		return 0
	}))

	L.SetField(api, "bind", L.NewFunction(func(L *lua.LState) int {
		chord := L.CheckString(1)
		action := L.CheckString(2)
		if _, _, err := ParseChord(chord); err != nil {
			L.RaiseError("bind: %v", err)
			return 0
		}
		cfg.Bindings = append(cfg.Bindings, BindingConfig{
			Keys:   chord,
			Action: action,
		})
		return 0
	}))

	L.SetField(api, "device", L.NewFunction(func(L *lua.LState) int {
		cfg.Input.Devices = append(cfg.Input.Devices, L.CheckString(1))
		return 0
	}))

	L.SetField(api, "log", L.NewFunction(func(L *lua.LState) int {
		log.Info("%s", L.CheckString(1))
		return 0
	}))

	return api
}
