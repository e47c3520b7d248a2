// Package daemon wires the waycore components into a running display
// server: event loop, seat, compositor, output backend, input devices,
// control socket, and configuration with live reload.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dshills/waycore/internal/backend/headless"
	"github.com/dshills/waycore/internal/compositor"
	"github.com/dshills/waycore/internal/config"
	"github.com/dshills/waycore/internal/eventloop"
	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/input/evdev"
	"github.com/dshills/waycore/internal/ipc"
	"github.com/dshills/waycore/internal/logging"
	"github.com/dshills/waycore/internal/seat"
)

// fallbackOutput is used when no output is configured anywhere.
var fallbackOutput = config.OutputConfig{Width: 1920, Height: 1080}

// Options configures the daemon.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file.
	ConfigPath string

	// ScriptPath is the Lua configuration script, run after the file.
	ScriptPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Devices are extra evdev device paths, in addition to configured
	// ones.
	Devices []string

	// Watch enables configuration live reload.
	Watch bool
}

// Daemon owns every component of a running waycore instance.
type Daemon struct {
	opts Options
	cfg  *config.Config
	log  *logging.Logger

	loop     *eventloop.Loop
	seat     *seat.Seat
	comp     *compositor.Compositor
	backend  *headless.Backend
	renderer *headless.Renderer
	session  *headless.Session
	control  *ipc.Server
	watcher  *config.Watcher
	registry *config.Registry

	devices []*inputDevice
}

// inputDevice is one open evdev device wired into the event loop.
type inputDevice struct {
	reader *evdev.FDReader
	dev    *evdev.Device
	source *eventloop.Source
}

// New loads configuration and assembles the daemon. Nothing runs until
// Run is called.
func New(opts Options) (*Daemon, error) {
	d := &Daemon{opts: opts, registry: config.NewRegistry()}
	if err := d.bootstrap(); err != nil {
		d.Shutdown()
		return nil, err
	}
	return d, nil
}

// bootstrap initializes components in dependency order.
func (d *Daemon) bootstrap() error {
	var err error

	// 1. Configuration: defaults, then file, then script.
	d.cfg, err = config.Load(d.opts.ConfigPath)
	if err != nil {
		return err
	}

	// 2. Logging.
	level := d.cfg.Log.Level
	if d.opts.LogLevel != "" {
		level = d.opts.LogLevel
	}
	d.log = logging.New(logging.Config{Level: logging.ParseLevel(level)})

	if err := config.RunScript(d.opts.ScriptPath, d.cfg, d.log); err != nil {
		return err
	}

	// 3. Event loop.
	d.loop, err = eventloop.New(d.log)
	if err != nil {
		return fmt.Errorf("creating event loop: %w", err)
	}

	// 4. Seat and its input devices. Devices attach before the
	// compositor wires its handlers.
	d.seat = seat.New(d.cfg.Seat, d.log)
	paths := append(append([]string(nil), d.cfg.Input.Devices...), d.opts.Devices...)
	for _, path := range paths {
		if err := d.openDevice(path); err != nil {
			// A missing or unreadable device is logged, not fatal;
			// hotplug will bring it back.
			d.log.Warn("skipping input device %s: %v", path, err)
		}
	}

	// 5. Compositor over the headless backend.
	d.renderer = headless.NewRenderer(d.log)
	d.session = headless.NewSession(d.log)
	d.comp, err = compositor.New(compositor.Config{
		Loop:     d.loop,
		Seat:     d.seat,
		Renderer: d.renderer,
		Session:  d.session,
		Log:      d.log,
	})
	if err != nil {
		return fmt.Errorf("creating compositor: %w", err)
	}
	d.backend = headless.New(d.loop, d.log)

	// 6. Outputs.
	outputs := d.cfg.Outputs
	if len(outputs) == 0 {
		outputs = []config.OutputConfig{fallbackOutput}
	}
	for _, o := range outputs {
		_, err := d.backend.AddOutput(d.comp, geom.NewRect(o.X, o.Y, o.Width, o.Height))
		if err != nil {
			return fmt.Errorf("adding output %dx%d+%d+%d: %w", o.Width, o.Height, o.X, o.Y, err)
		}
	}

	// 7. Actions and bindings.
	d.registerActions()
	if err := config.ApplyBindings(d.cfg, d.comp, d.registry, d.log); err != nil {
		return err
	}

	// 8. Control socket.
	if d.cfg.IPC.Socket != "" {
		d.control, err = ipc.Listen(d.cfg.IPC.Socket, d.loop, d.comp, d.log)
		if err != nil {
			return err
		}
	}

	// 9. Config watcher.
	if d.opts.Watch && d.opts.ConfigPath != "" {
		d.watcher, err = config.Watch(d.opts.ConfigPath, d.log, d.onReload)
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
	}

	return nil
}

// registerActions installs the built-in binding actions.
func (d *Daemon) registerActions() {
	d.registry.Register("terminate", func() {
		d.log.Info("terminate action")
		d.loop.Stop()
	})
	d.registry.Register("redraw", func() {
		for _, s := range d.comp.Surfaces() {
			s.DamageAll()
			d.comp.Commit(s)
		}
	})
}

// onReload applies a freshly loaded configuration on the event loop.
func (d *Daemon) onReload(cfg *config.Config) {
	err := d.loop.Post(func() {
		if err := config.ApplyBindings(cfg, d.comp, d.registry, d.log); err != nil {
			d.log.Error("reload: %v", err)
			return
		}
		d.cfg.Bindings = cfg.Bindings
		d.log.Info("bindings reloaded")
	})
	if err != nil {
		d.log.Warn("reload dropped: %v", err)
	}
}

// openDevice opens one evdev device and wires it into the loop.
func (d *Daemon) openDevice(path string) error {
	reader, err := evdev.OpenFD(path)
	if err != nil {
		return err
	}
	dev := d.seat.AddDevice(reader)

	source, err := d.loop.AddFD(reader.FD(), func(fd int, events uint32) {
		dev.HandleData()
	})
	if err != nil {
		d.seat.RemoveDevice(dev)
		reader.Close()
		return err
	}

	d.devices = append(d.devices, &inputDevice{reader: reader, dev: dev, source: source})
	d.log.Info("input device %s (%s)", path, reader.Name())
	return nil
}

// Compositor exposes the compositor, for embedding and tests.
func (d *Daemon) Compositor() *compositor.Compositor { return d.comp }

// Loop exposes the event loop.
func (d *Daemon) Loop() *eventloop.Loop { return d.loop }

// Registry exposes the binding action registry so embedders can add
// actions before bindings are reloaded.
func (d *Daemon) Registry() *config.Registry { return d.registry }

// Run acquires the session and dispatches until the context is
// cancelled or a terminate binding fires.
func (d *Daemon) Run(ctx context.Context) error {
	d.comp.HandleSessionEvent(compositor.VTEnter)
	d.log.Info("waycore running, pid %d", os.Getpid())

	err := d.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown tears down in reverse bootstrap order. Safe to call on a
// partially constructed daemon and more than once.
func (d *Daemon) Shutdown() {
	if d.watcher != nil {
		d.watcher.Close()
		d.watcher = nil
	}
	if d.control != nil {
		d.control.Close()
		d.control = nil
	}
	if d.comp != nil {
		d.comp.Close()
		d.comp = nil
	}
	for _, id := range d.devices {
		id.source.Remove()
		d.seat.RemoveDevice(id.dev)
		id.reader.Close()
	}
	d.devices = nil
	if d.loop != nil {
		d.loop.Close()
		d.loop = nil
	}
}
