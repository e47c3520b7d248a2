// Package main is the entry point for the waycore display server daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/waycore/internal/daemon"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	d, err := daemon.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer d.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if err := d.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() daemon.Options {
	var opts daemon.Options
	var devices multiFlag
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Path to Lua configuration script")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Var(&devices, "device", "Evdev input device path (repeatable)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload configuration on file changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "waycored - wayland compositor core daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: waycored [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  waycored -c waycore.toml            Run with a config file\n")
		fmt.Fprintf(os.Stderr, "  waycored -device /dev/input/event3  Attach an input device\n")
		fmt.Fprintf(os.Stderr, "  waycored -c waycore.toml -watch     Reload bindings on change\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("waycored %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	opts.Devices = devices
	return opts
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (f *multiFlag) String() string { return fmt.Sprint([]string(*f)) }

func (f *multiFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}
