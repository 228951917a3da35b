// Command fluxwm is the CLI entry point (spec §6.1): parses options with
// jessevdk/go-flags, bootstraps a server.Server, and runs it until a quit
// request or restart.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/fluxbox-wayland/fluxwm/internal/server"
)

type options struct {
	Socket      string `long:"socket" description:"display socket name for the Wayland server"`
	IPCSocket   string `long:"ipc-socket" description:"explicit IPC socket path"`
	NoXWayland  bool   `long:"no-xwayland" description:"disable X bridge"`
	BGColor     string `long:"bg-color" default:"#141414" description:"root color (#RRGGBB[AA])"`
	StartupCmd  string `short:"s" long:"startup" description:"startup command (run once after init)"`
	TerminalCmd string `long:"terminal" description:"terminal spawn command"`
	Workspaces  int    `long:"workspaces" default:"4" description:"number of workspaces (>= 1)"`
	ConfigDir   string `long:"config-dir" description:"base config directory"`
	KeysFile    string `long:"keys" description:"key-binding config"`
	AppsFile    string `long:"apps" description:"apps-rules config"`
	StyleFile   string `long:"style" description:"style config"`
	MenuFile    string `long:"menu" description:"menu config"`
	TrayCommand string `long:"tray" description:"XEmbed/SNI tray helper command"`
	LogLevel    string `long:"log-level" default:"info" description:"silent|error|info|debug (or 0..3)"`
	LogProtocol bool   `long:"log-protocol" description:"enable protocol tracing"`
}

// toConfig overlays any explicitly-set CLI option on top of the package
// defaults (spec §6.1's flag table); unset string options keep the
// DefaultConfig() value rather than clobbering it with "".
func (o options) toConfig() server.Config {
	cfg := server.DefaultConfig()
	overlay := []struct {
		dst *string
		src string
	}{
		{&cfg.SocketName, o.Socket},
		{&cfg.IPCSocketPath, o.IPCSocket},
		{&cfg.TerminalCmd, o.TerminalCmd},
		{&cfg.ConfigDir, o.ConfigDir},
		{&cfg.KeysFile, o.KeysFile},
		{&cfg.AppsFile, o.AppsFile},
		{&cfg.StyleFile, o.StyleFile},
		{&cfg.MenuFile, o.MenuFile},
		{&cfg.TrayCommand, o.TrayCommand},
	}
	for _, f := range overlay {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	cfg.BGColor = o.BGColor
	cfg.StartupCmd = o.StartupCmd
	cfg.Workspaces = o.Workspaces
	cfg.LogLevel = o.LogLevel
	cfg.LogProtocol = o.LogProtocol
	cfg.NoXWayland = o.NoXWayland
	cfg.ResolvePaths()
	return cfg
}

func main() {
	os.Exit(run())
}

// run returns the process exit code spec §6.1 defines: 0 on normal exit,
// 1 on usage/bootstrap failure.
func run() int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	cfg := opts.toConfig()
	if err := cfg.Validate(); err != nil {
		log.Printf("fluxwm: %v", err)
		return 1
	}

	srv := server.New(cfg)
	if err := srv.Bootstrap(); err != nil {
		log.Printf("fluxwm: bootstrap: %v", err)
		return 1
	}

	if cfg.StartupCmd != "" {
		if err := spawn(cfg.StartupCmd); err != nil {
			log.Printf("fluxwm: startup command: %v", err)
		}
	}

	runEventLoop(srv)

	srv.Teardown()

	if srv.Restarting() {
		restart(cfg.RestartCmd)
	}
	return 0
}

// runEventLoop blocks until the server is asked to quit (via IPC `quit`/
// `exit`) or the process receives SIGINT/SIGTERM. The real per-event
// dispatch (output/input/surface callbacks feeding internal/focus,
// internal/grab, etc.) is driven by the wlroots-equivalent backend this
// core treats as an external collaborator (spec §1); this loop only owns
// the "keep running until told to stop" contract and the periodic
// quit-flag poll spec §5's single-threaded cooperative model implies.
func runEventLoop(srv interface {
	Quitting() bool
	Tick()
}) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			return
		case <-ticker.C:
			srv.Tick()
			if srv.Quitting() {
				return
			}
		}
	}
}

// spawn runs cmd via the shell, once, detached from fluxwm's own stdio
// lifetime (spec §6.1 `-s CMD`).
func spawn(cmd string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	proc, err := os.StartProcess(shell, []string{shell, "-c", cmd}, &os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return err
	}
	return proc.Release()
}

// restart execs cmd in place of the current process (spec §6.1/§9:
// "On restart, if restart_cmd is set, exec a shell with it; else exec the
// self-argv").
func restart(cmd string) {
	var argv0 string
	var argv []string
	if cmd != "" {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		argv0, argv = shell, []string{shell, "-c", cmd}
	} else {
		self, err := os.Executable()
		if err != nil {
			self = os.Args[0]
		}
		argv0, argv = self, os.Args
	}
	if err := syscall.Exec(argv0, argv, os.Environ()); err != nil {
		log.Printf("fluxwm: restart exec failed: %v", err)
	}
}
