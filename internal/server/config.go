// Package server wires every leaf component (view, output, focus, grab,
// menu, sessionlock, textinput, rules, ipc) into the single mutable
// aggregate spec §9's "Global mutable state" design note requires, and
// owns the bootstrap/teardown sequencing spec §9's "Ordering of cleanup"
// note specifies. There is no teacher analog for compositor bootstrap;
// the Server struct follows the teacher's own XMenu-as-god-object shape
// (main.go's XMenu aggregating Config, colors, and the font face) scaled
// up to this module's many leaf packages.
package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the resolved set of CLI/environment options cmd/fluxwm parses
// with jessevdk/go-flags (spec §6.1) before constructing a Server.
type Config struct {
	SocketName    string
	IPCSocketPath string
	NoXWayland    bool
	BGColor       string
	StartupCmd    string
	TerminalCmd   string
	Workspaces    int
	ConfigDir     string
	KeysFile      string
	AppsFile      string
	StyleFile     string
	MenuFile      string
	LogLevel      string
	LogProtocol   bool
	TrayCommand   string // XEmbed/SNI bridge helper; empty disables the tray

	RestartCmd string // set only across a restart's exec, never by the CLI
}

// DefaultConfig returns the option values spec §6.1 documents as defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".config", "fluxwm")
	return Config{
		BGColor:     "#141414",
		TerminalCmd: "xterm",
		Workspaces:  4,
		ConfigDir:   configDir,
		KeysFile:    filepath.Join(configDir, "keys"),
		AppsFile:    filepath.Join(configDir, "apps"),
		StyleFile:   filepath.Join(configDir, "style"),
		MenuFile:    filepath.Join(configDir, "menu"),
		LogLevel:    "info",
	}
}

// expandHome resolves a leading "~" the way spec §6.5 (HOME environment
// use) requires for config paths.
func expandHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ResolvePaths expands "~" in every config-file path and fills in any
// still-relative --keys/--apps/--style/--menu path against ConfigDir.
func (c *Config) ResolvePaths() {
	c.ConfigDir = expandHome(c.ConfigDir)
	for _, f := range []*string{&c.KeysFile, &c.AppsFile, &c.StyleFile, &c.MenuFile} {
		*f = expandHome(*f)
		if !filepath.IsAbs(*f) {
			*f = filepath.Join(c.ConfigDir, filepath.Base(*f))
		}
	}
}

// Validate checks the invariants spec §6.1/§7 call out as usage errors
// (exit code 1), returning a descriptive error for the first violation.
func (c *Config) Validate() error {
	if c.Workspaces < 1 {
		return fmt.Errorf("server: --workspaces must be >= 1, got %d", c.Workspaces)
	}
	switch c.LogLevel {
	case "silent", "error", "info", "debug", "0", "1", "2", "3":
	default:
		return fmt.Errorf("server: invalid --log-level %q", c.LogLevel)
	}
	return nil
}
