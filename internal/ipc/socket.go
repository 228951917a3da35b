package ipc

import (
	"fmt"
	"strings"
)

// SanitizeSocketName replaces every rune outside [A-Za-z0-9._-] with '_',
// per spec §4.13's socket-path sanitization rule.
func SanitizeSocketName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// DefaultSocketPath returns the default IPC socket path for a given
// $XDG_RUNTIME_DIR and display/socket name (spec §4.13:
// "$XDG_RUNTIME_DIR/fluxbox-wayland-ipc-<sanitized-socket>.sock").
func DefaultSocketPath(xdgRuntimeDir, socketName string) string {
	return fmt.Sprintf("%s/fluxbox-wayland-ipc-%s.sock", xdgRuntimeDir, SanitizeSocketName(socketName))
}
