// Package ipc implements the line-oriented control socket spec §4.13/
// §6.2 describes: ping/reconfigure/dump-config/quit/workspace-navigation
// commands over a one-command-per-connection AF_UNIX socket. Grounded on
// _examples/my-take-dev-myT-x/myT-x/internal/ipc/pipe_server.go's
// accept-loop/per-connection-handler shape (deadline, bounded reader,
// one request per connection), adapted from its Named-Pipe/JSON-framing
// transport to a newline-delimited AF_UNIX socket and its single
// CommandExecutor to this package's closed command table.
package ipc

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLineBytes is the per-client read-buffer size spec §4.13 names;
// exceeding it is a protocol error (`err line_too_long`).
const MaxLineBytes = 1024

// Reply is a single protocol reply line: always "ok ..." or "err ...".
type Reply struct {
	OK   bool
	Text string
}

// String renders the reply line spec §4.13 requires.
func (r Reply) String() string {
	if r.OK {
		if r.Text == "" {
			return "ok"
		}
		return "ok " + r.Text
	}
	return "err " + r.Text
}

func ok(text string) Reply  { return Reply{OK: true, Text: text} }
func errR(text string) Reply { return Reply{OK: false, Text: text} }

// ConfigDump is what `dump-config` reports (spec §4.13's reply schema).
type ConfigDump struct {
	KeysFile, AppsFile, StyleFile, MenuFile string
	Workspaces, Current                    int
}

// Handler supplies the live state/actions each recognized command needs.
// Kept as a small interface so this package never imports internal/view,
// internal/rules, or internal/server: the caller (internal/server) wires
// the real implementations.
type Handler interface {
	Reconfigure()
	DumpConfig() ConfigDump
	Quit()
	GetWorkspace() int // 1-based
	SetWorkspace(n int) bool
	NextWorkspace()
	PrevWorkspace()
	FocusNext()
}

// aliases maps every recognized command token (already lowercased) to
// its canonical name.
var aliases = map[string]string{
	"ping":           "ping",
	"reconfigure":    "reconfigure",
	"reconfig":       "reconfigure",
	"dump-config":    "dump-config",
	"dumpconfig":     "dump-config",
	"quit":           "quit",
	"exit":           "quit",
	"get-workspace":  "get-workspace",
	"getworkspace":   "get-workspace",
	"workspace":      "workspace",
	"nextworkspace":  "nextworkspace",
	"prevworkspace":  "prevworkspace",
	"nextwindow":     "nextwindow",
	"focus-next":     "nextwindow",
}

// Dispatch parses one command line (case-insensitive, per spec §4.13)
// and runs it against h, returning the reply line content.
func Dispatch(line string, h Handler) Reply {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return errR("unknown_command")
	}
	name, known := aliases[strings.ToLower(fields[0])]
	if !known {
		return errR("unknown_command")
	}

	switch name {
	case "ping":
		return ok("pong")
	case "reconfigure":
		h.Reconfigure()
		return ok("reconfigure")
	case "dump-config":
		d := h.DumpConfig()
		return ok(fmt.Sprintf("keys_file=%s apps_file=%s style_file=%s menu_file=%s workspaces=%d current=%d",
			d.KeysFile, d.AppsFile, d.StyleFile, d.MenuFile, d.Workspaces, d.Current))
	case "quit":
		h.Quit()
		return ok("quitting")
	case "get-workspace":
		return ok(fmt.Sprintf("workspace=%d", h.GetWorkspace()))
	case "workspace":
		if len(fields) < 2 {
			return errR("unknown_command")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return errR("unknown_command")
		}
		if !h.SetWorkspace(n) {
			return errR("workspace_out_of_range")
		}
		return ok(fmt.Sprintf("workspace=%d", n))
	case "nextworkspace":
		h.NextWorkspace()
		return ok("")
	case "prevworkspace":
		h.PrevWorkspace()
		return ok("")
	case "nextwindow":
		h.FocusNext()
		return ok("")
	default:
		return errR("unknown_command")
	}
}
