package server

import (
	"log"
	"os"

	"github.com/fluxbox-wayland/fluxwm/internal/focus"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/grab"
	"github.com/fluxbox-wayland/fluxwm/internal/menu"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

// LogicalKey names the handful of keys the pipeline itself (menus,
// dialog, grab) reacts to; everything else is KeyOther and only ever
// reaches the configured key-binding table (spec §4.2).
type LogicalKey int

const (
	KeyOther LogicalKey = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPrintable
)

// KeyEvent is one physical key press, decoded into both the logical-key
// vocabulary above and a focus.KeyCombo for the key-binding engine, the
// pipeline's last resort before the focused client.
type KeyEvent struct {
	Logical    LogicalKey
	Rune       rune // valid iff Logical == KeyPrintable
	Combo      focus.KeyCombo
	Ctrl       bool
	Shift      bool
	IsModifier bool
	NowMs      int64
	HeldKeycodes []uint32
	Mods       wlsink.ModState
}

// DispatchKey runs spec §4.2's seven-step key pipeline: session lock,
// menus, the command dialog, an active grab, the shortcut inhibitor, the
// key-binding engine, then the focused client. Each step either consumes
// the event (true) or falls through; a false return means the caller
// must still forward the key to the focused client surface itself, which
// is a seat/backend concern this package has no handle on. be supplies
// the grab.Backend an active grab's outline/opaque updates need (step 4
// only; every earlier step is plain bookkeeping).
func (s *Server) DispatchKey(ev KeyEvent, be grab.Backend) bool {
	if s.SessionLock.Locked {
		return true
	}

	if s.Menus.IsOpen() {
		s.dispatchMenuKey(ev)
		return true
	}

	if s.Dialog.Open {
		s.dispatchDialogKey(ev)
		return true
	}

	if s.Grab.Active() {
		if s.dispatchGrabKey(ev, be) {
			return true
		}
	}

	if s.Focus.Inhibitor.Active() {
		return false
	}

	if s.KeyEngine.Dispatch(ev.Combo, ev.NowMs, ev.IsModifier, s.RunAction) {
		return true
	}

	return false
}

// dispatchMenuKey implements key pipeline step 2 against the innermost
// open menu (spec §4.7): Escape closes, Enter activates the selection,
// arrows move it, Right/Left open/close a submenu, and a printable key
// jumps to the next item starting with that letter.
func (s *Server) dispatchMenuKey(ev KeyEvent) {
	m := s.Menus.Innermost()
	if m == nil {
		return
	}
	switch ev.Logical {
	case KeyEscape:
		s.Menus.CloseRoot()
	case KeyEnter:
		if act, ok := m.Activate(); ok {
			s.Menus.CloseRoot()
			s.RunMenuAction(act)
		}
	case KeyUp:
		m.MoveSelection(menu.Prev)
	case KeyDown:
		m.MoveSelection(menu.Next)
	case KeyRight:
		s.Menus.OpenSubmenu()
	case KeyLeft:
		s.Menus.CloseSubmenu()
	case KeyPrintable:
		m.JumpToLetter(ev.Rune)
	}
}

// dispatchDialogKey implements key pipeline step 3 against the open
// command dialog (spec §4.8).
func (s *Server) dispatchDialogKey(ev KeyEvent) {
	switch ev.Logical {
	case KeyEscape:
		s.Dialog.Escape()
	case KeyEnter:
		s.Dialog.Enter()
	case KeyBackspace:
		s.Dialog.Backspace()
	case KeyPrintable:
		s.Dialog.AppendRune(ev.Rune)
	}
}

// dispatchGrabKey implements key pipeline step 4 against an active grab
// (spec §4.4): Escape cancels and restores the pre-grab geometry; arrow
// keys apply one keyboard-driven resize/move step (grab.StepResize,
// validated against scenario S3) and immediately follow it with the
// Update call that actually moves the view, recovering the cumulative
// pointer delta from grabAnchorX/Y since grab.Grab.GrabX/Y is mutated in
// place by StepResize itself. Returns whether the key was consumed.
func (s *Server) dispatchGrabKey(ev KeyEvent, be grab.Backend) bool {
	switch ev.Logical {
	case KeyEscape:
		s.Grab.Cancel(s.Views, be)
		return true
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		dirX, dirY := 0, 0
		switch ev.Logical {
		case KeyLeft:
			dirX = -1
		case KeyRight:
			dirX = 1
		case KeyUp:
			dirY = -1
		case KeyDown:
			dirY = 1
		}
		s.Grab.StepResize(s.Views, dirX, dirY, ev.Ctrl, ev.Shift)
		var dx, dy int
		switch s.Grab.Mode {
		case grab.Resize:
			dx, dy = s.grabAnchorX-s.Grab.GrabX, s.grabAnchorY-s.Grab.GrabY
		case grab.Move:
			dx, dy = s.Grab.GrabX-s.grabAnchorX, s.Grab.GrabY-s.grabAnchorY
		}
		s.updateGrabMotion(be, dx, dy)
		return true
	}
	return false
}

// updateGrabMotion applies a pointer-style delta to the active grab,
// looking up the grabbed view's output usable box for edge snapping.
// Shared by dispatchGrabKey's keyboard-driven steps and
// DispatchPointerMotion's pointer-driven updates.
func (s *Server) updateGrabMotion(be grab.Backend, dx, dy int) {
	var box geom.Box
	hasOutput := false
	if v, ok := s.Views.Get(s.Grab.View); ok && v.HasOutput {
		if rec, ok := s.Outputs.Get(v.OutputID); ok {
			box, hasOutput = rec.UsableArea(), true
		}
	}
	switch s.Grab.Mode {
	case grab.Move:
		s.Grab.UpdateMove(s.Views, be, dx, dy, box, hasOutput, s.GrabConfig)
	case grab.Resize:
		s.Grab.UpdateResize(s.Views, be, nil, dx, dy, box, hasOutput, s.GrabConfig)
	}
}

// DispatchPointerMotion runs spec §4.5's pointer pipeline: grab update,
// pointer constraint, hit-test, then the focus-model check. Hit-testing
// needs scene geometry only the backend has, so underCursor/hasUnderCursor
// are supplied by the caller exactly as RecheckStrictMouseFocus already
// requires; this is the live-motion counterpart that actually applies
// them instead of only the once-per-batch recheck. Returns the cursor
// position the caller should move to and the relative-pointer event spec
// §4.5 says is emitted for every motion regardless of constraint state.
func (s *Server) DispatchPointerMotion(be grab.Backend, headIndex int, cursorX, cursorY, dx, dy float64, timeUs uint64, unaccelDx, unaccelDy float64, underCursor view.ID, hasUnderCursor bool) (newX, newY float64, rel wlsink.RelativePointerEvent) {
	rel = focus.EmitRelativePointer(timeUs, dx, dy, unaccelDx, unaccelDy)

	if s.Grab.Active() {
		newX, newY = cursorX+dx, cursorY+dy
		s.updateGrabMotion(be, int(newX)-s.grabAnchorX, int(newY)-s.grabAnchorY)
		return newX, newY, rel
	}

	newX, newY = s.PointerConstraint.ApplyMotion(cursorX, cursorY, dx, dy)

	if !hasUnderCursor || s.Menus.IsOpen() || s.Dialog.Open {
		return newX, newY, rel
	}
	if s.Focus.EffectiveModel(headIndex) == focus.ClickToFocus {
		return newX, newY, rel
	}
	if s.Focus.Focus(s.Views, focusBackendStub{}, underCursor, view.ReasonPointerMotion, s.SessionLock.Locked, s.RaiseConfig, nil, wlsink.ModState(0)) {
		s.notifyTextInputFocus(underCursor, true)
		s.PointerConstraint.OnFocusChange(underCursor, true)
	}
	return newX, newY, rel
}

// RunMenuAction consumes the Action menu.Menu.Activate resolves a
// selected item to (spec §4.7), dispatching into the same subsystems a
// key/mouse binding or IPC command already reaches.
func (s *Server) RunMenuAction(act menu.Action) {
	switch act.Kind {
	case menu.KindExec:
		if err := execCommand(act.Cmd); err != nil {
			log.Printf("server: menu exec %q: %v", act.Cmd, err)
		}
	case menu.KindExit:
		s.Quit()
	case menu.KindServerAction:
		s.runServerAction(act)
	case menu.KindViewAction:
		s.runViewAction(act.ViewActionKind)
	case menu.KindWorkspaceSwitch:
		s.SetWorkspace(act.Workspace)
	}
}

// runServerAction applies a KindServerAction menu item, handling the two
// kinds scenario S6 names by name and otherwise falling back to running
// the item's companion Cmd, the same way a mousebind action string can
// carry an arbitrary shell command.
func (s *Server) runServerAction(act menu.Action) {
	switch act.ServerActionKind {
	case menu.ActionSetFocusModel:
		s.Focus.Model = parseFocusModel(act.ServerActionArg)
	case menu.ActionToggleAutoRaise:
		s.RaiseConfig.Enabled = !s.RaiseConfig.Enabled
	default:
		if act.Cmd != "" {
			if err := execCommand(act.Cmd); err != nil {
				log.Printf("server: menu server_action %q: %v", act.ServerActionKind, err)
			}
		}
	}
}

// runViewAction applies a KindViewAction menu item to the focused view;
// the vocabulary mirrors the window operations a titlebar button or
// mousebind action already exposes.
func (s *Server) runViewAction(kind string) {
	if !s.Focus.HasFocused {
		return
	}
	id := s.Focus.Focused
	v, ok := s.Views.Get(id)
	if !ok {
		return
	}
	switch kind {
	case "close":
		switch v.Kind {
		case wlsink.KindNative:
			if v.Surface != nil {
				v.Surface.Close()
			}
		case wlsink.KindXBridged:
			if v.XSurface != nil {
				v.XSurface.Close()
			}
		}
	case "minimize":
		s.Views.SetMinimized(id, true)
	case "maximize":
		s.Views.SetMaximized(id, true, true, s.usableBoxFor(v), geom.Edges{}, false)
	case "shade":
		s.Views.SetShaded(id, !v.Shaded)
	case "fullscreen":
		s.Views.SetFullscreen(id, !v.Fullscreen, v.OutputID, s.usableBoxFor(v))
	}
}

// usableBoxFor returns v's output's usable area, or the zero box if it
// has none (matching MaximizeTarget/SetFullscreen's tolerance of an
// empty box).
func (s *Server) usableBoxFor(v *view.View) geom.Box {
	if !v.HasOutput {
		return geom.Box{}
	}
	rec, ok := s.Outputs.Get(v.OutputID)
	if !ok {
		return geom.Box{}
	}
	return rec.UsableArea()
}

// OpenRootMenu opens m as the root context menu, first syncing its
// toggle/selected state against live focus-model/auto-raise state (spec
// §4.7, scenario S6), and closing the command dialog the same way
// OpenCommandDialog closes any open menu.
func (s *Server) OpenRootMenu(m *menu.Menu) {
	if s.Dialog.Open {
		s.Dialog.Close()
	}
	menu.Sync(m, menu.AutoRaiseHook(s.RaiseConfig.Enabled, menu.FocusModelHook(modelString(s.Focus.Model), menu.NoOpHook)))
	s.Menus.OpenRoot(m)
}

// modelString/parseFocusModel convert between focus.Model and the
// server_action arg strings scenario S6 and the config surface use
// ("click_to_focus"/"mouse_focus"/"strict_mouse_focus").
func modelString(m focus.Model) string {
	switch m {
	case focus.MouseFocus:
		return "mouse_focus"
	case focus.StrictMouseFocus:
		return "strict_mouse_focus"
	default:
		return "click_to_focus"
	}
}

func parseFocusModel(s string) focus.Model {
	switch s {
	case "mouse_focus":
		return focus.MouseFocus
	case "strict_mouse_focus":
		return focus.StrictMouseFocus
	default:
		return focus.ClickToFocus
	}
}

// execCommand runs cmd via the user's shell, detached, mirroring
// cmd/fluxwm's startup-command spawn helper (spec §6.1's subprocess
// convention), reused here for menu exec items and exec-bearing
// server_action items (spec §4.7).
func execCommand(cmd string) error {
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
