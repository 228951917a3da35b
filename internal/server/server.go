package server

import (
	"log"
	"strconv"

	"github.com/fluxbox-wayland/fluxwm/internal/focus"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/grab"
	"github.com/fluxbox-wayland/fluxwm/internal/ipc"
	"github.com/fluxbox-wayland/fluxwm/internal/menu"
	"github.com/fluxbox-wayland/fluxwm/internal/output"
	"github.com/fluxbox-wayland/fluxwm/internal/placement"
	"github.com/fluxbox-wayland/fluxwm/internal/rules"
	"github.com/fluxbox-wayland/fluxwm/internal/sessionlock"
	"github.com/fluxbox-wayland/fluxwm/internal/textinput"
	"github.com/fluxbox-wayland/fluxwm/internal/ui"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
	"github.com/fluxbox-wayland/fluxwm/internal/xwayland"
)

// Server is the single mutable aggregate spec §9 requires: every
// subsystem is reachable only through it, never through a process
// global. Handlers (IPC commands, backend event callbacks) all take a
// *Server.
type Server struct {
	Config Config

	Outputs     *output.Registry
	Views       *view.Manager
	Focus       *focus.Manager
	Grab        *grab.Grab
	Menus       *menu.Manager
	SessionLock *sessionlock.Manager
	TextInput   *textinput.Manager
	Rules       *rules.Store
	SlitList    *rules.SlitList
	Placement   placement.Policy
	GrabConfig  grab.Config
	RaiseConfig focus.AutoRaiseConfig

	// PointerConstraint is spec §4.5's single live pointer-lock/confine
	// constraint, consulted by DispatchPointerMotion.
	PointerConstraint focus.Constraint

	// grabAnchorX/Y is the cursor position BeginMoveGrab/BeginResizeGrab
	// captured, kept alongside grab.Grab's own GrabX/Y (which StepResize
	// mutates in place) so a keyboard-driven step can recover the
	// cumulative pointer delta grab.UpdateMove/UpdateResize expect.
	grabAnchorX, grabAnchorY int

	Dialog *ui.Dialog
	OSD    *ui.OSD
	Tray   *ui.Tray

	XWayland *xwayland.Bridge

	KeyEngine    *focus.Engine
	MouseTable   focus.Table
	MouseCapture *focus.Capture

	InputMethod textinput.InputMethod // nil until a backend binds one

	IPC *ipc.Server

	Workspace      int // 1-based, current
	WorkspaceCount int

	quitting   bool
	restarting bool
}

// New constructs a Server from cfg. It does not yet bind any socket or
// load any config file — that is Bootstrap's job (lifecycle.go).
func New(cfg Config) *Server {
	views := view.NewManager()
	s := &Server{
		Config:         cfg,
		Outputs:        output.New(),
		Views:          views,
		Focus:          focus.NewManager(),
		Grab:           grab.New(),
		Menus:          menu.NewManager(),
		SessionLock:    sessionlock.NewManager(),
		TextInput:      textinput.NewManager(),
		Rules:          rules.NewStore(),
		SlitList:       rules.NewSlitList(),
		Dialog:         &ui.Dialog{},
		OSD:            ui.NewOSD(ui.DefaultAutoHideMS),
		Tray:           &ui.Tray{},
		XWayland:       xwayland.New(views),
		KeyEngine:      focus.NewEngine(),
		MouseTable:     focus.NewTable(),
		MouseCapture:   &focus.Capture{},
		Workspace:      1,
		WorkspaceCount: cfg.Workspaces,
		RaiseConfig:    focus.AutoRaiseConfig{Enabled: true, DelayMs: 250},
	}
	return s
}

// --- view.MapPipeline -------------------------------------------------

// AddOutput registers a newly appeared backend output and seeds its root
// wallpaper from --bg-color (spec §6.1), logging but not failing the
// registration if the color fails to parse.
func (s *Server) AddOutput(backend wlsink.Output, struts output.Struts) output.ID {
	id := s.Outputs.Add(backend, struts)
	if rec, ok := s.Outputs.Get(id); ok {
		if err := rec.SetWallpaperFill(s.Config.BGColor); err != nil {
			log.Printf("server: output %s: bg-color: %v", backend.Name(), err)
		}
	}
	return id
}

// SelectOutput implements view.MapPipeline (spec §4.1's place_initial
// output choice): the first live output in registry order, or false if
// none exist yet. Neither the cursor position nor the layout center is
// consulted.
func (s *Server) SelectOutput(v *view.View) (output.ID, bool) {
	var id output.ID
	found := false
	s.Outputs.Each(func(oid output.ID, _ *output.Record) bool {
		id, found = oid, true
		return false
	})
	return id, found
}

// ApplyPreMapRules implements view.MapPipeline (spec §4.6 pre-map).
func (s *Server) ApplyPreMapRules(v *view.View) {
	target := rules.Target{AppID: v.AppID, Instance: v.Instance, Role: v.Role, Title: v.Title}
	id, matched := s.Rules.FindForView(target)
	if matched {
		s.Rules.RecordMatch(id)
	}

	var usable, full geom.Box
	if v.HasOutput {
		if rec, ok := s.Outputs.Get(v.OutputID); ok {
			usable, full = rec.UsableArea(), rec.Backend.LayoutBox()
		}
	}

	if matched {
		rr := s.ruleAt(id)
		result := rules.ApplyPreMap(v, rr, true, usable, full)
		if result.Jump {
			s.Workspace = result.Workspace
		} else if result.Workspace != 0 {
			v.Workspace = result.Workspace
		}
	}
}

// ruleAt returns a pointer to the live rule at id, so ApplyPreMap/
// ApplyPostMap can mutate match-count-adjacent bookkeeping the same way
// Store.RecordMatch does.
func (s *Server) ruleAt(id rules.ID) *rules.Rule {
	return &s.Rules.Rules[int(id)]
}

// Place implements view.MapPipeline (spec §4.3). X-bridged docks and
// desktop shells position themselves via their own window-type hints and
// bypass placement entirely (internal/xwayland.SkipsPlacement).
func (s *Server) Place(v *view.View, out output.ID) {
	if v.Placed {
		return
	}
	if v.Kind == wlsink.KindXBridged && v.XSurface != nil && xwayland.SkipsPlacement(xwayland.WindowType(v.XSurface)) {
		v.Placed = true
		return
	}
	rec, ok := s.Outputs.Get(out)
	if !ok {
		return
	}
	box := rec.UsableArea()

	if v.Tab || s.Placement.Strategy == placement.AutoTab {
		if s.joinAutoTab(v, out) {
			return
		}
	}

	var occupied []geom.Box
	s.Views.Each(func(_ view.ID, other *view.View) bool {
		if other == v || !other.Mapped || other.OutputID != out || other.Workspace != v.Workspace {
			return true
		}
		occupied = append(occupied, geom.Box{X: other.X, Y: other.Y, Width: other.Width, Height: other.Height})
		return true
	})
	x, y := s.Placement.PlaceNext(box, v.Width, v.Height, box.Center().X, box.Center().Y, occupied)
	v.ApplyGeometry(x, y, v.Width, v.Height)
	v.Placed = true
}

// joinAutoTab implements spec §4.3's auto_tab placement strategy: "attempt
// to join the topmost matching existing view as a tab." A match is a
// mapped view sharing v's app-id on the same output and workspace;
// "topmost" is approximated by the highest CreateSeq (most recently
// created match), since no separate stacking-order list exists outside
// the backend's own scene graph. Returns false (leaving v unplaced) if no
// match exists, so the caller falls through to ordinary placement —
// placement.Policy.PlaceNext does the same row_smart fallback for the
// AutoTab strategy itself (spec §4.3: "fall back to row_smart if no
// match").
func (s *Server) joinAutoTab(v *view.View, out output.ID) bool {
	if v.AppID == "" {
		return false
	}
	var target view.ID
	var targetV *view.View
	s.Views.Each(func(id view.ID, other *view.View) bool {
		if other == v || !other.Mapped || other.OutputID != out || other.Workspace != v.Workspace {
			return true
		}
		if other.AppID != v.AppID {
			return true
		}
		if targetV == nil || other.CreateSeq > targetV.CreateSeq {
			target, targetV = id, other
		}
		return true
	})
	if targetV == nil {
		return false
	}
	viewID, ok := s.viewIDOf(v)
	if !ok {
		return false
	}
	tgID := targetV.TabGroup
	if !targetV.HasTabGroup {
		tgID = s.Views.CreateTabGroup(target)
	}
	s.Views.JoinTabGroup(tgID, viewID)
	v.ApplyGeometry(targetV.X, targetV.Y, targetV.Width, targetV.Height)
	v.Placed = true
	return true
}

// ApplyPostMapRules implements view.MapPipeline (spec §4.6 post-map).
func (s *Server) ApplyPostMapRules(v *view.View) {
	target := rules.Target{AppID: v.AppID, Instance: v.Instance, Role: v.Role, Title: v.Title}
	id, matched := s.Rules.FindForView(target)
	if !matched {
		return
	}
	viewID, ok := s.viewIDOf(v)
	if !ok {
		return
	}
	box := geom.Box{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
	rules.ApplyPostMap(s.Views, viewID, s.ruleAt(id), true, box, v.Decor.Extents(), v.OutputID)
}

// viewIDOf recovers a view's arena ID by linear scan; the Server never
// stores a reverse pointer->ID map since views are always reached by ID
// from their owning call site, except here where MapPipeline hands us a
// bare *View.
func (s *Server) viewIDOf(v *view.View) (view.ID, bool) {
	var found view.ID
	ok := false
	s.Views.Each(func(id view.ID, candidate *view.View) bool {
		if candidate == v {
			found, ok = id, true
			return false
		}
		return true
	})
	return found, ok
}

// FocusOnMap implements view.MapPipeline (spec §4.2's focus-on-map
// policy): a newly mapped, non-hidden view takes focus unless it asked to
// stay unfocused (FocusHidden).
func (s *Server) FocusOnMap(v *view.View, reason view.FocusReason) {
	if v.FocusHidden {
		return
	}
	if v.Kind == wlsink.KindXBridged && v.XSurface != nil && xwayland.SkipsFocusOnMap(xwayland.WindowType(v.XSurface)) {
		return
	}
	id, ok := s.viewIDOf(v)
	if !ok {
		return
	}
	if s.Focus.Focus(s.Views, focusBackendStub{}, id, reason, s.SessionLock.Locked, s.RaiseConfig, nil, wlsink.ModState(0)) {
		s.notifyTextInputFocus(id, true)
	}
}

// OnUnmapped implements view.MapPipeline (spec §3.3).
func (s *Server) OnUnmapped(v *view.View) {
	id, ok := s.viewIDOf(v)
	if !ok {
		return
	}
	if s.Focus.HasFocused && s.Focus.Focused == id {
		s.Focus.HasFocused = false
		s.notifyTextInputFocus(id, false)
	}
}

// notifyTextInputFocus bridges a keyboard-focus change into spec §4.11's
// text-input enter/leave dance (internal/textinput.Manager.
// OnKeyboardFocusChange). InputMethod is nil until a backend binds one;
// OnKeyboardFocusChange tolerates a nil sink, so this is safe to call
// unconditionally.
func (s *Server) notifyTextInputFocus(id view.ID, has bool) {
	s.TextInput.OnKeyboardFocusChange(s.InputMethod, id, has, s.surfaceOf)
}

// surfaceOf resolves a view ID to the backend surface handle text-input
// enter/leave events carry, for the id's native or x-bridged surface.
func (s *Server) surfaceOf(id view.ID) any {
	v, ok := s.Views.Get(id)
	if !ok {
		return nil
	}
	if v.Kind == wlsink.KindNative {
		return v.Surface
	}
	return v.XSurface
}

// BindInputMethod installs im as the single live input-method sink (spec
// §4.11); Unbind clears it.
func (s *Server) BindInputMethod(im textinput.InputMethod) bool {
	if !s.TextInput.BindInputMethod(im) {
		return false
	}
	s.InputMethod = im
	return true
}

func (s *Server) UnbindInputMethod() {
	s.TextInput.UnbindInputMethod()
	s.InputMethod = nil
}

// focusBackendStub is the minimal focus.Backend a bare map-time focus
// change needs; real keyboard-enter/raise plumbing is supplied by the
// backend event-loop integration outside this module's scope.
type focusBackendStub struct{}

func (focusBackendStub) KeyboardEnter(*view.View, []uint32, wlsink.ModState) {}
func (focusBackendStub) KeyboardLeave(*view.View)                            {}
func (focusBackendStub) Raise(*view.View)                                    {}

// --- ipc.Handler --------------------------------------------------------

func (s *Server) Reconfigure() {
	log.Printf("server: reconfigure requested")
	if err := s.loadConfigFiles(); err != nil {
		log.Printf("server: reconfigure: %v", err)
	}
}

func (s *Server) DumpConfig() ipc.ConfigDump {
	return ipc.ConfigDump{
		KeysFile:   s.Config.KeysFile,
		AppsFile:   s.Config.AppsFile,
		StyleFile:  s.Config.StyleFile,
		MenuFile:   s.Config.MenuFile,
		Workspaces: s.WorkspaceCount,
		Current:    s.Workspace,
	}
}

func (s *Server) Quit() {
	s.quitting = true
}

func (s *Server) Quitting() bool { return s.quitting }

// Restart stops the event loop the same way Quit does, but marks the exit
// as a restart (spec §6.1: "On restart, if restart_cmd is set, exec a
// shell with it; else exec the self-argv") rather than a plain shutdown.
func (s *Server) Restart() {
	s.quitting = true
	s.restarting = true
}

func (s *Server) Restarting() bool { return s.restarting }

func (s *Server) GetWorkspace() int { return s.Workspace }

func (s *Server) SetWorkspace(n int) bool {
	if n < 1 || n > s.WorkspaceCount {
		return false
	}
	s.Workspace = n
	s.showWorkspaceOSD()
	return true
}

func (s *Server) NextWorkspace() {
	s.Workspace++
	if s.Workspace > s.WorkspaceCount {
		s.Workspace = 1
	}
	s.showWorkspaceOSD()
}

func (s *Server) PrevWorkspace() {
	s.Workspace--
	if s.Workspace < 1 {
		s.Workspace = s.WorkspaceCount
	}
	s.showWorkspaceOSD()
}

// showWorkspaceOSD arms the "N: <name>" overlay spec §4.8 describes.
// Workspace naming is out of this module's scope (no named-workspace
// config exists), so the name is always the bare "Workspace N" label.
func (s *Server) showWorkspaceOSD() {
	s.OSD.Show(s.Workspace, "Workspace "+strconv.Itoa(s.Workspace))
}

// OpenCommandDialog shows the command dialog, closing any open menu
// first (spec §4.8: "opening the dialog closes any open menu").
func (s *Server) OpenCommandDialog(submit ui.SubmitFunc) {
	if s.Menus.IsOpen() {
		s.Menus.CloseRoot()
	}
	s.Dialog.OpenDialog(submit)
}

func (s *Server) FocusNext() {
	var ids []view.ID
	s.Views.Each(func(id view.ID, v *view.View) bool {
		if v.Mapped && v.Workspace == s.Workspace {
			ids = append(ids, id)
		}
		return true
	})
	if len(ids) == 0 {
		return
	}
	next := ids[0]
	if s.Focus.HasFocused {
		for i, id := range ids {
			if id == s.Focus.Focused {
				next = ids[(i+1)%len(ids)]
				break
			}
		}
	}
	if s.Focus.Focus(s.Views, focusBackendStub{}, next, view.ReasonKeybind, s.SessionLock.Locked, s.RaiseConfig, nil, wlsink.ModState(0)) {
		s.notifyTextInputFocus(next, true)
	}
}

// StepTab moves the focused view's tab-group selection by delta (+1
// next, -1 previous), focusing the newly active member (spec §4.1 "Tab
// group" keyboard nav). A no-op if nothing is focused or the focused
// view isn't tabbed.
func (s *Server) StepTab(delta int) {
	if !s.Focus.HasFocused {
		return
	}
	v, ok := s.Views.Get(s.Focus.Focused)
	if !ok || !v.HasTabGroup {
		return
	}
	next, ok := s.Views.StepTabGroupActive(v.TabGroup, delta)
	if !ok {
		return
	}
	if s.Focus.Focus(s.Views, focusBackendStub{}, next, view.ReasonKeybind, s.SessionLock.Locked, s.RaiseConfig, nil, wlsink.ModState(0)) {
		s.notifyTextInputFocus(next, true)
	}
}

// RunAction is the single dispatch point spec §4.9's key- and
// mouse-binding tables resolve a matched combo/click to: both
// KeyEngine.Dispatch and MouseCapture's Press/Motion/Release take a
// `run func(action string)` callback, and this is the one this Server
// passes them. The action vocabulary mirrors the IPC command set (spec
// §4.13) plus the command-dialog open spec §4.8 names, since a binding
// is just another way to invoke the same server-level operations an IPC
// client can.
func (s *Server) RunAction(action string) {
	switch action {
	case "nextworkspace":
		s.NextWorkspace()
	case "prevworkspace":
		s.PrevWorkspace()
	case "reconfigure":
		s.Reconfigure()
	case "quit":
		s.Quit()
	case "restart":
		s.Restart()
	case "focusnext":
		s.FocusNext()
	case "nexttab":
		s.StepTab(1)
	case "prevtab":
		s.StepTab(-1)
	case "opendialog":
		s.OpenCommandDialog(func(string) bool { return true })
	default:
		log.Printf("server: unbound action %q", action)
	}
}

// BeginMoveGrab starts an interactive move, dispatched from a backend
// pointer-button event that matched a mousebind "move" action (spec
// §4.4/§4.9).
func (s *Server) BeginMoveGrab(id view.ID, cursorX, cursorY int, button uint32) bool {
	if !s.Grab.BeginMove(s.Views, id, cursorX, cursorY, button, s.GrabConfig) {
		return false
	}
	s.grabAnchorX, s.grabAnchorY = cursorX, cursorY
	return true
}

// BeginResizeGrab starts an interactive resize along edges, dispatched
// from a backend pointer-button event that matched a mousebind "resize"
// action (spec §4.4/§4.9).
func (s *Server) BeginResizeGrab(id view.ID, cursorX, cursorY int, button uint32, edges grab.Edges, be grab.Backend) bool {
	if !s.Grab.BeginResize(s.Views, be, id, cursorX, cursorY, button, edges, s.GrabConfig) {
		return false
	}
	s.grabAnchorX, s.grabAnchorY = cursorX, cursorY
	return true
}

// EndGrab commits the current move/resize grab, if one is active (spec
// §4.4: button release ends the grab).
func (s *Server) EndGrab(be grab.Backend) {
	if !s.Grab.Active() {
		return
	}
	s.Grab.Commit(s.Views, be)
	s.Grab.End(be)
}

// Tick runs the once-per-dispatch-batch housekeeping DESIGN.md's Open
// Question decision #3 assigns to a single call site: auto-raise firing
// and the workspace OSD's auto-hide. The backend event-loop
// integration calls this once per iteration; cmd/fluxwm's simplified
// stand-in loop exercises only this cursor-independent half, since
// strict-mouse-focus recheck (RecheckStrictMouseFocus below) needs a
// pointer-under-cursor query only the real backend can answer.
func (s *Server) Tick() {
	s.Focus.FireAutoRaise(s.Views, focusBackendStub{})
	s.OSD.Tick()
}

// RecheckStrictMouseFocus runs spec §4.2's strict-mouse-focus recheck,
// at most once per dispatch batch (DESIGN.md's Open Question decision
// #3). The backend supplies which view, if any, is under the cursor.
func (s *Server) RecheckStrictMouseFocus(headIndex int, underCursor view.ID, hasUnderCursor bool) {
	s.Focus.RecheckStrictMouse(s.Views, focusBackendStub{}, headIndex, s.SessionLock.Locked, s.RaiseConfig, underCursor, hasUnderCursor)
}

var _ ipc.Handler = (*Server)(nil)
