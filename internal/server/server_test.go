package server

import (
	"testing"
	"time"

	"github.com/fluxbox-wayland/fluxwm/internal/focus"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/grab"
	"github.com/fluxbox-wayland/fluxwm/internal/menu"
	"github.com/fluxbox-wayland/fluxwm/internal/output"
	"github.com/fluxbox-wayland/fluxwm/internal/textinput"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

type fakeInputMethod struct {
	entered, left any
}

func (f *fakeInputMethod) Activate()                                {}
func (f *fakeInputMethod) Deactivate()                               {}
func (f *fakeInputMethod) SetSurroundingText(string, uint32, uint32) {}
func (f *fakeInputMethod) SetContentType(uint32, uint32)             {}
func (f *fakeInputMethod) Done()                                     {}
func (f *fakeInputMethod) Unavailable()                              {}
func (f *fakeInputMethod) Enter(surface any)                         { f.entered = surface }
func (f *fakeInputMethod) Leave(surface any)                         { f.left = surface }

type fakeViewSurface struct{}

func (fakeViewSurface) CurrentSize() (int, int)               { return 0, 0 }
func (fakeViewSurface) SetSize(int, int)                      {}
func (fakeViewSurface) SetActivated(bool)                     {}
func (fakeViewSurface) SetMaximized(bool)                     {}
func (fakeViewSurface) SetFullscreen(bool, wlsink.Output)     {}
func (fakeViewSurface) SetMinimized(bool)                     {}
func (fakeViewSurface) SetTiled(geom.Edges)                   {}
func (fakeViewSurface) Close()                                {}
func (fakeViewSurface) SizeIncrement() (int, int)             { return 0, 0 }

type fakeGrabBackend struct {
	resizing bool
}

func (f *fakeGrabBackend) SetResizing(v *view.View, resizing bool) { f.resizing = resizing }
func (f *fakeGrabBackend) Outline() grab.Outline                   { return fakeOutline{} }

type fakeOutline struct{}

func (fakeOutline) Show(geom.Box) {}
func (fakeOutline) Hide()         {}

type fakeOutputBackend struct {
	name string
	box  geom.Box
}

func (f fakeOutputBackend) Name() string          { return f.name }
func (f fakeOutputBackend) LayoutBox() geom.Box   { return f.box }
func (f fakeOutputBackend) PreferredMode() (int, int) {
	return f.box.Width, f.box.Height
}

func newTestServer(t *testing.T) (*Server, output.ID) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workspaces = 4
	s := New(cfg)
	id := s.Outputs.Add(fakeOutputBackend{name: "TEST-1", box: geom.Box{X: 0, Y: 0, Width: 1000, Height: 800}}, output.Struts{})
	return s, id
}

func TestNewServerDefaultsWorkspaceToOne(t *testing.T) {
	s, _ := newTestServer(t)
	if s.Workspace != 1 {
		t.Fatalf("Workspace = %d, want 1", s.Workspace)
	}
	if s.WorkspaceCount != 4 {
		t.Fatalf("WorkspaceCount = %d, want 4", s.WorkspaceCount)
	}
}

func TestIPCHandlerWorkspaceNavigationMatchesScenarioS1(t *testing.T) {
	s, _ := newTestServer(t)

	if got := s.GetWorkspace(); got != 1 {
		t.Fatalf("GetWorkspace = %d, want 1", got)
	}
	if !s.SetWorkspace(3) || s.GetWorkspace() != 3 {
		t.Fatalf("SetWorkspace(3) failed, workspace = %d", s.GetWorkspace())
	}
	if s.SetWorkspace(99) {
		t.Fatalf("SetWorkspace(99) should fail on a 4-workspace session")
	}
	s.NextWorkspace()
	if s.GetWorkspace() != 4 {
		t.Fatalf("after nextworkspace from 3: workspace = %d, want 4", s.GetWorkspace())
	}
	s.NextWorkspace()
	if s.GetWorkspace() != 1 {
		t.Fatalf("after wrapping nextworkspace from 4: workspace = %d, want 1", s.GetWorkspace())
	}
}

func TestQuitSetsQuittingFlag(t *testing.T) {
	s, _ := newTestServer(t)
	if s.Quitting() {
		t.Fatalf("Quitting() = true before Quit()")
	}
	s.Quit()
	if !s.Quitting() {
		t.Fatalf("Quitting() = false after Quit()")
	}
}

func TestSelectOutputReturnsLiveOutput(t *testing.T) {
	s, wantID := newTestServer(t)
	id, ok := s.SelectOutput(nil)
	if !ok || id != wantID {
		t.Fatalf("SelectOutput = (%v, %v), want (%v, true)", id, ok, wantID)
	}
}

func TestDumpConfigReportsConfiguredPaths(t *testing.T) {
	s, _ := newTestServer(t)
	s.Workspace = 2
	d := s.DumpConfig()
	if d.Workspaces != 4 || d.Current != 2 {
		t.Fatalf("DumpConfig = %+v, want workspaces=4 current=2", d)
	}
	if d.AppsFile != s.Config.AppsFile {
		t.Fatalf("DumpConfig.AppsFile = %q, want %q", d.AppsFile, s.Config.AppsFile)
	}
}

func TestConfigValidateRejectsZeroWorkspaces(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workspaces = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() with Workspaces=0: want error, got nil")
	}
}

func TestConfigValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults: %v", err)
	}
	cfg.LogLevel = "very-loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() with bad log level: want error, got nil")
	}
}

func TestKeyEngineDispatchRunsActionViaRunAction(t *testing.T) {
	s, _ := newTestServer(t)
	combo := focus.KeyCombo{Code: 42}
	s.KeyEngine.Bind("default", combo, "nextworkspace")
	s.KeyEngine.Dispatch(combo, 0, false, s.RunAction)
	if s.GetWorkspace() != 2 {
		t.Fatalf("bound key did not advance workspace: got %d, want 2", s.GetWorkspace())
	}
}

func TestMouseTableLookupThroughCaptureRunsAction(t *testing.T) {
	s, _ := newTestServer(t)
	key := focus.Key{Context: focus.CtxWindow, Button: 1}
	s.MouseTable.Set(focus.Binding{Key: key, Event: focus.EventPress, Action: "focusnext"})
	s.MouseCapture.Press(s.MouseTable, key, 0, 0, s.RunAction)
	if !s.MouseCapture.Active {
		t.Fatalf("Press did not mark the capture active")
	}
}

func TestRunActionDispatchesWorkspaceAndQuit(t *testing.T) {
	s, _ := newTestServer(t)
	s.RunAction("nextworkspace")
	if s.GetWorkspace() != 2 {
		t.Fatalf("RunAction(nextworkspace): workspace = %d, want 2", s.GetWorkspace())
	}
	s.RunAction("quit")
	if !s.Quitting() {
		t.Fatalf("RunAction(quit) did not set quitting")
	}
}

func TestBeginAndEndMoveGrab(t *testing.T) {
	s, outID := newTestServer(t)
	id, v := s.Views.Create(nil)
	v.OutputID = outID
	v.HasOutput = true
	v.Width, v.Height = 200, 100

	if !s.BeginMoveGrab(id, 10, 10, 1) {
		t.Fatalf("BeginMoveGrab returned false")
	}
	if !s.Grab.Active() {
		t.Fatalf("Grab.Active() = false after BeginMoveGrab")
	}
	be := &fakeGrabBackend{}
	s.EndGrab(be)
	if s.Grab.Active() {
		t.Fatalf("Grab.Active() = true after EndGrab")
	}
}

func TestOpenCommandDialogClosesOpenMenu(t *testing.T) {
	s, _ := newTestServer(t)
	s.Menus.OpenRoot(&menu.Menu{})
	if !s.Menus.IsOpen() {
		t.Fatalf("test setup: menu did not open")
	}
	s.OpenCommandDialog(func(string) bool { return true })
	if s.Menus.IsOpen() {
		t.Fatalf("OpenCommandDialog left a menu open")
	}
	if !s.Dialog.Open {
		t.Fatalf("OpenCommandDialog did not open the dialog")
	}
}

func TestSetWorkspaceArmsOSD(t *testing.T) {
	s, _ := newTestServer(t)
	s.SetWorkspace(2)
	if !s.OSD.Visible || s.OSD.Text() != "2: Workspace 2" {
		t.Fatalf("OSD after SetWorkspace(2): visible=%v text=%q", s.OSD.Visible, s.OSD.Text())
	}
}

func TestTickHidesExpiredOSD(t *testing.T) {
	s, _ := newTestServer(t)
	s.OSD.AutoHideMS = 1
	s.OSD.Show(1, "Workspace 1")
	time.Sleep(2 * time.Millisecond)
	s.Tick()
	if s.OSD.Visible {
		t.Fatalf("Tick did not hide an expired OSD")
	}
}

func TestRecheckStrictMouseFocusRefocusesUnderCursor(t *testing.T) {
	s, outID := newTestServer(t)
	s.Focus.Model = focus.StrictMouseFocus
	id, v := s.Views.Create(nil)
	v.OutputID = outID
	v.HasOutput = true
	v.Mapped = true
	v.Workspace = s.Workspace

	s.RecheckStrictMouseFocus(0, id, true)
	if !s.Focus.HasFocused || s.Focus.Focused != id {
		t.Fatalf("RecheckStrictMouseFocus did not refocus the view under the cursor")
	}
}

func TestFocusOnMapNotifiesBoundInputMethod(t *testing.T) {
	s, outID := newTestServer(t)
	im := &fakeInputMethod{}
	if !s.BindInputMethod(im) {
		t.Fatalf("BindInputMethod returned false")
	}

	id, v := s.Views.Create(fakeViewSurface{})
	v.OutputID = outID
	v.HasOutput = true
	v.Workspace = s.Workspace
	ti := &textinput.TextInput{ID: 1, Owner: id}
	s.TextInput.Register(ti)

	s.FocusOnMap(v, view.ReasonMap)
	if im.entered == nil {
		t.Fatalf("FocusOnMap did not notify the bound input method of the new focus")
	}
}

func TestStepTabFocusesNextGroupMember(t *testing.T) {
	s, outID := newTestServer(t)
	id1, v1 := s.Views.Create(nil)
	v1.OutputID, v1.HasOutput, v1.Workspace, v1.Mapped = outID, true, s.Workspace, true
	id2, v2 := s.Views.Create(nil)
	v2.OutputID, v2.HasOutput, v2.Workspace, v2.Mapped = outID, true, s.Workspace, true

	tgID := s.Views.CreateTabGroup(id1)
	s.Views.JoinTabGroup(tgID, id2)
	s.Focus.Focus(s.Views, focusBackendStub{}, id1, view.ReasonKeybind, false, s.RaiseConfig, nil, wlsink.ModState(0))

	s.RunAction("nexttab")
	if s.Focus.Focused != id2 {
		t.Fatalf("nexttab: focused = %v, want %v", s.Focus.Focused, id2)
	}
	s.RunAction("prevtab")
	if s.Focus.Focused != id1 {
		t.Fatalf("prevtab: focused = %v, want %v", s.Focus.Focused, id1)
	}
}

func TestRunActionRestartSetsRestartingAndQuitting(t *testing.T) {
	s, _ := newTestServer(t)
	s.RunAction("restart")
	if !s.Quitting() || !s.Restarting() {
		t.Fatalf("RunAction(restart): quitting=%v restarting=%v, want true/true", s.Quitting(), s.Restarting())
	}
}

func TestAddOutputSeedsWallpaperFromBGColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BGColor = "#223344"
	s := New(cfg)
	id := s.AddOutput(fakeOutputBackend{name: "TEST-1", box: geom.Box{Width: 100, Height: 50}}, output.Struts{})
	rec, ok := s.Outputs.Get(id)
	if !ok {
		t.Fatalf("AddOutput did not register the output")
	}
	if rec.Wallpaper == nil {
		t.Fatalf("AddOutput did not seed a wallpaper fill")
	}
	if w := rec.Wallpaper.Bounds().Dx(); w != 100 {
		t.Fatalf("wallpaper width = %d, want 100", w)
	}
}

func TestResolvePathsExpandsConfigDirRelativeFiles(t *testing.T) {
	cfg := Config{ConfigDir: "/tmp/fluxwm-test", KeysFile: "keys", AppsFile: "apps", StyleFile: "style", MenuFile: "menu"}
	cfg.ResolvePaths()
	if cfg.KeysFile != "/tmp/fluxwm-test/keys" {
		t.Fatalf("KeysFile = %q, want /tmp/fluxwm-test/keys", cfg.KeysFile)
	}
}
