package grab

import (
	"testing"

	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

type fakeSurface struct{ w, h int }

func (s *fakeSurface) CurrentSize() (int, int)           { return s.w, s.h }
func (s *fakeSurface) SetSize(w, h int)                  { s.w, s.h = w, h }
func (s *fakeSurface) SetActivated(bool)                 {}
func (s *fakeSurface) SetMaximized(bool)                 {}
func (s *fakeSurface) SetFullscreen(bool, wlsink.Output) {}
func (s *fakeSurface) SetMinimized(bool)                 {}
func (s *fakeSurface) SetTiled(geom.Edges)               {}
func (s *fakeSurface) Close()                            {}
func (s *fakeSurface) SizeIncrement() (int, int)         { return 0, 0 }

type fakeOutline struct {
	shown bool
	box   geom.Box
}

func (o *fakeOutline) Show(box geom.Box) { o.shown, o.box = true, box }
func (o *fakeOutline) Hide()             { o.shown = false }

type fakeBackend struct {
	outline     fakeOutline
	resizing    bool
	resizedView *view.View
}

func (b *fakeBackend) SetResizing(v *view.View, resizing bool) {
	b.resizing, b.resizedView = resizing, v
}
func (b *fakeBackend) Outline() Outline { return &b.outline }

func newTestView(t *testing.T, mgr *view.Manager, x, y, w, h int) (view.ID, *view.View) {
	t.Helper()
	id, v := mgr.Create(&fakeSurface{w: w, h: h})
	v.X, v.Y = x, y
	return id, v
}

func TestBeginMoveCapturesRectangleAndExitsFullscreen(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)
	mgr.SetFullscreen(id, true, 0, geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080})

	g := New()
	if !g.BeginMove(mgr, id, 150, 150, 1, Config{}) {
		t.Fatal("BeginMove refused")
	}
	if v.Fullscreen {
		t.Fatal("expected fullscreen to be exited on begin_move")
	}
	if g.Mode != Move || g.ViewX != v.X || g.ViewW != 400 {
		t.Fatalf("unexpected capture: %+v", g)
	}
}

func TestBeginMoveRefusedWhenMaximizedAndDisabled(t *testing.T) {
	mgr := view.NewManager()
	id, _ := newTestView(t, mgr, 0, 0, 400, 300)
	mgr.SetMaximized(id, true, true, geom.Box{X: 0, Y: 0, Width: 1000, Height: 800}, geom.Edges{}, true)

	g := New()
	if g.BeginMove(mgr, id, 0, 0, 1, Config{MaxDisableMove: true}) {
		t.Fatal("expected BeginMove to refuse")
	}
	if g.Active() {
		t.Fatal("grab should remain passthrough")
	}
}

func TestUpdateMoveOpaqueAppliesImmediately(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	g.BeginMove(mgr, id, 0, 0, 1, Config{})
	be := &fakeBackend{}
	g.UpdateMove(mgr, be, 20, -10, geom.Box{}, false, Config{OpaqueMove: true})

	if v.X != 120 || v.Y != 90 {
		t.Fatalf("expected view moved to (120,90), got (%d,%d)", v.X, v.Y)
	}
	if be.outline.shown {
		t.Fatal("outline should not be shown in opaque mode")
	}
}

func TestUpdateMoveOutlineModeDoesNotTouchView(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	g.BeginMove(mgr, id, 0, 0, 1, Config{})
	be := &fakeBackend{}
	g.UpdateMove(mgr, be, 20, -10, geom.Box{}, false, Config{OpaqueMove: false})

	if v.X != 100 || v.Y != 100 {
		t.Fatalf("outline mode must not move the view, got (%d,%d)", v.X, v.Y)
	}
	if !be.outline.shown {
		t.Fatal("expected outline shown")
	}
}

// TestResizeCtrlStepMatchesScenarioS3 reproduces spec scenario S3: a view
// at (100,100,400,300), Alt-drag-right-to-resize in progress, Ctrl+Right
// moves grab_x by -1 and one update tick grows the width by +1.
func TestResizeCtrlStepMatchesScenarioS3(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	be := &fakeBackend{}
	if !g.BeginResize(mgr, be, id, 500, 250, 1, EdgeRight, Config{}) {
		t.Fatal("BeginResize refused")
	}
	if !be.resizing {
		t.Fatal("expected backend told resizing=true")
	}

	startGrabX := g.GrabX
	g.StepResize(mgr, 1, 0, true, false) // Ctrl, Right
	if g.GrabX != startGrabX-1 {
		t.Fatalf("expected grab_x -= 1, got %d -> %d", startGrabX, g.GrabX)
	}

	dx := 500 - g.GrabX
	g.UpdateResize(mgr, be, nil, dx, 0, geom.Box{}, false, Config{OpaqueResize: true})

	if v.Width != 401 || v.Height != 300 {
		t.Fatalf("expected new size (401,300), got (%d,%d)", v.Width, v.Height)
	}
}

func TestResizeEnforcesMinimumSize(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	be := &fakeBackend{}
	g.BeginResize(mgr, be, id, 0, 0, 1, EdgeRight, Config{})
	g.UpdateResize(mgr, be, nil, -1000, 0, geom.Box{}, false, Config{OpaqueResize: true})

	if v.Width != 1 {
		t.Fatalf("expected width clamped to 1, got %d", v.Width)
	}
}

func TestDelayedOpaqueResizeAppliesOnTimerFire(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	be := &fakeBackend{}
	g.BeginResize(mgr, be, id, 0, 0, 1, EdgeRight, Config{})

	var fire func()
	armTimer := func(delayMs int, f func()) { fire = f }
	g.UpdateResize(mgr, be, armTimer, 20, 0, geom.Box{}, false, Config{OpaqueResize: true, OpaqueResizeDelayMs: 50})

	if v.Width != 400 {
		t.Fatalf("expected geometry unchanged before timer fires, got width %d", v.Width)
	}
	if fire == nil {
		t.Fatal("expected timer armed")
	}
	fire()
	if v.Width != 420 {
		t.Fatalf("expected geometry applied after timer fire, got width %d", v.Width)
	}
}

func TestEndMidDelayAppliesPendingOnce(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	be := &fakeBackend{}
	g.BeginResize(mgr, be, id, 0, 0, 1, EdgeRight, Config{})
	g.UpdateResize(mgr, be, func(int, func()) {}, 20, 0, geom.Box{}, false, Config{OpaqueResize: true, OpaqueResizeDelayMs: 50})

	g.Commit(mgr, be)
	g.End(be)

	if v.Width != 420 {
		t.Fatalf("expected pending geometry applied on end, got width %d", v.Width)
	}
	if g.Mode != Passthrough {
		t.Fatalf("expected passthrough after commit+end, got %v", g.Mode)
	}
	if be.resizing {
		t.Fatal("expected backend resizing indicator cleared")
	}
}

func TestCancelRestoresPreGrabGeometry(t *testing.T) {
	mgr := view.NewManager()
	id, v := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	be := &fakeBackend{}
	g.BeginMove(mgr, id, 0, 0, 1, Config{})
	g.UpdateMove(mgr, be, 200, 200, geom.Box{}, false, Config{OpaqueMove: true})
	if v.X != 300 {
		t.Fatalf("expected move applied, got x=%d", v.X)
	}

	g.Cancel(mgr, be)

	if v.X != 100 || v.Y != 100 {
		t.Fatalf("expected geometry restored to (100,100), got (%d,%d)", v.X, v.Y)
	}
	if g.Mode != Passthrough {
		t.Fatalf("expected passthrough after cancel, got %v", g.Mode)
	}
}

func TestCommitThenEndObservesPassthroughInvariant(t *testing.T) {
	mgr := view.NewManager()
	id, _ := newTestView(t, mgr, 100, 100, 400, 300)

	g := New()
	be := &fakeBackend{}
	g.BeginMove(mgr, id, 0, 0, 1, Config{})
	g.UpdateMove(mgr, be, 10, 10, geom.Box{}, false, Config{OpaqueMove: true})
	g.Commit(mgr, be)
	g.End(be)

	if g.Active() {
		t.Fatal("expected grab inactive after commit+end")
	}
	if g.Has {
		t.Fatal("expected Has=false after end, matching invariant 11 (mode passthrough iff view absent)")
	}
}
