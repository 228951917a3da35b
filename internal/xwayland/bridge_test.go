package xwayland

import (
	"testing"

	"github.com/fluxbox-wayland/fluxwm/internal/view"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

type fakeXSurface struct {
	title, class, instance, role, windowType string
	offered                                  bool
}

func (f *fakeXSurface) Title() string      { return f.title }
func (f *fakeXSurface) Class() string      { return f.class }
func (f *fakeXSurface) Instance() string   { return f.instance }
func (f *fakeXSurface) Role() string       { return f.role }
func (f *fakeXSurface) WindowType() string { return f.windowType }
func (f *fakeXSurface) Parent() (wlsink.XSurface, bool) {
	return nil, false
}
func (f *fakeXSurface) SizeHints() (minW, minH, widthInc, heightInc int, ignoreOverride bool) {
	return 0, 0, 0, 0, false
}
func (f *fakeXSurface) Configure(x, y, w, h int)     {}
func (f *fakeXSurface) SetFullscreen(bool)           {}
func (f *fakeXSurface) SetMaximized(horz, vert bool) {}
func (f *fakeXSurface) Close()                       {}
func (f *fakeXSurface) OfferFocus()                  { f.offered = true }

func TestBridgeAttachCreatesXBridgedView(t *testing.T) {
	views := view.NewManager()
	b := New(views)
	if b.Token == "" {
		t.Fatalf("New did not mint a correlation token")
	}

	x := &fakeXSurface{class: "xterm", windowType: WindowTypeNormal}
	id, v := b.Attach(x)
	if got, ok := views.Get(id); !ok || got != v {
		t.Fatalf("Attach did not register the view in the manager")
	}
	if lookedUp, ok := b.Lookup(x); !ok || lookedUp != id {
		t.Fatalf("Lookup(x) = (%v, %v), want (%v, true)", lookedUp, ok, id)
	}

	b.Detach(x)
	if _, ok := b.Lookup(x); ok {
		t.Fatalf("Lookup succeeded after Detach")
	}
}

func TestWindowTypeDefaultsToNormal(t *testing.T) {
	x := &fakeXSurface{windowType: "_NET_WM_WINDOW_TYPE_SOMETHING_UNKNOWN"}
	if got := WindowType(x); got != WindowTypeNormal {
		t.Fatalf("WindowType = %q, want %q", got, WindowTypeNormal)
	}
	x.windowType = WindowTypeDock
	if got := WindowType(x); got != WindowTypeDock {
		t.Fatalf("WindowType = %q, want %q", got, WindowTypeDock)
	}
}

func TestSkipsPlacementAndFocusForDockAndDesktop(t *testing.T) {
	for _, wt := range []string{WindowTypeDock, WindowTypeDesktop} {
		if !SkipsPlacement(wt) {
			t.Errorf("SkipsPlacement(%q) = false, want true", wt)
		}
		if !SkipsFocusOnMap(wt) {
			t.Errorf("SkipsFocusOnMap(%q) = false, want true", wt)
		}
	}
	if SkipsPlacement(WindowTypeNormal) || SkipsFocusOnMap(WindowTypeNormal) {
		t.Errorf("normal window type unexpectedly skips placement/focus")
	}
}

func TestRequestFocusCallsOfferFocus(t *testing.T) {
	views := view.NewManager()
	b := New(views)
	x := &fakeXSurface{}
	b.RequestFocus(x)
	if !x.offered {
		t.Fatalf("RequestFocus did not call OfferFocus")
	}
}
