// Package wlsink declares the boundary contracts spec §1 calls "external
// collaborators": the wlroots-equivalent backend's surface/buffer/output/
// input primitives, and the XWaylandSurface abstraction. The compositor
// core (everything else in this module) only ever talks to these
// interfaces; nothing here dials a real Wayland socket or XWayland bridge —
// that wiring lives in whatever hosts this module.
//
// Modeled on the teacher's (wayland.go) typed-handler boundary: callers get
// a small struct of "OnXxx" fields instead of a generic pointer-bearing
// listener record, and cleanup is "stop subscribing", not "unregister a
// callback by identity".
package wlsink

import "github.com/fluxbox-wayland/fluxwm/internal/geom"

// SurfaceKind distinguishes the two exclusive view kinds (spec §3.1
// invariant 1).
type SurfaceKind int

const (
	KindNative SurfaceKind = iota
	KindXBridged
)

// Surface is the native (xdg_shell-backed) toplevel surface contract.
type Surface interface {
	// CurrentSize returns the surface's last-committed content size, or
	// (0,0) if nothing has been committed yet.
	CurrentSize() (w, h int)
	// SetSize requests a new content size; the backend acks asynchronously
	// via the next commit.
	SetSize(w, h int)
	SetActivated(bool)
	SetMaximized(bool)
	SetFullscreen(bool, Output)
	SetMinimized(bool)
	SetTiled(edges geom.Edges)
	Close()
	// SizeIncrement returns the xdg_toplevel size-increment hint, or (0,0)
	// if the client advertised none.
	SizeIncrement() (w, h int)
}

// XSurface is the XWaylandSurface abstraction spec §1 names explicitly:
// "title/class/instance/role/hints/parent/fullscreen/maximize set/close/
// configure/offer-focus and net_wm_window_type queries".
type XSurface interface {
	Title() string
	Class() string
	Instance() string
	Role() string
	WindowType() string
	Parent() (XSurface, bool)
	SizeHints() (minW, minH, widthInc, heightInc int, ignoreOverride bool)
	Configure(x, y, w, h int)
	SetFullscreen(bool)
	SetMaximized(horz, vert bool)
	Close()
	OfferFocus()
}

// Output is the backend output handle: mode, position and geometry only —
// damage/rendering stays with the backend per spec Non-goals.
type Output interface {
	Name() string
	// LayoutBox is the output's full box in layout coordinates.
	LayoutBox() geom.Box
	// PreferredMode returns the output's active mode dimensions.
	PreferredMode() (w, h int)
}

// ForeignToplevel is the zwlr_foreign_toplevel_management_v1 handle the
// core updates (title/app-id/state/output) but never creates policy from.
type ForeignToplevel interface {
	SetTitle(string)
	SetAppID(string)
	SetState(activated, maximized, minimized, fullscreen bool)
	SetOutput(Output, entered bool)
	Destroy()
}

// Keyboard is the seat's keyboard capability.
type Keyboard interface {
	// EnterSurface notifies the backend that surf now has keyboard focus,
	// replaying currently-held keycodes/modifiers per spec §4.2 step 5.
	EnterSurface(surf any, heldKeycodes []uint32, mods ModState)
	LeaveSurface(surf any)
	ForwardKey(keycode uint32, pressed bool)
}

// Pointer is the seat's pointer capability.
type Pointer interface {
	EnterSurface(surf any, sx, sy float64)
	LeaveSurface(surf any)
	Motion(sx, sy float64)
	MoveCursor(x, y float64)
	CursorPos() (x, y float64)
}

// ModState is a keyboard modifier bitmask (Shift/Ctrl/Alt/Logo/...).
type ModState uint32

const (
	ModShift ModState = 1 << iota
	ModCtrl
	ModAlt
	ModLogo
)

// RelativePointerEvent is emitted verbatim for every motion delta per
// spec §4.5.
type RelativePointerEvent struct {
	TimeUs               uint64
	Dx, Dy               float64
	UnaccelDx, UnaccelDy float64
}

// SceneNode is a handle into the backend's scene graph. The core positions
// and enables/disables nodes; it never draws into them (spec Non-goals:
// "does not provide rendering ... beyond positioning opaque nodes").
type SceneNode interface {
	SetPosition(x, y int)
	SetEnabled(bool)
	Raise()
	Reparent(parent SceneNode)
	Destroy()
}
