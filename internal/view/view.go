// Package view implements the View entity and tab-group policy (spec §3,
// §4.1, §4.1 "Tab group", §4.1 "Maximize algorithm"): per-window state
// machine, decoration ownership, geometry contract and the 0↔1 maximize/
// fullscreen transitions. It depends only on internal/decor, internal/geom,
// internal/output and internal/wlsink — never on rules/placement/focus —
// so the higher-level map()/unmap() pipeline (which does need those) is
// expressed through the small MapPipeline/FocusReason interfaces below and
// wired concretely by internal/server.
package view

import (
	"fmt"

	"github.com/fluxbox-wayland/fluxwm/internal/arena"
	"github.com/fluxbox-wayland/fluxwm/internal/decor"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/output"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

// ID identifies a View within a Manager's arena.
type ID = arena.ID

// TabGroupID identifies a TabGroup within a Manager's arena.
type TabGroupID = arena.ID

// FocusReason is one of the reasons a focus transition can have (spec
// §4.2).
type FocusReason int

const (
	ReasonNone FocusReason = iota
	ReasonPointerClick
	ReasonPointerMotion
	ReasonKeybind
	ReasonMap
	ReasonActivate
)

// FocusProtection is the gain/refuse/lock/deny policy §E.2 of SPEC_FULL.md
// adds from original_source, consumed by SetActivated and by the rules
// engine's focus_protection attribute (spec §4.6).
type FocusProtection int

const (
	ProtectionNone FocusProtection = iota
	ProtectionGain
	ProtectionRefuse
	ProtectionLock
	ProtectionDeny
)

// View is the compositor-side record for a single toplevel window (spec
// §3.1).
type View struct {
	CreateSeq uint64
	Kind      wlsink.SurfaceKind

	Surface  wlsink.Surface  // set iff Kind == KindNative
	XSurface wlsink.XSurface // set iff Kind == KindXBridged

	Mapped    bool
	Destroyed bool

	Decor     decor.Layout
	SceneRoot wlsink.SceneNode
	DecorNode wlsink.SceneNode
	PseudoBG  wlsink.SceneNode // nil unless real alpha is unavailable

	Foreign wlsink.ForeignToplevel

	OutputID  output.ID
	HasOutput bool

	TabGroup    TabGroupID
	HasTabGroup bool

	// Geometry: top-left + size of the content area in layout coordinates.
	X, Y, Width, Height int

	HasSavedGeometry                  bool
	SavedX, SavedY, SavedW, SavedH int

	Maximized, MaximizedH, MaximizedV bool
	Fullscreen                        bool
	FullscreenOutput                  output.ID
	HasFullscreenOutput               bool

	Minimized bool
	Shaded    bool
	Sticky    bool
	Workspace int
	Layer     int

	IgnoreSizeHints bool
	SaveOnClose     bool
	FocusHidden     bool
	IconHidden      bool

	// Tab requests that placement join this view into an existing tab
	// group as a member rather than placing it standalone (apps-rule
	// [Tab] attribute, spec §4.6; consulted by the auto_tab placement
	// strategy, spec §4.3).
	Tab bool

	Activated        bool
	FocusProtection   FocusProtection
	AlphaFocused      uint8
	AlphaUnfocused    uint8

	Placed bool // set once a placement (rule- or policy-driven) has positioned the view

	AppID, Title, Instance, Role string
}

// CurrentWidth returns, per spec §4.1's geometry contract, the stored
// width if non-zero, else the backend surface's current width, else 0.
func (v *View) CurrentWidth() int {
	if v.Width != 0 {
		return v.Width
	}
	if v.Kind == wlsink.KindNative && v.Surface != nil {
		w, _ := v.Surface.CurrentSize()
		if w != 0 {
			return w
		}
	}
	if v.Kind == wlsink.KindXBridged {
		return 0
	}
	return 0
}

// CurrentHeight mirrors CurrentWidth for the vertical axis.
func (v *View) CurrentHeight() int {
	if v.Height != 0 {
		return v.Height
	}
	if v.Kind == wlsink.KindNative && v.Surface != nil {
		_, h := v.Surface.CurrentSize()
		if h != 0 {
			return h
		}
	}
	return 0
}

// FrameWidth/FrameHeight add the decoration's frame extents to the content
// size, the "frame width" place_initial needs (spec §4.1).
func (v *View) FrameWidth() int {
	return v.CurrentWidth() + v.Decor.Extents().Horizontal()
}

func (v *View) FrameHeight() int {
	return v.CurrentHeight() + v.Decor.Extents().Vertical()
}

// FrameBox returns the view's current frame box (content + decoration) in
// layout coordinates.
func (v *View) FrameBox() geom.Box {
	e := v.Decor.Extents()
	return geom.Box{
		X:      v.X - e.Left,
		Y:      v.Y - e.Top,
		Width:  v.CurrentWidth() + e.Horizontal(),
		Height: v.CurrentHeight() + e.Vertical(),
	}
}

// SaveGeometry stores (x,y,w,h) for later restore. Per spec §4.1 it is
// called on every 0→1 transition of maximize or fullscreen, and is a no-op
// if a save already exists (so interleaving maximize/fullscreen transitions
// never clobbers the pre-transition geometry with an already-adjusted one).
func (v *View) SaveGeometry() {
	if v.HasSavedGeometry {
		return
	}
	v.SavedX, v.SavedY = v.X, v.Y
	v.SavedW, v.SavedH = v.CurrentWidth(), v.CurrentHeight()
	v.HasSavedGeometry = true
}

// RestoreGeometry applies the saved geometry back and clears the saved
// flag, so a subsequent SaveGeometry call takes effect again.
func (v *View) RestoreGeometry() (x, y, w, h int) {
	x, y, w, h = v.SavedX, v.SavedY, v.SavedW, v.SavedH
	v.X, v.Y, v.Width, v.Height = x, y, w, h
	v.HasSavedGeometry = false
	return
}

// SetContentSize stores a new content size and pushes it to the backend
// surface, without touching position. Used by the apps-rules engine's
// pre-map Dimensions application (spec §4.6 step 3), which sets size
// before the view has been positioned.
func (v *View) SetContentSize(w, h int) {
	v.Width, v.Height = w, h
	switch v.Kind {
	case wlsink.KindNative:
		if v.Surface != nil {
			v.Surface.SetSize(w, h)
		}
	case wlsink.KindXBridged:
		// x-bridged surfaces are configured with position once placement
		// has run; the size is simply recorded here.
	}
}

// ApplyGeometry pushes (x,y,w,h) to the view and its backend surface. It is
// the exported form applyGeometry's callers outside this package use
// directly — notably internal/grab's move/resize updates, which compute
// full candidate rectangles themselves rather than going through
// Maximize/Fullscreen.
func (v *View) ApplyGeometry(x, y, w, h int) {
	v.applyGeometry(x, y, w, h)
}

// applyGeometry pushes (x,y,w,h) to the view and its backend surface.
func (v *View) applyGeometry(x, y, w, h int) {
	v.X, v.Y, v.Width, v.Height = x, y, w, h
	switch v.Kind {
	case wlsink.KindNative:
		if v.Surface != nil {
			v.Surface.SetSize(w, h)
		}
	case wlsink.KindXBridged:
		if v.XSurface != nil {
			v.XSurface.Configure(x, y, w, h)
		}
	}
	if v.SceneRoot != nil {
		v.SceneRoot.SetPosition(x, y)
	}
}

// roundToIncrement rounds (w,h) to the nearest size increment from hints
// without exceeding (maxW,maxH), per spec §4.1 maximize-algorithm step 2:
// "round width/height to the nearest size increment from hints, 'make fit'".
func roundToIncrement(w, h, incW, incH, maxW, maxH int) (int, int) {
	if incW > 1 {
		n := w / incW
		if n*incW > maxW {
			n--
		}
		w = n * incW
	}
	if incH > 1 {
		n := h / incH
		if n*incH > maxH {
			n--
		}
		h = n * incH
	}
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}
	return w, h
}

// MaximizeTarget computes the frame geometry maximize(true) should apply,
// per spec §4.1's Maximize algorithm step 2. box is either the output's
// full box or usable-area box depending on the full_maximization screen
// flag; tabStrut is subtracted unless the tab bar is "max over".
func (v *View) MaximizeTarget(box geom.Box, tabStrut geom.Edges, ignoreIncrement bool) (x, y, w, h int) {
	avail := box.Shrink(tabStrut)
	e := v.Decor.Extents()
	w = avail.Width - e.Horizontal()
	h = avail.Height - e.Vertical()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if v.Kind == wlsink.KindXBridged && !ignoreIncrement && v.XSurface != nil {
		_, _, incW, incH, _ := v.XSurface.SizeHints()
		w, h = roundToIncrement(w, h, incW, incH, w, h)
	}
	x = avail.X + e.Left
	y = avail.Y + e.Top
	return
}

// SetActivated notifies the backend and foreign-toplevel handle of an
// activation-state change (spec §4.1's set_activated).
func (v *View) SetActivated(active bool) {
	v.Activated = active
	switch v.Kind {
	case wlsink.KindNative:
		if v.Surface != nil {
			v.Surface.SetActivated(active)
		}
	case wlsink.KindXBridged:
		if active && v.XSurface != nil {
			v.XSurface.OfferFocus()
		}
	}
	if v.Foreign != nil {
		v.Foreign.SetState(active, v.Maximized, v.Minimized, v.Fullscreen)
	}
}

// SetAlpha applies opacity to the view's scene buffers (excluding
// pseudo-bg) and updates the pseudo-bg node per policy (spec §4.1's
// set_alpha). The actual buffer-opacity application is a backend concern;
// here we only record the values and toggle the pseudo-bg node, since that
// node's presence/absence is exactly the policy decision this component
// owns (GLOSSARY "Pseudo-bg").
func (v *View) SetAlpha(focused, unfocused uint8, why string) {
	v.AlphaFocused, v.AlphaUnfocused = focused, unfocused
	needsPseudoBG := focused < 0xff || unfocused < 0xff
	if v.PseudoBG != nil {
		v.PseudoBG.SetEnabled(needsPseudoBG)
	}
}

// EffectiveAlpha returns the alpha that currently applies given the view's
// activation state.
func (v *View) EffectiveAlpha() uint8 {
	if v.Activated {
		return v.AlphaFocused
	}
	return v.AlphaUnfocused
}

// String renders a short debug identity, used in log lines.
func (v *View) String() string {
	return fmt.Sprintf("view#%d(%s)", v.CreateSeq, v.AppID)
}
