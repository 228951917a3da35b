// Package grab implements the interactive move/resize state machine spec
// §4.4 names: at most one grab per server, opaque vs. outline rendering,
// edge snapping, optional delayed opaque resize, and atomic commit/cancel.
// There is no teacher analog for a drag/resize engine; this follows the
// teacher's small-explicit-struct style, same as internal/focus.
package grab

import (
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
)

// Mode is the grab state machine's three states (spec §4.4).
type Mode int

const (
	Passthrough Mode = iota
	Move
	Resize
)

// Edges is a bitwise subset of the four resize edges.
type Edges uint8

const (
	EdgeLeft Edges = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Config carries the grab-affecting policy knobs spec §4.4/§5 name.
type Config struct {
	OpaqueMove              bool
	OpaqueResize            bool
	OpaqueResizeDelayMs     int
	EdgeSnapThresholdPx     int
	EdgeResizeSnapThresholdPx int
	MaxDisableMove          bool
	MaxDisableResize        bool
}

// Backend is the small set of backend calls a grab needs beyond what
// view.View already exposes directly.
type Backend interface {
	SetResizing(v *view.View, resizing bool)
	Outline() Outline
}

// Outline is the four-rectangle scene subtree spec §4.4 describes:
// "one scene subtree with four 1-pixel rectangles (top, bottom, left,
// right) ... reparented under the overlay layer and raised to top."
type Outline interface {
	Show(frame geom.Box)
	Hide()
}

// pending holds a not-yet-applied resize geometry while a delayed-opaque-
// resize timer is armed.
type pending struct {
	has          bool
	x, y, w, h   int
}

// Grab is the server's single interactive move/resize session.
type Grab struct {
	Mode Mode
	View view.ID
	Has  bool

	Button uint32

	// Captured at begin_*: anchor cursor position and the view's
	// pre-grab rectangle.
	GrabX, GrabY           int
	ViewX, ViewY, ViewW, ViewH int

	TabAttachEnabled bool
	Edges            Edges

	outlineActive bool
	pendingResize pending
	timerArmed    bool
}

// New returns a Grab in the passthrough state (invariant 11: mode ==
// passthrough iff view is absent).
func New() *Grab {
	return &Grab{Mode: Passthrough}
}

// BeginMove starts a move grab. Exits fullscreen first; refuses if the
// view is maximized and cfg.MaxDisableMove is set (spec §4.4 begin_move).
func (g *Grab) BeginMove(mgr *view.Manager, id view.ID, cursorX, cursorY int, button uint32, cfg Config) bool {
	v, ok := mgr.Get(id)
	if !ok {
		return false
	}
	if v.Maximized && cfg.MaxDisableMove {
		return false
	}
	if v.Fullscreen {
		mgr.SetFullscreen(id, false, v.FullscreenOutput, geom.Box{})
	}
	g.capture(Move, id, v, cursorX, cursorY, button, false, 0)
	return true
}

// BeginTabbing is BeginMove with tab-attach enabled (spec §4.4
// begin_tabbing).
func (g *Grab) BeginTabbing(mgr *view.Manager, id view.ID, cursorX, cursorY int, button uint32, cfg Config) bool {
	if !g.BeginMove(mgr, id, cursorX, cursorY, button, cfg) {
		return false
	}
	g.TabAttachEnabled = true
	return true
}

// BeginResize starts a resize grab along edges. Exits fullscreen and
// maximized first; refuses if maximized and cfg.MaxDisableResize is set.
// Tells the backend surface a resize is starting (spec §4.4 begin_resize).
func (g *Grab) BeginResize(mgr *view.Manager, be Backend, id view.ID, cursorX, cursorY int, button uint32, edges Edges, cfg Config) bool {
	v, ok := mgr.Get(id)
	if !ok {
		return false
	}
	if v.Maximized && cfg.MaxDisableResize {
		return false
	}
	if v.Fullscreen {
		mgr.SetFullscreen(id, false, v.FullscreenOutput, geom.Box{})
	}
	if v.Maximized {
		mgr.SetMaximized(id, false, false, geom.Box{}, geom.Edges{}, false)
	}
	g.capture(Resize, id, v, cursorX, cursorY, button, true, edges)
	if be != nil {
		be.SetResizing(v, true)
	}
	return true
}

func (g *Grab) capture(mode Mode, id view.ID, v *view.View, cursorX, cursorY int, button uint32, isResize bool, edges Edges) {
	g.Mode, g.View, g.Has, g.Button = mode, id, true, button
	g.GrabX, g.GrabY = cursorX, cursorY
	g.ViewX, g.ViewY, g.ViewW, g.ViewH = v.X, v.Y, v.CurrentWidth(), v.CurrentHeight()
	g.TabAttachEnabled = false
	g.Edges = edges
	g.outlineActive = false
	g.pendingResize = pending{}
	g.timerArmed = false
}

// Active reports whether a grab (move or resize) is in progress.
func (g *Grab) Active() bool {
	return g.Mode != Passthrough
}

// UpdateMove applies a pointer delta to an in-progress move grab, per spec
// §4.4: candidate (x,y) = (view_x+dx, view_y+dy), optionally edge-snapped
// to the output's usable box, applied opaquely or via outline.
func (g *Grab) UpdateMove(mgr *view.Manager, be Backend, dx, dy int, usableBox geom.Box, hasOutput bool, cfg Config) {
	if g.Mode != Move || !g.Has {
		return
	}
	v, ok := mgr.Get(g.View)
	if !ok {
		g.End(be)
		return
	}
	x, y := g.ViewX+dx, g.ViewY+dy
	if cfg.EdgeSnapThresholdPx > 0 && hasOutput {
		x, y = snapMove(v, x, y, usableBox, cfg.EdgeSnapThresholdPx)
	}
	if cfg.OpaqueMove {
		v.ApplyGeometry(x, y, v.CurrentWidth(), v.CurrentHeight())
		g.hideOutline(be)
	} else {
		g.showOutline(be, frameBoxAt(v, x, y, v.CurrentWidth(), v.CurrentHeight()))
	}
}

// snapMove snaps the frame rectangle's edges to usableBox's edges within
// threshold pixels, returning the adjusted content-area top-left.
func snapMove(v *view.View, x, y int, usableBox geom.Box, threshold int) (int, int) {
	e := v.Decor.Extents()
	frameX, frameY := x-e.Left, y-e.Top
	frameW := v.CurrentWidth() + e.Horizontal()
	frameH := v.CurrentHeight() + e.Vertical()

	if d := abs(frameX - usableBox.X); d <= threshold {
		frameX = usableBox.X
	} else if d := abs((frameX + frameW) - (usableBox.X + usableBox.Width)); d <= threshold {
		frameX = usableBox.X + usableBox.Width - frameW
	}
	if d := abs(frameY - usableBox.Y); d <= threshold {
		frameY = usableBox.Y
	} else if d := abs((frameY + frameH) - (usableBox.Y + usableBox.Height)); d <= threshold {
		frameY = usableBox.Y + usableBox.Height - frameH
	}
	return frameX + e.Left, frameY + e.Top
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func frameBoxAt(v *view.View, x, y, w, h int) geom.Box {
	e := v.Decor.Extents()
	return geom.Box{X: x - e.Left, Y: y - e.Top, Width: w + e.Horizontal(), Height: h + e.Vertical()}
}

// UpdateResize derives a candidate rectangle from the original rectangle
// and the active edges, enforcing w>=1, h>=1 (spec §4.4 Resize). Applies
// edge-resize snapping to the frame rectangle. Honors opaque-resize with
// optional delayed-apply timer, else draws the outline.
func (g *Grab) UpdateResize(mgr *view.Manager, be Backend, armTimer func(delayMs int, fire func()), dx, dy int, usableBox geom.Box, hasOutput bool, cfg Config) {
	if g.Mode != Resize || !g.Has {
		return
	}
	v, ok := mgr.Get(g.View)
	if !ok {
		g.End(be)
		return
	}
	x, y, w, h := g.candidateResize(dx, dy)
	if cfg.EdgeResizeSnapThresholdPx > 0 && hasOutput {
		x, y, w, h = snapResize(v, x, y, w, h, g.Edges, usableBox, cfg.EdgeResizeSnapThresholdPx)
	}

	if cfg.OpaqueResize {
		if cfg.OpaqueResizeDelayMs > 0 {
			g.pendingResize = pending{true, x, y, w, h}
			if !g.timerArmed && armTimer != nil {
				g.timerArmed = true
				armTimer(cfg.OpaqueResizeDelayMs, func() { g.FireResizeTimer(mgr, be) })
			}
		} else {
			v.ApplyGeometry(x, y, w, h)
		}
		g.hideOutline(be)
	} else {
		g.showOutline(be, frameBoxAt(v, x, y, w, h))
	}
}

func (g *Grab) candidateResize(dx, dy int) (x, y, w, h int) {
	x, y, w, h = g.ViewX, g.ViewY, g.ViewW, g.ViewH
	if g.Edges&EdgeLeft != 0 {
		x += dx
		w -= dx
	}
	if g.Edges&EdgeRight != 0 {
		w += dx
	}
	if g.Edges&EdgeTop != 0 {
		y += dy
		h -= dy
	}
	if g.Edges&EdgeBottom != 0 {
		h += dy
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return
}

func snapResize(v *view.View, x, y, w, h int, edges Edges, usableBox geom.Box, threshold int) (int, int, int, int) {
	fb := frameBoxAt(v, x, y, w, h)

	if edges&EdgeLeft != 0 {
		if d := abs(fb.X - usableBox.X); d <= threshold {
			delta := fb.X - usableBox.X
			x -= delta
			w += delta
		}
	}
	if edges&EdgeRight != 0 {
		right := fb.X + fb.Width
		target := usableBox.X + usableBox.Width
		if d := abs(right - target); d <= threshold {
			w += target - right
		}
	}
	if edges&EdgeTop != 0 {
		if d := abs(fb.Y - usableBox.Y); d <= threshold {
			delta := fb.Y - usableBox.Y
			y -= delta
			h += delta
		}
	}
	if edges&EdgeBottom != 0 {
		bottom := fb.Y + fb.Height
		target := usableBox.Y + usableBox.Height
		if d := abs(bottom - target); d <= threshold {
			h += target - bottom
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return x, y, w, h
}

// FireResizeTimer applies the pending delayed-opaque-resize geometry, per
// spec §4.4's one-shot timer semantics.
func (g *Grab) FireResizeTimer(mgr *view.Manager, be Backend) {
	g.timerArmed = false
	if !g.pendingResize.has {
		return
	}
	p := g.pendingResize
	g.pendingResize = pending{}
	if v, ok := mgr.Get(g.View); ok {
		v.ApplyGeometry(p.x, p.y, p.w, p.h)
	}
}

// StepResize applies one keyboard-driven resize step (spec §4.4 key
// pipeline: arrow keys during a keyboard grab, step = 1px Ctrl / 50px
// Shift / 10px default, validated against scenario S3). dirX/dirY are
// -1/0/1 for the arrow key pressed.
func (g *Grab) StepResize(mgr *view.Manager, dirX, dirY int, ctrl, shift bool) {
	step := 10
	switch {
	case ctrl:
		step = 1
	case shift:
		step = 50
	}
	if g.Mode == Resize {
		g.GrabX -= dirX * step
		g.GrabY -= dirY * step
	} else if g.Mode == Move {
		g.GrabX += dirX * step
		g.GrabY += dirY * step
	}
}

// Commit applies pending geometry, destroys the outline, and cancels any
// resize timer, per spec §4.4 commit(reason) and the commit-atomicity
// invariant (commit writes geometry, then End clears state).
func (g *Grab) Commit(mgr *view.Manager, be Backend) {
	if !g.Has {
		return
	}
	if g.pendingResize.has {
		if v, ok := mgr.Get(g.View); ok {
			p := g.pendingResize
			v.ApplyGeometry(p.x, p.y, p.w, p.h)
		}
	}
	g.pendingResize = pending{}
	g.timerArmed = false
	g.hideOutline(be)
}

// End resets the grab to passthrough and turns off the backend resize
// indicator (spec §4.4 end()). Callers observing Mode after Commit();
// End() see Passthrough, satisfying the commit-atomicity invariant.
func (g *Grab) End(be Backend) {
	wasResize := g.Mode == Resize
	g.hideOutline(be)
	*g = Grab{Mode: Passthrough}
	if wasResize && be != nil {
		be.SetResizing(nil, false)
	}
}

// Cancel restores the pre-grab geometry (Escape during a grab, spec §4.4/
// invariant: "Escape during a grab cancels and restores pre-grab
// geometry") then ends the grab.
func (g *Grab) Cancel(mgr *view.Manager, be Backend) {
	if !g.Has {
		return
	}
	if v, ok := mgr.Get(g.View); ok {
		v.ApplyGeometry(g.ViewX, g.ViewY, g.ViewW, g.ViewH)
	}
	g.End(be)
}

func (g *Grab) showOutline(be Backend, frame geom.Box) {
	if be == nil {
		return
	}
	g.outlineActive = true
	be.Outline().Show(frame)
}

func (g *Grab) hideOutline(be Backend) {
	if be == nil || !g.outlineActive {
		return
	}
	g.outlineActive = false
	be.Outline().Hide()
}

// outlineColor is the fixed white-ish translucent color spec §4.4 gives
// the four outline rectangles.
var outlineColor = [4]float64{1, 1, 1, 0.85}

// OutlineColor exposes the spec-mandated outline color to backend
// implementations of Outline.
func OutlineColor() (r, g, b, a float64) {
	return outlineColor[0], outlineColor[1], outlineColor[2], outlineColor[3]
}
