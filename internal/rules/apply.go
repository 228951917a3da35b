package rules

import (
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/output"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
)

// ResolveOutput overrides the caller's default output choice with the
// matched rule's Head attribute, if set and the head index resolves (spec
// §4.6 pre-map step 1). defaultID/hasDefault is whatever place_initial
// would otherwise have picked (cursor output, falling back to layout
// center).
func ResolveOutput(reg *output.Registry, r *Rule, matched bool, defaultID output.ID, hasDefault bool) (output.ID, bool) {
	if matched && r.SetHead {
		if id, _, ok := reg.ByHeadIndex(r.Head); ok {
			return id, true
		}
	}
	return defaultID, hasDefault
}

// PreMapResult carries the bits of pre-map application that a workspace
// manager (outside this package's view) needs to act on.
type PreMapResult struct {
	Jump      bool
	Workspace int
}

// ApplyPreMap runs spec §4.6's pre-map application against v, given the
// output's usable box (fullBox as fallback when usable is empty) and v's
// decoration extents. It mutates v directly and returns the
// workspace/jump decision for the caller to apply.
func ApplyPreMap(v *view.View, r *Rule, matched bool, usableBox, fullBox geom.Box) PreMapResult {
	var result PreMapResult
	if !matched {
		return result
	}

	box := usableBox
	if box.Empty() {
		box = fullBox
	}

	if r.SetWorkspace {
		v.Workspace = r.Workspace
		result.Workspace = r.Workspace
	}
	if r.SetJump {
		result.Jump = r.Jump
	}
	if r.SetSticky {
		v.Sticky = r.Sticky
	}
	if r.SetIgnoreSizeHints {
		v.IgnoreSizeHints = r.IgnoreSizeHints
	}
	if r.SetTab {
		v.Tab = r.Tab
	}
	if r.SetAlpha {
		v.SetAlpha(r.AlphaFocused, r.AlphaUnfocused, "apps-rule")
	}
	if r.SetFocusProtection {
		v.FocusProtection = r.FocusProtection
	}
	if r.SetDecor {
		v.Decor.Mask = r.Decor
	}
	if r.SetLayer {
		v.Layer = r.Layer
	}
	if r.SetSaveOnClose {
		v.SaveOnClose = r.SaveOnClose
	}
	if r.SetFocusHidden {
		v.FocusHidden = r.FocusHidden
	}
	if r.SetIconHidden {
		v.IconHidden = r.IconHidden
	}
	if r.SetShaded {
		v.Shaded = r.Shaded
	}

	if r.SetDimensions {
		w := r.DimWidth.Resolve(box.Width)
		h := r.DimHeight.Resolve(box.Height)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		v.SetContentSize(w, h)
	}

	extents := v.Decor.Extents()

	if r.SetPosition {
		frameBox := geom.Box{Width: v.CurrentWidth() + extents.Horizontal(), Height: v.CurrentHeight() + extents.Vertical()}
		windowRef := r.PosAnchor.RefPoint(frameBox)
		screenRef := r.PosAnchor.RefPoint(box)
		offX := r.PosX.Resolve(box.Width)
		offY := r.PosY.Resolve(box.Height)
		if r.PosAnchor.NegateX() {
			offX = -offX
		}
		if r.PosAnchor.NegateY() {
			offY = -offY
		}
		frameX := screenRef.X + offX - windowRef.X
		frameY := screenRef.Y + offY - windowRef.Y
		v.X = frameX + extents.Left
		v.Y = frameY + extents.Top
		v.Placed = true
	} else if r.SetHead && !v.Placed {
		w, h := v.CurrentWidth(), v.CurrentHeight()
		v.X = box.X + (box.Width-w)/2
		v.Y = box.Y + (box.Height-h)/2
		v.Placed = true
	}

	return result
}

// ApplyPostMap runs spec §4.6's post-map application order: maximize,
// fullscreen, minimize.
func ApplyPostMap(mgr *view.Manager, id view.ID, r *Rule, matched bool, box geom.Box, tabStrut geom.Edges, outID output.ID) {
	if !matched {
		return
	}
	if r.SetMaximized {
		mgr.SetMaximized(id, r.MaximizedH, r.MaximizedV, box, tabStrut, false)
	}
	if r.SetFullscreen && r.Fullscreen {
		mgr.SetFullscreen(id, true, outID, box)
	}
	if r.SetMinimized {
		mgr.SetMinimized(id, r.Minimized)
	}
}
