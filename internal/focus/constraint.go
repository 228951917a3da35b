package focus

import (
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

// ConstraintKind is one of the two pointer-constraint types spec §4.5
// names; exactly one constraint is active at a time.
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintLocked
	ConstraintConfined
)

// Constraint tracks the pointer-focused surface it applies to (activation
// is edge-triggered by focus change, spec §4.5).
type Constraint struct {
	Kind    ConstraintKind
	View    view.ID
	HasView bool
	Region  geom.Box
}

// Activate installs a constraint for v, replacing any prior one.
func (c *Constraint) Activate(kind ConstraintKind, v view.ID, region geom.Box) {
	c.Kind, c.View, c.HasView, c.Region = kind, v, true, region
}

// Deactivate clears the constraint (focus moved off the owning surface).
func (c *Constraint) Deactivate() {
	*c = Constraint{}
}

// OnFocusChange deactivates the constraint if it no longer applies to the
// pointer-focused surface.
func (c *Constraint) OnFocusChange(pointerFocus view.ID, hasPointerFocus bool) {
	if c.Kind == ConstraintNone {
		return
	}
	if !hasPointerFocus || c.View != pointerFocus {
		c.Deactivate()
	}
}

// SetRegion updates the active constraint's region, re-clamping the
// cursor into it if confined (spec §4.5: "on region changes while active
// and confined, clamp the cursor into the new region").
func (c *Constraint) SetRegion(region geom.Box, cursorX, cursorY float64, move func(x, y float64)) {
	if c.Kind != ConstraintConfined {
		c.Region = region
		return
	}
	c.Region = region
	cx, cy := clampToBox(cursorX, cursorY, region)
	if cx != cursorX || cy != cursorY {
		move(cx, cy)
	}
}

// ApplyMotion applies the active constraint to a pointer motion of
// (dx, dy) starting at (cursorX, cursorY), returning the resulting
// position the caller should move the cursor to (unchanged if locked).
func (c *Constraint) ApplyMotion(cursorX, cursorY, dx, dy float64) (float64, float64) {
	switch c.Kind {
	case ConstraintLocked:
		return cursorX, cursorY
	case ConstraintConfined:
		return clampToBox(cursorX+dx, cursorY+dy, c.Region)
	default:
		return cursorX + dx, cursorY + dy
	}
}

func clampToBox(x, y float64, box geom.Box) (float64, float64) {
	if box.Empty() {
		return x, y
	}
	if x < float64(box.X) {
		x = float64(box.X)
	}
	if y < float64(box.Y) {
		y = float64(box.Y)
	}
	if x > float64(box.X+box.Width) {
		x = float64(box.X + box.Width)
	}
	if y > float64(box.Y+box.Height) {
		y = float64(box.Y + box.Height)
	}
	return x, y
}

// EmitRelativePointer builds the relative-pointer event spec §4.5 says is
// emitted for every motion delta regardless of constraint state.
func EmitRelativePointer(timeUs uint64, dx, dy, unaccelDx, unaccelDy float64) wlsink.RelativePointerEvent {
	return wlsink.RelativePointerEvent{
		TimeUs:    timeUs,
		Dx:        dx,
		Dy:        dy,
		UnaccelDx: unaccelDx,
		UnaccelDy: unaccelDy,
	}
}
