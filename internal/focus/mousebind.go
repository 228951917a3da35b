package focus

import "github.com/fluxbox-wayland/fluxwm/internal/wlsink"

// Context is one of the mouse-binding contexts spec §4.9 lists.
type Context int

const (
	CtxDesktop Context = iota
	CtxWindow
	CtxWindowBorder
	CtxTitlebar
	CtxLeftGrip
	CtxRightGrip
	CtxTab
	CtxToolbar
	CtxSlit
	CtxAny
)

// EventKind is one of the three mouse-binding event kinds.
type EventKind int

const (
	EventClick EventKind = iota
	EventMove
	EventPress
)

// Key identifies a mouse binding by (context, button, modifiers).
type Key struct {
	Context Context
	Button  uint32
	Mods    wlsink.ModState
}

// Binding maps a (context, button, modifiers, event) tuple to an action
// token; the action's concrete meaning (raise, start move, run a menu,
// ...) is resolved by internal/server, kept opaque here so this package
// doesn't need to depend on every subsystem a binding can trigger.
type Binding struct {
	Key    Key
	Event  EventKind
	Action string
}

// Table is a mouse-binding table, looked up by (key, event).
type Table map[Key]map[EventKind]string

// NewTable returns an empty Table.
func NewTable() Table {
	return make(Table)
}

// Set installs bindings into the table.
func (t Table) Set(b Binding) {
	m, ok := t[b.Key]
	if !ok {
		m = make(map[EventKind]string)
		t[b.Key] = m
	}
	m[b.Event] = b.Action
}

// Lookup returns the action bound to (key, event), if any.
func (t Table) Lookup(key Key, event EventKind) (string, bool) {
	m, ok := t[key]
	if !ok {
		return "", false
	}
	a, ok := m[event]
	return a, ok
}

// dragThreshold is the Manhattan distance (in pixels) a press must travel
// before it is considered a drag rather than a click (spec §4.9).
const dragThreshold = 4

// Capture tracks an in-progress press for click/move/drag disambiguation
// (spec §4.9's capture semantics).
type Capture struct {
	Active      bool
	Key         Key
	PressX      float64
	PressY      float64
	MoveFired   bool
	LastClickMs int64
}

// Press begins a capture for key at (x, y), running any bound "press"
// action immediately (spec §4.9: "run any press binding").
func (c *Capture) Press(t Table, key Key, x, y float64, run func(action string)) {
	c.Active, c.Key, c.PressX, c.PressY, c.MoveFired = true, key, x, y, false
	if action, ok := t.Lookup(key, EventPress); ok {
		run(action)
	}
}

// Motion fires the bound "move" action once, the first time the press
// travels past dragThreshold (Manhattan distance), per spec §4.9.
func (c *Capture) Motion(t Table, x, y float64, run func(action string)) {
	if !c.Active || c.MoveFired {
		return
	}
	dx, dy := x-c.PressX, y-c.PressY
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx+dy < dragThreshold {
		return
	}
	c.MoveFired = true
	if action, ok := t.Lookup(c.Key, EventMove); ok {
		run(action)
	}
}

// Release finalizes the capture: if no drag occurred, fires the bound
// "click" action (spec §4.9). Clears the capture either way.
func (c *Capture) Release(t Table, run func(action string)) {
	if !c.Active {
		return
	}
	if !c.MoveFired {
		if action, ok := t.Lookup(c.Key, EventClick); ok {
			run(action)
		}
	}
	c.Active = false
}

// Cancel clears the capture without firing anything (spec §4.9: "the
// capture is cleared on grab start").
func (c *Capture) Cancel() {
	c.Active = false
}

// IsDoubleClick reports whether nowMs is within intervalMs of the last
// recorded click, per spec §4.9's double_click_interval_ms, and records
// nowMs as the new last-click time.
func (c *Capture) IsDoubleClick(nowMs int64, intervalMs int64) bool {
	wasDouble := c.LastClickMs != 0 && nowMs-c.LastClickMs <= intervalMs
	c.LastClickMs = nowMs
	return wasDouble
}
