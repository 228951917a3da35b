package ui

import (
	"strconv"
	"time"
)

// DefaultAutoHideMS is the OSD's default display duration when a caller
// does not override it (spec §4.8: the OSD shows "N: <name>" for
// auto_hide_ms, then hides itself).
const DefaultAutoHideMS = 1200

// OSD is the transient on-screen workspace indicator shown after a
// workspace switch (spec §4.8).
type OSD struct {
	Visible     bool
	Workspace   int
	Name        string
	AutoHideMS  int
	deadline    time.Time
	now         func() time.Time
}

// NewOSD returns an OSD using the given auto-hide duration, or
// DefaultAutoHideMS if ms <= 0.
func NewOSD(ms int) *OSD {
	if ms <= 0 {
		ms = DefaultAutoHideMS
	}
	return &OSD{AutoHideMS: ms, now: time.Now}
}

// Show displays "N: name" and arms the auto-hide deadline.
func (o *OSD) Show(workspace int, name string) {
	o.Visible = true
	o.Workspace = workspace
	o.Name = name
	o.deadline = o.now().Add(time.Duration(o.AutoHideMS) * time.Millisecond)
}

// Text renders the OSD's "N: <name>" display string (spec §4.8).
func (o *OSD) Text() string {
	return strconv.Itoa(o.Workspace) + ": " + o.Name
}

// Tick hides the OSD once its auto-hide deadline has passed. Callers
// drive this from the same poll loop that feeds the rest of the
// single-threaded cooperative event model (spec §5); there is no
// internal timer goroutine.
func (o *OSD) Tick() {
	if o.Visible && !o.deadline.IsZero() && !o.now().Before(o.deadline) {
		o.Visible = false
	}
}
