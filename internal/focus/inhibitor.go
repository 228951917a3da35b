package focus

import "github.com/fluxbox-wayland/fluxwm/internal/view"

// Inhibitor tracks the keyboard-shortcuts inhibitor active for the
// focused surface (spec §4.12). Key pipeline step 5 consults Active to
// decide whether to skip the key-binding engine.
type Inhibitor struct {
	// registered maps a view to whether it currently holds a live
	// inhibitor object (destroyed != registered).
	registered map[view.ID]bool

	activeFor view.ID
	active    bool
}

// Register records that v now has a live inhibitor object, per the seat.
func (inh *Inhibitor) Register(v view.ID) {
	if inh.registered == nil {
		inh.registered = make(map[view.ID]bool)
	}
	inh.registered[v] = true
}

// Destroy drops v's inhibitor object. If it was the active one, it is
// deactivated (spec §4.12: "a destroyed inhibitor that was active clears
// the pointer").
func (inh *Inhibitor) Destroy(v view.ID) {
	delete(inh.registered, v)
	if inh.active && inh.activeFor == v {
		inh.active = false
	}
}

// OnFocusChange activates the inhibitor registered for the newly focused
// view (if any) and deactivates the previous one (spec §4.12). Idempotent
// if the same view refocuses itself.
func (inh *Inhibitor) OnFocusChange(newFocus view.ID) {
	if inh.active && inh.activeFor == newFocus {
		return
	}
	inh.active = false
	if inh.registered[newFocus] {
		inh.activeFor, inh.active = newFocus, true
	}
}

// Active reports whether the shortcut inhibitor currently applies to the
// focused surface (spec §4.2 key pipeline step 5).
func (inh *Inhibitor) Active() bool {
	return inh.active
}
