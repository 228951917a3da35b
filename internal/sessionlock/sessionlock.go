// Package sessionlock implements the session-lock state machine spec
// §4.10 describes: at most one lock active, expected-surface bookkeeping
// with an edge-triggered "locked" signal, and output-destroy-while-locked
// decrement logic (validated against scenario S4). No teacher or pack
// analog exists for this; the shape (small struct, explicit bool/int
// fields, no hidden timers) follows internal/focus and internal/grab.
package sessionlock

import "github.com/fluxbox-wayland/fluxwm/internal/output"

// Effects is the set of side effects spec §4.10 requires on new_lock,
// kept as a small capability interface so this package doesn't need to
// import focus/textinput to clear their state.
type Effects interface {
	ClearKeyboardFocus()
	ClearPointerFocus()
	ClearTextInputFocus()
	UpdateShortcutInhibitor()
}

// Manager holds the session-lock state.
type Manager struct {
	Locked           bool
	SentLocked       bool
	ExpectedSurfaces int

	committed map[output.ID]bool
}

// NewManager returns an unlocked Manager.
func NewManager() *Manager {
	return &Manager{}
}

// NewLock starts a new session lock across outputCount outputs. Rejects
// (returns false) if a lock is already active (spec §4.10: "if one is
// already active, reject"); otherwise runs the focus/inhibitor side
// effects, and sets expected_surfaces = max(outputCount, 1),
// sent_locked = false.
func (m *Manager) NewLock(eff Effects, outputCount int) bool {
	if m.Locked {
		return false
	}
	if eff != nil {
		eff.ClearKeyboardFocus()
		eff.ClearPointerFocus()
		eff.ClearTextInputFocus()
		eff.UpdateShortcutInhibitor()
	}
	expected := outputCount
	if expected < 1 {
		expected = 1
	}
	m.Locked = true
	m.SentLocked = false
	m.ExpectedSurfaces = expected
	m.committed = make(map[output.ID]bool)
	return true
}

// OnSurfaceCommit records that the lock surface on outID committed a
// buffer. Returns true exactly once, the first time every expected
// surface has committed (spec §4.10: "send locked exactly once").
func (m *Manager) OnSurfaceCommit(outID output.ID) bool {
	if !m.Locked || m.SentLocked {
		return false
	}
	if m.committed == nil {
		m.committed = make(map[output.ID]bool)
	}
	m.committed[outID] = true
	return m.recheck()
}

// OnOutputDestroyed handles an output going away while locked and before
// sent_locked: decrements expected_surfaces and re-checks whether locked
// should now fire (spec §4.10). No-op once sent_locked or if unlocked.
func (m *Manager) OnOutputDestroyed(outID output.ID) bool {
	if !m.Locked || m.SentLocked {
		return false
	}
	delete(m.committed, outID)
	if m.ExpectedSurfaces > 0 {
		m.ExpectedSurfaces--
	}
	return m.recheck()
}

func (m *Manager) recheck() bool {
	if m.SentLocked {
		return false
	}
	if len(m.committed) < m.ExpectedSurfaces {
		return false
	}
	m.SentLocked = true
	return true
}

// Unlock destroys the lock and reverts state (spec §4.10: "on unlock,
// destroy the lock and revert state").
func (m *Manager) Unlock() {
	m.Locked = false
	m.SentLocked = false
	m.ExpectedSurfaces = 0
	m.committed = nil
}

// DefaultLockSurfaceSize is the fallback lock-surface size spec §4.10
// names when an output's dimensions are unknown.
const (
	DefaultLockSurfaceWidth  = 1280
	DefaultLockSurfaceHeight = 720
)

// LockSurfaceSize returns (w, h) for a new lock surface on an output
// whose known dimensions are (knownW, knownH); either being 0 falls back
// to the default (spec §4.10: "configure it to the target output's
// dimensions (default 1280x720 if unknown)").
func LockSurfaceSize(knownW, knownH int) (int, int) {
	if knownW <= 0 || knownH <= 0 {
		return DefaultLockSurfaceWidth, DefaultLockSurfaceHeight
	}
	return knownW, knownH
}
