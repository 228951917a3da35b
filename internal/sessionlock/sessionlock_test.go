package sessionlock

import (
	"testing"

	"github.com/fluxbox-wayland/fluxwm/internal/output"
)

type fakeEffects struct {
	keyboardCleared, pointerCleared, textInputCleared, inhibitorUpdated bool
}

func (f *fakeEffects) ClearKeyboardFocus()    { f.keyboardCleared = true }
func (f *fakeEffects) ClearPointerFocus()     { f.pointerCleared = true }
func (f *fakeEffects) ClearTextInputFocus()   { f.textInputCleared = true }
func (f *fakeEffects) UpdateShortcutInhibitor() { f.inhibitorUpdated = true }

// TestSessionLockMatchesScenarioS4 reproduces spec scenario S4 in full:
// two outputs lock, A commits first with no edge, B commits second and
// fires locked exactly once.
func TestSessionLockMatchesScenarioS4(t *testing.T) {
	m := NewManager()
	eff := &fakeEffects{}
	outA, outB := output.ID(1), output.ID(2)

	if !m.NewLock(eff, 2) {
		t.Fatal("expected NewLock to succeed")
	}
	if !m.Locked || m.SentLocked || m.ExpectedSurfaces != 2 {
		t.Fatalf("unexpected state after new_lock: %+v", m)
	}
	if !eff.keyboardCleared || !eff.pointerCleared || !eff.textInputCleared || !eff.inhibitorUpdated {
		t.Fatal("expected all new_lock side effects to run")
	}

	if fired := m.OnSurfaceCommit(outA); fired {
		t.Fatal("expected no edge after only A commits")
	}
	if fired := m.OnSurfaceCommit(outB); !fired {
		t.Fatal("expected locked to fire once both A and B have committed")
	}
	if fired := m.OnSurfaceCommit(outB); fired {
		t.Fatal("expected locked to fire at most once")
	}
}

// TestOutputDestroyDecrementsExpectedAndFiresIfAlreadyCommitted covers
// the second half of S4: destroying B after A has committed (and before
// sent_locked) drops expected to 1, and locked fires immediately because
// A had already committed.
func TestOutputDestroyDecrementsExpectedAndFiresIfAlreadyCommitted(t *testing.T) {
	m := NewManager()
	outA, outB := output.ID(1), output.ID(2)
	m.NewLock(nil, 2)

	m.OnSurfaceCommit(outA)
	fired := m.OnOutputDestroyed(outB)

	if m.ExpectedSurfaces != 1 {
		t.Fatalf("expected expected_surfaces to drop to 1, got %d", m.ExpectedSurfaces)
	}
	if !fired {
		t.Fatal("expected locked to fire since A had already committed")
	}
}

func TestOutputDestroyWaitsForFirstCommitIfNoneYet(t *testing.T) {
	m := NewManager()
	outB := output.ID(2)
	m.NewLock(nil, 2)

	if fired := m.OnOutputDestroyed(outB); fired {
		t.Fatal("expected no fire yet: A has not committed")
	}
	if m.ExpectedSurfaces != 1 {
		t.Fatalf("expected expected_surfaces to drop to 1, got %d", m.ExpectedSurfaces)
	}

	outA := output.ID(1)
	if fired := m.OnSurfaceCommit(outA); !fired {
		t.Fatal("expected locked to fire once A finally commits")
	}
}

func TestNewLockRejectedWhileAlreadyLocked(t *testing.T) {
	m := NewManager()
	m.NewLock(nil, 1)
	if m.NewLock(nil, 1) {
		t.Fatal("expected second new_lock to be rejected")
	}
}

func TestUnlockRevertsState(t *testing.T) {
	m := NewManager()
	m.NewLock(nil, 1)
	m.OnSurfaceCommit(output.ID(1))
	m.Unlock()

	if m.Locked || m.SentLocked || m.ExpectedSurfaces != 0 {
		t.Fatalf("expected state fully reverted, got %+v", m)
	}
}

func TestLockSurfaceSizeFallsBackToDefault(t *testing.T) {
	if w, h := LockSurfaceSize(0, 0); w != DefaultLockSurfaceWidth || h != DefaultLockSurfaceHeight {
		t.Fatalf("expected default size, got (%d,%d)", w, h)
	}
	if w, h := LockSurfaceSize(1920, 1080); w != 1920 || h != 1080 {
		t.Fatalf("expected known size passed through, got (%d,%d)", w, h)
	}
}
