package menu

import "testing"

// TestSyncMatchesScenarioS6 reproduces spec scenario S6: opening a root
// menu while focus_model=mouse_focus and auto_raise=false selects exactly
// the mouse_focus item and leaves TOGGLE_AUTO_RAISE toggled-off.
func TestSyncMatchesScenarioS6(t *testing.T) {
	m := New()
	clickItem := &Item{Kind: KindServerAction, Label: "Click to Focus", ServerActionKind: ActionSetFocusModel, ServerActionArg: "click_to_focus"}
	mouseItem := &Item{Kind: KindServerAction, Label: "Mouse Focus", ServerActionKind: ActionSetFocusModel, ServerActionArg: "mouse_focus"}
	strictItem := &Item{Kind: KindServerAction, Label: "Strict Mouse Focus", ServerActionKind: ActionSetFocusModel, ServerActionArg: "strict_mouse_focus"}
	autoRaiseItem := &Item{Kind: KindServerAction, Label: "Auto Raise", ServerActionKind: ActionToggleAutoRaise}
	m.Append(clickItem)
	m.Append(mouseItem)
	m.Append(strictItem)
	m.Append(autoRaiseItem)

	hook := AutoRaiseHook(false, FocusModelHook("mouse_focus", NoOpHook))
	Sync(m, hook)

	if !mouseItem.Toggle || !mouseItem.Selected {
		t.Fatalf("expected mouse_focus item selected+toggled, got %+v", mouseItem)
	}
	if !clickItem.Toggle || clickItem.Selected {
		t.Fatalf("expected click_to_focus item toggled but not selected, got %+v", clickItem)
	}
	if !strictItem.Toggle || strictItem.Selected {
		t.Fatalf("expected strict_mouse_focus item toggled but not selected, got %+v", strictItem)
	}
	if !autoRaiseItem.Toggle || autoRaiseItem.Selected {
		t.Fatalf("expected auto-raise item toggle=true selected=false, got %+v", autoRaiseItem)
	}
}

func TestSyncRecursesIntoSubmenus(t *testing.T) {
	inner := New()
	innerItem := &Item{Kind: KindServerAction, ServerActionKind: ActionSetFocusModel, ServerActionArg: "mouse_focus"}
	inner.Append(innerItem)

	outer := New()
	outer.Append(&Item{Kind: KindSubmenu, Label: "Focus Model", Submenu: inner})

	Sync(outer, FocusModelHook("mouse_focus", NoOpHook))

	if !innerItem.Selected {
		t.Fatal("expected Sync to recurse into submenu items")
	}
}

func TestMoveSelectionSkipsSeparators(t *testing.T) {
	m := New()
	m.Append(&Item{Kind: KindExec, Label: "a"})
	m.Append(&Item{Kind: KindSeparator})
	m.Append(&Item{Kind: KindExec, Label: "b"})

	m.MoveSelection(Next)
	if m.Selected != 0 {
		t.Fatalf("expected first move to select index 0, got %d", m.Selected)
	}
	m.MoveSelection(Next)
	if m.Selected != 2 {
		t.Fatalf("expected move to skip separator to index 2, got %d", m.Selected)
	}
	m.MoveSelection(Next)
	if m.Selected != 0 {
		t.Fatalf("expected wraparound to index 0, got %d", m.Selected)
	}
}

func TestJumpToLetterCaseInsensitive(t *testing.T) {
	m := New()
	m.Append(&Item{Kind: KindExec, Label: "Alpha"})
	m.Append(&Item{Kind: KindExec, Label: "beta"})
	m.Append(&Item{Kind: KindExec, Label: "Gamma"})

	if !m.JumpToLetter('b') {
		t.Fatal("expected jump to find 'beta'")
	}
	if m.Selected != 1 {
		t.Fatalf("expected selection at index 1, got %d", m.Selected)
	}

	m.Selected = -1
	if !m.JumpToLetter('G') {
		t.Fatal("expected jump to find 'Gamma' case-insensitively")
	}
	if m.Selected != 2 {
		t.Fatalf("expected selection at index 2, got %d", m.Selected)
	}
}

func TestOpenRootClosesPriorAndSubmenuChain(t *testing.T) {
	mgr := NewManager()
	sub := New()
	sub.Append(&Item{Kind: KindExec, Label: "x"})

	root1 := New()
	root1.Append(&Item{Kind: KindSubmenu, Submenu: sub})

	mgr.OpenRoot(root1)
	root1.Selected = 0
	if !mgr.OpenSubmenu() {
		t.Fatal("expected OpenSubmenu to succeed")
	}
	if mgr.Depth() != 2 {
		t.Fatalf("expected depth 2 after opening submenu, got %d", mgr.Depth())
	}

	root2 := New()
	mgr.OpenRoot(root2)
	if mgr.Depth() != 1 {
		t.Fatalf("expected opening a new root to close the submenu chain, got depth %d", mgr.Depth())
	}
	root, ok := mgr.Root()
	if !ok || root != root2 {
		t.Fatal("expected root2 to be the open root")
	}
}

func TestActivateResolvesExecAndServerAction(t *testing.T) {
	m := New()
	m.Append(&Item{Kind: KindExec, Cmd: "xterm"})
	m.Selected = 0
	action, ok := m.Activate()
	if !ok || action.Kind != KindExec || action.Cmd != "xterm" {
		t.Fatalf("unexpected exec action: %+v", action)
	}

	m2 := New()
	m2.Append(&Item{Kind: KindServerAction, ServerActionKind: ActionSetFocusModel, ServerActionArg: "mouse_focus"})
	m2.Selected = 0
	action2, ok := m2.Activate()
	if !ok || action2.Kind != KindServerAction || action2.ServerActionArg != "mouse_focus" {
		t.Fatalf("unexpected server-action: %+v", action2)
	}
}
