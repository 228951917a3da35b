package menu

import "strings"

// Direction is a selection-move direction (spec §4.7: "arrows move").
type Direction int

const (
	Next Direction = iota
	Prev
)

// MoveSelection moves the selection in dir, skipping separators, and
// wrapping at the ends.
func (m *Menu) MoveSelection(dir Direction) {
	if len(m.Items) == 0 {
		return
	}
	start := m.Selected
	i := start
	for range m.Items {
		if dir == Next {
			i = (i + 1) % len(m.Items)
		} else {
			i = (i - 1 + len(m.Items)) % len(m.Items)
		}
		if isSelectable(m.Items[i]) {
			m.Selected = i
			return
		}
	}
	if start == -1 && isSelectable(m.Items[0]) {
		m.Selected = 0
	}
}

// SelectedItem returns the currently selected item, if any.
func (m *Menu) SelectedItem() (*Item, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil, false
	}
	return m.Items[m.Selected], true
}

// JumpToLetter selects the next item (from just after the current
// selection, wrapping) whose label begins with ch, case-insensitively
// (spec §4.7). Returns whether a match was found.
func (m *Menu) JumpToLetter(ch rune) bool {
	if len(m.Items) == 0 {
		return false
	}
	want := lowerRune(ch)
	start := m.Selected
	if start < 0 {
		start = len(m.Items) - 1
	}
	for off := 1; off <= len(m.Items); off++ {
		i := (start + off) % len(m.Items)
		it := m.Items[i]
		if !isSelectable(it) || it.Label == "" {
			continue
		}
		if lowerRune(rune(it.Label[0])) == want {
			m.Selected = i
			return true
		}
	}
	return false
}

func lowerRune(r rune) rune {
	return []rune(strings.ToLower(string(r)))[0]
}

// Action describes what Activate resolved the selected item to; callers
// (internal/server) switch on Kind to dispatch into the right subsystem.
type Action struct {
	Kind             Kind
	Cmd              string
	ServerActionKind string
	ServerActionArg  string
	ViewActionKind   string
	Workspace        int
}

// Activate resolves the currently selected item to an Action (Enter key,
// spec §4.7). Submenu items are not actions themselves; use
// Manager.OpenSubmenu instead.
// Returns false if nothing is selected or the item is a submenu/separator/
// nop.
func (m *Menu) Activate() (Action, bool) {
	it, ok := m.SelectedItem()
	if !ok {
		return Action{}, false
	}
	switch it.Kind {
	case KindExec:
		return Action{Kind: KindExec, Cmd: it.Cmd}, true
	case KindExit:
		return Action{Kind: KindExit}, true
	case KindServerAction:
		return Action{Kind: KindServerAction, ServerActionKind: it.ServerActionKind, ServerActionArg: it.ServerActionArg, Cmd: it.Cmd}, true
	case KindViewAction:
		return Action{Kind: KindViewAction, ViewActionKind: it.ViewActionKind}, true
	case KindWorkspaceSwitch:
		return Action{Kind: KindWorkspaceSwitch, Workspace: it.Workspace}, true
	default:
		return Action{}, false
	}
}
