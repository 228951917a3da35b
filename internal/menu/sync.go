package menu

// Hook recomputes an item's toggle/selected pair against live state,
// called for every item each time a menu opens (spec §4.7: "recomputed
// whenever the menu is opened by syncing against live state"). Kept as a
// per-item callback so this package never needs to know what
// focus_model, auto_raise, or a view's flags actually are — the caller
// (internal/server, which has the real state) supplies it.
type Hook func(item *Item) (toggle, selected bool)

// Sync walks m and every submenu reachable from it, applying hook to
// every item that isn't a separator or nop (those never carry toggle/
// selected state).
func Sync(m *Menu, hook Hook) {
	for _, it := range m.Items {
		if it.Kind == KindSeparator || it.Kind == KindNop {
			continue
		}
		it.Toggle, it.Selected = hook(it)
		if it.Kind == KindSubmenu && it.Submenu != nil {
			Sync(it.Submenu, hook)
		}
	}
}

// NoOpHook leaves an item's existing toggle/selected values unchanged;
// useful as the innermost fallback when composing the Hook builders
// below.
func NoOpHook(it *Item) (bool, bool) {
	return it.Toggle, it.Selected
}

// FocusModelHook builds a Hook that sets toggle=true, selected=true on
// exactly the server_action=SET_FOCUS_MODEL item whose arg matches the
// live focus model, and toggle=true, selected=false on every other
// focus-model item (spec scenario S6). Non-focus-model items are passed
// through via fallback.
func FocusModelHook(liveFocusModel string, fallback Hook) Hook {
	return func(it *Item) (bool, bool) {
		if it.Kind == KindServerAction && it.ServerActionKind == ActionSetFocusModel {
			match := it.ServerActionArg == liveFocusModel
			return true, match
		}
		return fallback(it)
	}
}

// AutoRaiseHook builds a Hook that sets an item whose server_action is
// TOGGLE_AUTO_RAISE to toggle=true, selected=<live auto_raise value>,
// per scenario S6 ("TOGGLE_AUTO_RAISE item has toggle=true,
// selected=false" when auto_raise is false).
func AutoRaiseHook(liveAutoRaise bool, fallback Hook) Hook {
	return func(it *Item) (bool, bool) {
		if it.Kind == KindServerAction && it.ServerActionKind == ActionToggleAutoRaise {
			return true, liveAutoRaise
		}
		return fallback(it)
	}
}
