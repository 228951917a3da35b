// Package menu implements the context-menu tree spec §4.7 describes:
// item kinds, toggle/selected state synced against live state whenever a
// menu opens, the single-root-menu policy, and keyboard navigation.
// Grounded on the teacher's generic Menu[T]/Item[T] tree
// (_examples/friedelschoen-ctxmenu/menu.go): a flat item slice per menu,
// a `selected` index, and submenus linked from their parent item — kept
// here, adapted from SDL/layer-shell rendering to a scene-subtree
// envelope over the wlsink boundary, and from a single output-type T to
// the closed set of item kinds this spec names.
package menu

// Kind is one of the eight item kinds spec §4.7 lists.
type Kind int

const (
	KindExec Kind = iota
	KindExit
	KindSubmenu
	KindServerAction
	KindViewAction
	KindWorkspaceSwitch
	KindNop
	KindSeparator
)

// Known server_action kinds referenced by scenario S6 and the broader
// config surface; kept as plain strings (like internal/focus's mouse-
// binding actions) so this package never needs to import the subsystems
// an action actually drives.
const (
	ActionSetFocusModel   = "SET_FOCUS_MODEL"
	ActionToggleAutoRaise = "TOGGLE_AUTO_RAISE"
)

// Item is one menu entry. Which fields are meaningful depends on Kind:
// Cmd for KindExec, Submenu for KindSubmenu, ServerActionKind/Arg/Cmd for
// KindServerAction, ViewActionKind for KindViewAction, Workspace for
// KindWorkspaceSwitch, Label for KindNop/KindSeparator (separators
// typically carry an empty label).
type Item struct {
	Kind Kind
	Label string

	Cmd string // KindExec, and the optional companion command on KindServerAction

	Submenu *Menu // KindSubmenu

	ServerActionKind string // KindServerAction
	ServerActionArg  string

	ViewActionKind string // KindViewAction

	Workspace int // KindWorkspaceSwitch

	Toggle   bool
	Selected bool
}

// Menu is a flat list of items plus the index currently selected,
// mirroring the teacher's Menu[T].items/selected shape.
type Menu struct {
	Items    []*Item
	Selected int // -1 if nothing selected

	parent *Menu // the menu whose item opened this one as a submenu; nil for a root
}

// New returns an empty menu with nothing selected.
func New() *Menu {
	return &Menu{Selected: -1}
}

// Append adds item to the menu.
func (m *Menu) Append(item *Item) {
	m.Items = append(m.Items, item)
}

func isSelectable(it *Item) bool {
	return it.Kind != KindSeparator
}
