package menu

// Manager enforces spec §4.7's open policy: exactly one root menu at a
// time, with a chain of nested submenus opened to its right.
type Manager struct {
	root  *Menu   // nil if nothing open
	chain []*Menu // root at index 0, innermost open submenu last
}

// NewManager returns a Manager with nothing open.
func NewManager() *Manager {
	return &Manager{}
}

// IsOpen reports whether any root menu is currently open.
func (mgr *Manager) IsOpen() bool {
	return mgr.root != nil
}

// Innermost returns the deepest currently open menu (where navigation and
// activation apply), or nil if nothing is open.
func (mgr *Manager) Innermost() *Menu {
	if len(mgr.chain) == 0 {
		return nil
	}
	return mgr.chain[len(mgr.chain)-1]
}

// Root returns the currently open root menu, if any.
func (mgr *Manager) Root() (*Menu, bool) {
	return mgr.root, mgr.root != nil
}

// OpenRoot opens m as the root menu, closing any prior root first (spec
// §4.7: "opening a new root closes the prior").
func (mgr *Manager) OpenRoot(m *Menu) {
	mgr.CloseRoot()
	m.parent = nil
	m.Selected = -1
	mgr.root = m
	mgr.chain = []*Menu{m}
}

// CloseRoot closes everything: the root and any open submenu chain.
func (mgr *Manager) CloseRoot() {
	mgr.root = nil
	mgr.chain = nil
}

// OpenSubmenu opens the submenu of the currently selected item in the
// innermost menu, to the right of its parent (spec §4.7: "Right opens a
// submenu"). Any deeper chain beyond the innermost menu is discarded
// first. No-op if the selected item has no submenu.
func (mgr *Manager) OpenSubmenu() bool {
	cur := mgr.Innermost()
	if cur == nil {
		return false
	}
	it, ok := cur.SelectedItem()
	if !ok || it.Kind != KindSubmenu || it.Submenu == nil {
		return false
	}
	it.Submenu.parent = cur
	it.Submenu.Selected = -1
	mgr.chain = append(mgr.chain, it.Submenu)
	return true
}

// CloseSubmenu closes the innermost open submenu, returning to its
// parent (spec §4.7: "Left closes it"). No-op at the root.
func (mgr *Manager) CloseSubmenu() bool {
	if len(mgr.chain) <= 1 {
		return false
	}
	mgr.chain = mgr.chain[:len(mgr.chain)-1]
	return true
}

// Depth returns how many menus deep the open chain is (1 if only the
// root is open, 0 if nothing is open).
func (mgr *Manager) Depth() int {
	return len(mgr.chain)
}
