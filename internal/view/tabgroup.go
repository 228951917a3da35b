package view

import "github.com/fluxbox-wayland/fluxwm/internal/decor"

// TabGroup is an ordered set of views sharing one frame, with exactly one
// member active at a time (spec §3.1 "Tab group", §4.1 "Tab group").
type TabGroup struct {
	Members   []ID
	Active    int
	Placement decor.TabBarPlacement
}

// ActiveMember returns the currently active member, or (0, false) if the
// group is empty.
func (g *TabGroup) ActiveMember() (ID, bool) {
	if g.Active < 0 || g.Active >= len(g.Members) {
		return ID(0), false
	}
	return g.Members[g.Active], true
}

// indexOf returns the index of id within Members, or -1.
func (g *TabGroup) indexOf(id ID) int {
	for i, m := range g.Members {
		if m == id {
			return i
		}
	}
	return -1
}
