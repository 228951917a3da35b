package view

import (
	"github.com/fluxbox-wayland/fluxwm/internal/arena"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/output"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

// MapPipeline is the set of cross-cutting hooks View.Map/View.Unmap need
// from the rules, placement and focus components. Defining it here (rather
// than importing those packages directly) keeps view a leaf package: those
// packages import view, a concrete MapPipeline is assembled in
// internal/server, and this package never imports them back.
type MapPipeline interface {
	// SelectOutput picks the output a not-yet-placed view should appear on
	// (spec §4.1), or reports false if there is none.
	SelectOutput(v *View) (output.ID, bool)
	// ApplyPreMapRules mutates v per any matching apps-rule, before placement
	// (spec §4.6).
	ApplyPreMapRules(v *View)
	// Place positions v on out using the configured placement policy (spec
	// §4.3), unless v.Placed is already true (e.g. an apps-rule pinned
	// Position).
	Place(v *View, out output.ID)
	// ApplyPostMapRules mutates v per any matching apps-rule, after
	// placement (spec §4.6).
	ApplyPostMapRules(v *View)
	// FocusOnMap runs the focus-on-map policy (spec §4.2).
	FocusOnMap(v *View, reason FocusReason)
	// OnUnmapped removes v from focus/stacking-order bookkeeping (spec
	// §3.3).
	OnUnmapped(v *View)
}

// Manager owns the View and TabGroup arenas (spec §9 cyclic-reference
// note: views reference tab groups and vice versa only through IDs, never
// pointers).
type Manager struct {
	views     *arena.Arena[*View]
	tabGroups *arena.Arena[*TabGroup]
	nextSeq   uint64
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		views:     arena.New[*View](),
		tabGroups: arena.New[*TabGroup](),
	}
}

// Create allocates a new, unmapped View for a native surface (spec §3.3:
// create → unmapped). CreateSeq is a monotonically increasing identity used
// for stacking-order tie-breaks and stable log references.
func (m *Manager) Create(surface wlsink.Surface) (ID, *View) {
	m.nextSeq++
	v := &View{
		Kind:           wlsink.KindNative,
		Surface:        surface,
		CreateSeq:      m.nextSeq,
		AlphaFocused:   0xff,
		AlphaUnfocused: 0xff,
	}
	return m.views.Insert(v), v
}

// CreateXBridged allocates a new, unmapped View for an XWayland surface.
func (m *Manager) CreateXBridged(x wlsink.XSurface) (ID, *View) {
	m.nextSeq++
	v := &View{
		Kind:           wlsink.KindXBridged,
		XSurface:       x,
		CreateSeq:      m.nextSeq,
		AlphaFocused:   0xff,
		AlphaUnfocused: 0xff,
	}
	return m.views.Insert(v), v
}

// Get returns the View for id.
func (m *Manager) Get(id ID) (*View, bool) {
	return m.views.Get(id)
}

// Each iterates every live view, mapped or not.
func (m *Manager) Each(fn func(id ID, v *View) bool) {
	m.views.Each(fn)
}

// EachMapped iterates only mapped views, the "WM view list" spec §3.3
// refers to.
func (m *Manager) EachMapped(fn func(id ID, v *View) bool) {
	m.views.Each(func(id ID, v *View) bool {
		if !v.Mapped {
			return true
		}
		return fn(id, v)
	})
}

// Len returns the number of live views (mapped or not).
func (m *Manager) Len() int {
	return m.views.Len()
}

// Map transitions a view unmapped→mapped (spec §3.3, §4.1's map()): runs
// pre-map rules, resolves an output, places the view unless already placed,
// runs post-map rules, marks it mapped and runs the focus-on-map policy.
func (m *Manager) Map(id ID, pipeline MapPipeline) {
	v, ok := m.views.Get(id)
	if !ok || v.Mapped {
		return
	}
	pipeline.ApplyPreMapRules(v)
	if out, ok := pipeline.SelectOutput(v); ok {
		v.OutputID, v.HasOutput = out, true
		if !v.Placed {
			pipeline.Place(v, out)
			v.Placed = true
		}
	}
	pipeline.ApplyPostMapRules(v)
	v.Mapped = true
	m.views.Set(id, v)
	pipeline.FocusOnMap(v, ReasonMap)
}

// Unmap transitions mapped→unmapped (spec §3.3). The view keeps its
// identity and geometry; only its tab-group membership (promoting the next
// member to active) and focus/stacking bookkeeping change.
func (m *Manager) Unmap(id ID, pipeline MapPipeline) {
	v, ok := m.views.Get(id)
	if !ok || !v.Mapped {
		return
	}
	v.Mapped = false
	if v.HasTabGroup {
		m.promoteNextActive(v.TabGroup, id)
	}
	m.views.Set(id, v)
	pipeline.OnUnmapped(v)
}

// Destroy removes a view permanently (spec §3.3: unmapped → destroy()).
// Callers must have already torn down the view's scene nodes and
// foreign-toplevel handle, or pass a view still holding them for this call
// to do so.
func (m *Manager) Destroy(id ID, pipeline MapPipeline) {
	v, ok := m.views.Get(id)
	if !ok {
		return
	}
	if v.Mapped {
		m.Unmap(id, pipeline)
	}
	if v.HasTabGroup {
		m.RemoveFromTabGroup(id)
	}
	if v.Foreign != nil {
		v.Foreign.Destroy()
	}
	if v.DecorNode != nil {
		v.DecorNode.Destroy()
	}
	if v.PseudoBG != nil {
		v.PseudoBG.Destroy()
	}
	if v.SceneRoot != nil {
		v.SceneRoot.Destroy()
	}
	v.Destroyed = true
	m.views.Remove(id)
}

// SetMaximized applies the maximize algorithm (spec §4.1) for either axis
// independently; box is the output box the caller selected according to
// the full_maximization flag, tabStrut the group's shared tab-bar extents
// (zero if the view isn't in a tab group placed "max over").
func (m *Manager) SetMaximized(id ID, horz, vert bool, box geom.Box, tabStrut geom.Edges, ignoreIncrement bool) {
	v, ok := m.views.Get(id)
	if !ok {
		return
	}
	if v.Fullscreen {
		// Spec §4.1: "when fullscreen, schedules a reconfigure and returns
		// without changes". The reconfigure itself is a backend concern; no
		// view state is touched.
		return
	}
	wasMaximized := v.Maximized
	if (horz || vert) && !wasMaximized {
		v.SaveGeometry()
	}
	v.MaximizedH, v.MaximizedV = horz, vert
	v.Maximized = horz && vert

	if !horz && !vert {
		if v.HasSavedGeometry {
			x, y, w, h := v.RestoreGeometry()
			v.applyGeometry(x, y, w, h)
		}
		m.notifyMaximize(v)
		m.views.Set(id, v)
		return
	}

	x, y, w, h := v.MaximizeTarget(box, tabStrut, ignoreIncrement)
	cx, cy, cw, ch := v.X, v.Y, v.CurrentWidth(), v.CurrentHeight()
	if horz {
		cx, cw = x, w
	}
	if vert {
		cy, ch = y, h
	}
	v.applyGeometry(cx, cy, cw, ch)
	m.notifyMaximize(v)
	m.views.Set(id, v)
}

func (m *Manager) notifyMaximize(v *View) {
	if v.Kind == wlsink.KindNative && v.Surface != nil {
		v.Surface.SetMaximized(v.Maximized)
	}
	if v.Kind == wlsink.KindXBridged && v.XSurface != nil {
		v.XSurface.SetMaximized(v.MaximizedH, v.MaximizedV)
	}
	if v.Foreign != nil {
		v.Foreign.SetState(v.Activated, v.Maximized, v.Minimized, v.Fullscreen)
	}
}

// SetFullscreen applies spec §4.1's fullscreen transition: save geometry on
// 0→1, cover the full output box, restore on 1→0.
func (m *Manager) SetFullscreen(id ID, enable bool, outID output.ID, outBox geom.Box) {
	v, ok := m.views.Get(id)
	if !ok {
		return
	}
	if enable == v.Fullscreen {
		return
	}
	if enable {
		v.SaveGeometry()
		v.Fullscreen = true
		v.FullscreenOutput, v.HasFullscreenOutput = outID, true
		// Invariant 4: fullscreen is mutually exclusive with maximize in the
		// observable sense. Clear the maximize-axis flags directly rather
		// than going through SetMaximized, which would re-trigger
		// SaveGeometry/RestoreGeometry against the fullscreen geometry we
		// are about to apply.
		v.Maximized, v.MaximizedH, v.MaximizedV = false, false, false
		v.applyGeometry(outBox.X, outBox.Y, outBox.Width, outBox.Height)
	} else {
		v.Fullscreen = false
		v.HasFullscreenOutput = false
		if v.HasSavedGeometry {
			x, y, w, h := v.RestoreGeometry()
			v.applyGeometry(x, y, w, h)
		}
	}
	if v.Kind == wlsink.KindNative && v.Surface != nil {
		var out wlsink.Output
		v.Surface.SetFullscreen(enable, out)
	}
	if v.Kind == wlsink.KindXBridged && v.XSurface != nil {
		v.XSurface.SetFullscreen(enable)
	}
	if v.Foreign != nil {
		v.Foreign.SetState(v.Activated, v.Maximized, v.Minimized, v.Fullscreen)
	}
	m.views.Set(id, v)
}

// SetMinimized toggles the iconified state. A minimized tab-group member
// promotes the next member to active, matching SetShaded/Unmap semantics.
func (m *Manager) SetMinimized(id ID, enable bool) {
	v, ok := m.views.Get(id)
	if !ok || v.Minimized == enable {
		return
	}
	v.Minimized = enable
	if v.SceneRoot != nil {
		v.SceneRoot.SetEnabled(!enable)
	}
	if enable && v.HasTabGroup {
		m.promoteNextActive(v.TabGroup, id)
	}
	if v.Foreign != nil {
		v.Foreign.SetState(v.Activated, v.Maximized, v.Minimized, v.Fullscreen)
	}
	m.views.Set(id, v)
}

// SetShaded toggles titlebar-only display. Shading never changes the stored
// content geometry; it disables the content scene subtree while leaving
// the decoration in place, and is rejected outright while fullscreen (spec
// §4.1: "rejected while fullscreen").
func (m *Manager) SetShaded(id ID, enable bool) {
	v, ok := m.views.Get(id)
	if !ok || v.Fullscreen || v.Shaded == enable {
		return
	}
	v.Shaded = enable
	if v.SceneRoot != nil {
		v.SceneRoot.SetEnabled(!enable)
	}
	m.views.Set(id, v)
}

// CreateTabGroup creates a new group containing exactly id as its sole,
// active member (spec §4.1 "Tab group").
func (m *Manager) CreateTabGroup(id ID) TabGroupID {
	tg := &TabGroup{Members: []ID{id}, Active: 0}
	tgID := m.tabGroups.Insert(tg)
	if v, ok := m.views.Get(id); ok {
		v.TabGroup, v.HasTabGroup = tgID, true
		m.views.Set(id, v)
	}
	return tgID
}

// GetTabGroup returns the TabGroup for tgID.
func (m *Manager) GetTabGroup(tgID TabGroupID) (*TabGroup, bool) {
	return m.tabGroups.Get(tgID)
}

// JoinTabGroup appends id to tgID's membership, after removing it from any
// group it currently belongs to.
func (m *Manager) JoinTabGroup(tgID TabGroupID, id ID) {
	v, ok := m.views.Get(id)
	if !ok {
		return
	}
	if v.HasTabGroup {
		m.RemoveFromTabGroup(id)
	}
	tg, ok := m.tabGroups.Get(tgID)
	if !ok {
		return
	}
	tg.Members = append(tg.Members, id)
	m.tabGroups.Set(tgID, tg)
	v.TabGroup, v.HasTabGroup = tgID, true
	m.views.Set(id, v)
}

// RemoveFromTabGroup detaches id from its current group, promoting a new
// active member if id was active, and deletes the group once empty.
func (m *Manager) RemoveFromTabGroup(id ID) {
	v, ok := m.views.Get(id)
	if !ok || !v.HasTabGroup {
		return
	}
	tgID := v.TabGroup
	m.promoteNextActive(tgID, id)
	if tg, ok := m.tabGroups.Get(tgID); ok {
		idx := tg.indexOf(id)
		if idx >= 0 {
			tg.Members = append(tg.Members[:idx], tg.Members[idx+1:]...)
			if tg.Active > idx {
				tg.Active--
			}
			if len(tg.Members) == 0 {
				m.tabGroups.Remove(tgID)
			} else {
				m.tabGroups.Set(tgID, tg)
			}
		}
	}
	v.HasTabGroup = false
	v.TabGroup = ID(0)
	m.views.Set(id, v)
}

// promoteNextActive makes the member after leaving the group active, if
// leaving was itself the active member. It does not mutate membership.
func (m *Manager) promoteNextActive(tgID TabGroupID, leaving ID) {
	tg, ok := m.tabGroups.Get(tgID)
	if !ok {
		return
	}
	idx := tg.indexOf(leaving)
	if idx < 0 || idx != tg.Active {
		return
	}
	for offset := 1; offset < len(tg.Members); offset++ {
		cand := tg.Members[(idx+offset)%len(tg.Members)]
		if cand == leaving {
			continue
		}
		if cv, ok := m.views.Get(cand); ok && cv.Mapped && !cv.Minimized {
			tg.Active = tg.indexOf(cand)
			m.tabGroups.Set(tgID, tg)
			m.SetTabGroupActive(tgID, cand)
			return
		}
	}
}

// SetTabGroupActive makes id the active member of its group, enabling its
// scene subtree and disabling its siblings' (spec §4.1 "Tab group":
// "exactly one member is active").
func (m *Manager) SetTabGroupActive(tgID TabGroupID, id ID) {
	tg, ok := m.tabGroups.Get(tgID)
	if !ok {
		return
	}
	idx := tg.indexOf(id)
	if idx < 0 {
		return
	}
	tg.Active = idx
	m.tabGroups.Set(tgID, tg)
	for _, mid := range tg.Members {
		if v, ok := m.views.Get(mid); ok && v.SceneRoot != nil {
			v.SceneRoot.SetEnabled(mid == id)
		}
	}
}

// StepTabGroupActive moves the active member of tgID by delta (+1 next,
// -1 previous), wrapping around the membership, and returns the newly
// active view. Spec §4.1 "Tab group" keyboard-nav actions.
func (m *Manager) StepTabGroupActive(tgID TabGroupID, delta int) (ID, bool) {
	tg, ok := m.tabGroups.Get(tgID)
	if !ok || len(tg.Members) == 0 {
		return ID(0), false
	}
	n := len(tg.Members)
	next := ((tg.Active+delta)%n + n) % n
	id := tg.Members[next]
	m.SetTabGroupActive(tgID, id)
	return id, true
}

// SyncTabGroupGeometry applies the same frame geometry to every member of
// tgID, the "geometry sync" spec §4.1 "Tab group" names: all stacked views
// share one frame regardless of which is currently on top.
func (m *Manager) SyncTabGroupGeometry(tgID TabGroupID, x, y, w, h int) {
	tg, ok := m.tabGroups.Get(tgID)
	if !ok {
		return
	}
	for _, mid := range tg.Members {
		if v, ok := m.views.Get(mid); ok {
			v.applyGeometry(x, y, w, h)
			m.views.Set(mid, v)
		}
	}
}
