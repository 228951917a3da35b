package view

import (
	"testing"

	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/output"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

type fakeSurface struct {
	w, h int
}

func (s *fakeSurface) CurrentSize() (int, int)   { return s.w, s.h }
func (s *fakeSurface) SetSize(w, h int)          { s.w, s.h = w, h }
func (s *fakeSurface) SetActivated(bool)         {}
func (s *fakeSurface) SetMaximized(bool)         {}
func (s *fakeSurface) SetFullscreen(bool, wlsink.Output) {}
func (s *fakeSurface) SetMinimized(bool)         {}
func (s *fakeSurface) SetTiled(geom.Edges)       {}
func (s *fakeSurface) Close()                    {}
func (s *fakeSurface) SizeIncrement() (int, int) { return 0, 0 }

type nopPipeline struct{}

func (nopPipeline) SelectOutput(*View) (output.ID, bool) { return output.ID(0), false }
func (nopPipeline) ApplyPreMapRules(*View)                {}
func (nopPipeline) Place(*View, output.ID)                {}
func (nopPipeline) ApplyPostMapRules(*View)               {}
func (nopPipeline) FocusOnMap(*View, FocusReason)         {}
func (nopPipeline) OnUnmapped(*View)                      {}

func TestCreateAssignsIncreasingCreateSeq(t *testing.T) {
	m := NewManager()
	id1, v1 := m.Create(&fakeSurface{})
	id2, v2 := m.Create(&fakeSurface{})
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %v twice", id1)
	}
	if v2.CreateSeq <= v1.CreateSeq {
		t.Fatalf("expected increasing CreateSeq, got %d then %d", v1.CreateSeq, v2.CreateSeq)
	}
	if v1.Mapped {
		t.Fatalf("newly created view must start unmapped")
	}
}

func TestMapUnmapLifecycle(t *testing.T) {
	m := NewManager()
	id, _ := m.Create(&fakeSurface{w: 100, h: 50})
	m.Map(id, nopPipeline{})
	v, _ := m.Get(id)
	if !v.Mapped {
		t.Fatalf("expected view mapped after Map")
	}
	m.Unmap(id, nopPipeline{})
	v, _ = m.Get(id)
	if v.Mapped {
		t.Fatalf("expected view unmapped after Unmap")
	}
	if v.Destroyed {
		t.Fatalf("unmap must not destroy the view")
	}
}

func TestMaximizeSavesAndRestoresGeometry(t *testing.T) {
	m := NewManager()
	id, v := m.Create(&fakeSurface{})
	v.X, v.Y, v.Width, v.Height = 10, 20, 300, 200
	box := geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080}

	m.SetMaximized(id, true, true, box, geom.Edges{}, true)
	v, _ = m.Get(id)
	if !v.Maximized {
		t.Fatalf("expected Maximized true")
	}
	if v.X == 10 && v.Y == 20 {
		t.Fatalf("expected geometry to change on maximize")
	}

	m.SetMaximized(id, false, false, box, geom.Edges{}, true)
	v, _ = m.Get(id)
	if v.Maximized {
		t.Fatalf("expected Maximized false after un-maximize")
	}
	if v.X != 10 || v.Y != 20 || v.Width != 300 || v.Height != 200 {
		t.Fatalf("expected restored geometry (10,20,300,200), got (%d,%d,%d,%d)", v.X, v.Y, v.Width, v.Height)
	}
}

func TestFullscreenRoundTrip(t *testing.T) {
	m := NewManager()
	id, v := m.Create(&fakeSurface{})
	v.X, v.Y, v.Width, v.Height = 5, 5, 640, 480
	out := geom.Box{X: 0, Y: 0, Width: 1920, Height: 1080}

	m.SetFullscreen(id, true, output.ID(1), out)
	v, _ = m.Get(id)
	if !v.Fullscreen || v.Width != 1920 || v.Height != 1080 {
		t.Fatalf("expected fullscreen geometry to cover output box, got %+v", v)
	}

	m.SetFullscreen(id, false, output.ID(1), out)
	v, _ = m.Get(id)
	if v.Fullscreen || v.X != 5 || v.Y != 5 || v.Width != 640 || v.Height != 480 {
		t.Fatalf("expected restored geometry, got %+v", v)
	}
}

func TestTabGroupPromotesNextActiveOnUnmap(t *testing.T) {
	m := NewManager()
	id1, _ := m.Create(&fakeSurface{})
	id2, _ := m.Create(&fakeSurface{})
	m.Map(id1, nopPipeline{})
	m.Map(id2, nopPipeline{})

	tg := m.CreateTabGroup(id1)
	m.JoinTabGroup(tg, id2)
	m.SetTabGroupActive(tg, id1)

	m.Unmap(id1, nopPipeline{})

	group, ok := m.GetTabGroup(tg)
	if !ok {
		t.Fatalf("expected tab group to survive member unmap")
	}
	active, ok := group.ActiveMember()
	if !ok || active != id2 {
		t.Fatalf("expected id2 promoted active, got %v ok=%v", active, ok)
	}
}

func TestRemoveFromTabGroupDeletesEmptyGroup(t *testing.T) {
	m := NewManager()
	id, _ := m.Create(&fakeSurface{})
	tg := m.CreateTabGroup(id)
	m.RemoveFromTabGroup(id)
	if _, ok := m.GetTabGroup(tg); ok {
		t.Fatalf("expected empty tab group to be removed")
	}
	v, _ := m.Get(id)
	if v.HasTabGroup {
		t.Fatalf("expected view to no longer reference the tab group")
	}
}
