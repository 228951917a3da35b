package rules

import (
	"path/filepath"
	"testing"

	"github.com/fluxbox-wayland/fluxwm/internal/color"
	"github.com/fluxbox-wayland/fluxwm/internal/decor"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/view"
)

func TestMatchHonorsOrderNegateAndLimit(t *testing.T) {
	rules := []Rule{
		{AppID: Predicate{Set: true, Pattern: "foo"}, MatchLimit: 1},
		{AppID: Predicate{Set: true, Negate: true, Pattern: "bar"}},
	}
	for i := range rules {
		if err := rules[i].compile(); err != nil {
			t.Fatalf("compile: %v", err)
		}
	}

	id, ok := Match(rules, Target{AppID: "foo"})
	if !ok || id != 0 {
		t.Fatalf("expected rule 0 to match foo, got id=%v ok=%v", id, ok)
	}
	rules[0].matchCount++
	id, ok = Match(rules, Target{AppID: "foo"})
	if !ok || id != 1 {
		t.Fatalf("expected exhausted rule 0 to be skipped, got id=%v ok=%v", id, ok)
	}

	id, ok = Match(rules, Target{AppID: "bar"})
	if ok {
		t.Fatalf("expected negated predicate to reject bar, got id=%v", id)
	}
}

func TestApplyPreMapPositionMatchesScenario(t *testing.T) {
	// Spec scenario S2: 50%x50% dimensions, Center position at (0,0), on a
	// 1000x800 usable box with frame extents left=4 top=28 right=4 bottom=4.
	r := Rule{
		SetDimensions: true,
		DimWidth:      color.IntOrPercent{Value: 50, Percent: true},
		DimHeight:     color.IntOrPercent{Value: 50, Percent: true},
		SetPosition:   true,
		PosAnchor:     geom.AnchorCenter,
	}
	v := &view.View{}
	v.Decor.BorderWidth = 4
	v.Decor.TitleHeight = 24
	v.Decor.Mask = decor.MaskTitlebar | decor.MaskBorder

	box := geom.Box{X: 0, Y: 0, Width: 1000, Height: 800}
	ApplyPreMap(v, &r, true, box, box)

	if v.Width != 500 || v.Height != 400 {
		t.Fatalf("expected content size 500x400, got %dx%d", v.Width, v.Height)
	}
	if v.X != 250 || v.Y != 212 {
		t.Fatalf("expected view position (250,212), got (%d,%d)", v.X, v.Y)
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps")

	s := NewStore()
	if err := s.Load(path); err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if !s.RewriteSafe {
		t.Fatalf("expected missing file to be rewrite-safe")
	}

	r := Rule{AppID: Predicate{Set: true, Pattern: "Example"}}
	r.SetSticky, r.Sticky = true, true
	r.compile()
	s.Rules = []Rule{r}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	s2 := NewStore()
	if err := s2.Load(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !s2.RewriteSafe {
		t.Fatalf("expected reloaded file to be rewrite-safe")
	}
	if len(s2.Rules) != 1 || !s2.Rules[0].SetSticky || !s2.Rules[0].Sticky {
		t.Fatalf("expected reloaded sticky rule, got %+v", s2.Rules)
	}

	// Idempotent save-then-load (spec §8.2).
	if err := s2.Save(); err != nil {
		t.Fatalf("resave: %v", err)
	}
	s3 := NewStore()
	if err := s3.Load(path); err != nil {
		t.Fatalf("reload 2: %v", err)
	}
	if Write(s2.Rules) != Write(s3.Rules) {
		t.Fatalf("expected idempotent round trip")
	}
}

func TestRememberStickyTogglesAttribute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps")
	s := NewStore()
	if err := s.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	target := Target{AppID: "Example"}
	if !s.RememberSticky(target, true) {
		t.Fatalf("expected remember-sticky to report a change")
	}
	id, ok := s.FindForView(target)
	if !ok || !s.Rules[id].SetSticky || !s.Rules[id].Sticky {
		t.Fatalf("expected sticky attribute set true")
	}

	s.RememberSticky(target, true)
	id, ok = s.FindForView(target)
	if !ok || s.Rules[id].SetSticky {
		t.Fatalf("expected second toggle to clear the sticky flag")
	}
}
