// Package decor implements the decoration layout component (spec §4
// component 4): the decoration bitmask and its presets, frame-extent
// computation, titlebar/button/resize-edge hit-testing, tab-bar layout and
// title-glyph caching.
package decor

import (
	"image/color"

	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/textbuf"
)

// Mask is the decoration bitmask spec §4.1 defines.
type Mask uint32

const (
	MaskTitlebar Mask = 1 << iota
	MaskHandle
	MaskBorder
	MaskIconify
	MaskMaximize
	MaskClose
	MaskMenu
	MaskSticky
	MaskShade
	MaskTab
	MaskEnabled
	maskLast
)

// Presets named in spec §4.1.
const (
	PresetNone   Mask = 0
	PresetNormal      = maskLast - 1 // all bits below MaskEnabled's successor
	PresetTiny        = MaskTitlebar | MaskIconify
	PresetTool        = MaskTitlebar
	PresetBorder      = MaskBorder
	PresetTab         = MaskBorder | MaskTab
)

var presetNames = []struct {
	name string
	mask Mask
}{
	{"NONE", PresetNone},
	{"TAB", PresetTab},
	{"TOOL", PresetTool},
	{"TINY", PresetTiny},
	{"BORDER", PresetBorder},
	{"NORMAL", PresetNormal},
}

// CanonicalName returns the preset name for m if it matches one exactly,
// else "" (callers fall back to writing the raw mask).
func CanonicalName(m Mask) string {
	for _, p := range presetNames {
		if p.mask == m {
			return p.name
		}
	}
	return ""
}

// ParsePreset is the inverse of CanonicalName, satisfying spec §8.2's
// round-trip law: Parse(CanonicalName(m)) == m for every named preset.
func ParsePreset(name string) (Mask, bool) {
	for _, p := range presetNames {
		if p.name == name {
			return p.mask, true
		}
	}
	return 0, false
}

// FrameExtents computes the frame's left/top/right/bottom extents from the
// mask, per spec §4.1: any of TITLEBAR|HANDLE|BORDER|TAB contributes
// border_width to left/right, title_height+border_width to top, and
// border_width to bottom.
func FrameExtents(m Mask, borderWidth, titleHeight int) geom.Edges {
	if m&(MaskTitlebar|MaskHandle|MaskBorder|MaskTab) == 0 {
		return geom.Edges{}
	}
	return geom.Edges{
		Left:   borderWidth,
		Right:  borderWidth,
		Top:    titleHeight + borderWidth,
		Bottom: borderWidth,
	}
}

// HitZone is the result of a decoration hit-test.
type HitZone int

const (
	HitNone HitZone = iota
	HitTitlebar
	HitResize
	HitButtonClose
	HitButtonMax
	HitButtonMin
)

// Edge is a resize edge bitmask (spec §4.4).
type Edge int

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Layout is the geometry a Decoration needs to hit-test and draw: the
// content box (without frame) and button/handle placement derived from it.
type Layout struct {
	Mask        Mask
	BorderWidth int
	TitleHeight int
	ButtonSize  int
	// Content is the view's content-area box (frame-extent-exclusive), in
	// view-local coordinates with origin at the frame's top-left.
	Content geom.Box
}

// Extents returns this layout's frame extents.
func (l Layout) Extents() geom.Edges {
	return FrameExtents(l.Mask, l.BorderWidth, l.TitleHeight)
}

// FrameBox returns the full frame box (content + extents) in view-local
// coordinates with origin (0,0).
func (l Layout) FrameBox() geom.Box {
	e := l.Extents()
	return geom.Box{
		X:      0,
		Y:      0,
		Width:  l.Content.Width + e.Horizontal(),
		Height: l.Content.Height + e.Vertical(),
	}
}

// buttonOrder lists the right-to-left button placement order; Fluxbox
// draws close rightmost, then maximize, then iconify.
var buttonOrder = []struct {
	mask Mask
	zone HitZone
}{
	{MaskClose, HitButtonClose},
	{MaskMaximize, HitButtonMax},
	{MaskIconify, HitButtonMin},
}

// HitTest returns the zone under the view-local point (x, y).
func (l Layout) HitTest(x, y int) (HitZone, Edge) {
	e := l.Extents()
	frame := l.FrameBox()
	if !frame.Contains(x, y) {
		return HitNone, 0
	}

	if l.Mask&MaskHandle != 0 {
		onLeft := x < e.Left
		onRight := x >= frame.Width-e.Right
		onTop := y < e.Top
		onBottom := y >= frame.Height-e.Bottom
		var edges Edge
		if onLeft {
			edges |= EdgeLeft
		}
		if onRight {
			edges |= EdgeRight
		}
		if onTop && l.Mask&MaskTitlebar == 0 {
			edges |= EdgeTop
		}
		if onBottom {
			edges |= EdgeBottom
		}
		if edges != 0 {
			return HitResize, edges
		}
	}

	if l.Mask&MaskTitlebar != 0 && y < e.Top {
		buttonX := frame.Width - e.Right
		for _, b := range buttonOrder {
			if l.Mask&b.mask == 0 {
				continue
			}
			buttonX -= l.ButtonSize
			if x >= buttonX && x < buttonX+l.ButtonSize {
				return b.zone, 0
			}
		}
		return HitTitlebar, 0
	}
	return HitNone, 0
}

// TitleCache caches rendered title glyphs by the (text, width, active)
// triple spec §4.1 names, invalidated on theme change, title change or
// resize — the caller simply calls Get with the current triple and it
// recomputes only on a miss.
type TitleCache struct {
	svc    textbuf.Service
	font   string
	key    titleKey
	valid  bool
	pixels any // backend-rendered surface handle, opaque to this package
}

type titleKey struct {
	text   string
	width  int
	active bool
}

// NewTitleCache builds a cache backed by svc, rendering in the given font.
func NewTitleCache(svc textbuf.Service, fontName string) *TitleCache {
	return &TitleCache{svc: svc, font: fontName}
}

// Get returns a rendered surface for (text, width, active), recomputing
// only when the triple differs from the last call.
func (c *TitleCache) Get(text string, width int, active bool, fg color.NRGBA) (any, error) {
	key := titleKey{text, width, active}
	if c.valid && c.key == key {
		return c.pixels, nil
	}
	img, err := c.svc.Render(c.font, text, fg)
	if err != nil {
		return nil, err
	}
	c.key = key
	c.valid = true
	c.pixels = img
	return img, nil
}

// Invalidate drops the cached render (theme change, title change, resize).
func (c *TitleCache) Invalidate() {
	c.valid = false
}

// TabBarPlacement is one of the four placements spec §4.1 "Tab group"
// allows.
type TabBarPlacement int

const (
	TabBarTitleTop TabBarPlacement = iota
	TabBarTitleBottom
	TabBarBorderLeft
	TabBarBorderRight
)

// TabSpan is the (offset, length) pair spec §4.1 uses to locate a tab
// under a point.
type TabSpan struct {
	Offset, Length int
}

// TabBar computes per-tab spans along the bar's long axis, evenly dividing
// totalLength among n tabs.
func TabBar(totalLength, n int) []TabSpan {
	if n <= 0 {
		return nil
	}
	spans := make([]TabSpan, n)
	base := totalLength / n
	rem := totalLength % n
	off := 0
	for i := 0; i < n; i++ {
		length := base
		if i < rem {
			length++
		}
		spans[i] = TabSpan{Offset: off, Length: length}
		off += length
	}
	return spans
}

// TabsBarContains reports whether a point in the bar's axis coordinate
// lies within [0, totalLength).
func TabsBarContains(axisPos, totalLength int) bool {
	return axisPos >= 0 && axisPos < totalLength
}

// TabsIndexAt returns the tab index containing axisPos, or -1.
func TabsIndexAt(spans []TabSpan, axisPos int) int {
	for i, s := range spans {
		if axisPos >= s.Offset && axisPos < s.Offset+s.Length {
			return i
		}
	}
	return -1
}
