// Package output implements the per-output registry (spec §4 component 2):
// mode selection, usable-area bookkeeping (full box minus struts) and the
// present/frame dedup bookkeeping nested X11 backends need.
package output

import (
	"image"

	"github.com/fluxbox-wayland/fluxwm/internal/arena"
	"github.com/fluxbox-wayland/fluxwm/internal/color"
	"github.com/fluxbox-wayland/fluxwm/internal/geom"
	"github.com/fluxbox-wayland/fluxwm/internal/pixel"
	"github.com/fluxbox-wayland/fluxwm/internal/wlsink"
)

// ID identifies an Output within the Registry's arena.
type ID = arena.ID

// Struts are the reserved-space insets subtracted from an output's layout
// box to produce its usable area: toolbar, slit, and any user-configured
// per-screen struts (spec §3.1 "Output").
type Struts struct {
	Toolbar, Slit, User geom.Edges
}

func (s Struts) total() geom.Edges {
	return geom.Edges{
		Left:   s.Toolbar.Left + s.Slit.Left + s.User.Left,
		Top:    s.Toolbar.Top + s.Slit.Top + s.User.Top,
		Right:  s.Toolbar.Right + s.Slit.Right + s.User.Right,
		Bottom: s.Toolbar.Bottom + s.Slit.Bottom + s.User.Bottom,
	}
}

// Record is one backend output's compositor-side bookkeeping.
type Record struct {
	Backend wlsink.Output
	Struts  Struts

	// Wallpaper is the optional per-output wallpaper tile buffer (spec
	// §3.1); nil when no wallpaper is configured for this output.
	Wallpaper *image.RGBA

	// present bookkeeping triple used to dedup synthetic present events on
	// nested X11 backends (spec §3.1 "Output").
	haveSeq, lastSeq uint64
}

// SetWallpaperFill replaces the output's wallpaper tile with a solid fill
// of bg (a --bg-color value, spec §6.1), sized to the output's current
// layout box. Used as the root fallback when no image wallpaper is
// configured.
func (r *Record) SetWallpaperFill(bg string) error {
	c, err := color.Parse(bg)
	if err != nil {
		return err
	}
	box := r.Backend.LayoutBox()
	r.Wallpaper = pixel.Fill(box.Width, box.Height, c.R, c.G, c.B, c.A)
	pixel.BGRA(r.Wallpaper.Pix)
	return nil
}

// SetWallpaperTile resamples src to the output's current layout box and
// installs it as the wallpaper tile, converting to the BGRA byte order
// wl_shm's argb8888 format requires in memory.
func (r *Record) SetWallpaperTile(src image.Image) {
	box := r.Backend.LayoutBox()
	tile := pixel.ResampleTile(src, box.Width, box.Height)
	out := image.NewRGBA(tile.Bounds())
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			out.Set(x, y, tile.At(x, y))
		}
	}
	pixel.BGRA(out.Pix)
	r.Wallpaper = out
}

// UsableArea returns the output's full layout box minus Struts.
func (r *Record) UsableArea() geom.Box {
	return r.Backend.LayoutBox().Shrink(r.Struts.total())
}

// NotePresent records a present event with the given sequence number,
// returning whether it is new (not a duplicate synthesized by a nested
// X11 backend re-delivering the same frame).
func (r *Record) NotePresent(seq uint64) bool {
	if seq <= r.lastSeq && r.haveSeq != 0 {
		return false
	}
	r.haveSeq = 1
	r.lastSeq = seq
	return true
}

// Registry owns all Records, keyed by arena ID so views can hold a stable,
// stale-tolerant reference to "their" output (spec §9 cyclic-reference
// note).
type Registry struct {
	arena *arena.Arena[*Record]
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{arena: arena.New[*Record]()}
}

// Add registers a newly appeared backend output.
func (reg *Registry) Add(backend wlsink.Output, struts Struts) ID {
	return reg.arena.Insert(&Record{Backend: backend, Struts: struts})
}

// Remove retires an output (backend destroy event). Callers are
// responsible for cascading cleanup to views/session-lock per spec §3.3.
func (reg *Registry) Remove(id ID) {
	reg.arena.Remove(id)
}

// Get returns the Record for id, or (nil, false) if it is stale.
func (reg *Registry) Get(id ID) (*Record, bool) {
	return reg.arena.Get(id)
}

// Each iterates every live output.
func (reg *Registry) Each(fn func(id ID, r *Record) bool) {
	reg.arena.Each(fn)
}

// Len reports the number of live outputs.
func (reg *Registry) Len() int {
	return reg.arena.Len()
}

// AtPoint returns the output whose layout box contains (x, y).
func (reg *Registry) AtPoint(x, y int) (ID, *Record, bool) {
	var foundID ID
	var found *Record
	ok := false
	reg.arena.Each(func(id ID, r *Record) bool {
		if r.Backend.LayoutBox().Contains(x, y) {
			foundID, found, ok = id, r, true
			return false
		}
		return true
	})
	return foundID, found, ok
}

// LayoutCenter returns an arbitrary output's layout-box center, used as the
// fallback reference point spec §4.1's place_initial and §4.6's rules
// pre-map application both fall back to when no cursor-relative output can
// be determined.
func (reg *Registry) LayoutCenter() (geom.Point, bool) {
	var p geom.Point
	ok := false
	reg.arena.Each(func(_ ID, r *Record) bool {
		p = r.Backend.LayoutBox().Center()
		ok = true
		return false
	})
	return p, ok
}

// ByHeadIndex returns the output at the given screen-map index, the
// "head" concept spec §4.6 rules reference.
func (reg *Registry) ByHeadIndex(idx int) (ID, *Record, bool) {
	i := 0
	var foundID ID
	var found *Record
	ok := false
	reg.arena.Each(func(id ID, r *Record) bool {
		if i == idx {
			foundID, found, ok = id, r, true
			return false
		}
		i++
		return true
	})
	return foundID, found, ok
}
