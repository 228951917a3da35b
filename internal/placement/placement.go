// Package placement implements the window-placement policies spec §4.3
// names: row/col smart, cascade, under-mouse, row/col min-overlap. There is
// no teacher analog for window placement itself (nothing in the retrieval
// pack lays out rectangles on a screen); this package follows the
// teacher's general shape instead — small pure functions over value types,
// a policy struct holding just enough mutable state for cascade's
// per-call stagger, no hidden globals.
package placement

import "github.com/fluxbox-wayland/fluxwm/internal/geom"

// Strategy is one of the placement algorithms spec §4.3 lists.
type Strategy int

const (
	RowSmart Strategy = iota
	ColSmart
	Cascade
	UnderMouse
	RowMinOverlap
	ColMinOverlap
	AutoTab
)

// Direction controls row/col smart scan order.
type Direction struct {
	RightToLeft bool
	BottomToTop bool
}

// Policy holds a strategy plus the per-output state cascade needs to
// stagger successive placements.
type Policy struct {
	Strategy    Strategy
	Direction   Direction
	CascadeStep geom.Point

	cascadeNext geom.Point
	cascadeSet  bool
}

// grid is the coarse step row/col smart and min-overlap scans advance by;
// fluxbox's own placement uses a similarly coarse step rather than
// per-pixel scanning, since exact-fit slots are what matters, not visual
// smoothness.
const grid = 8

// PlaceNext returns the top-left (x, y) for a new window of size (w, h) on
// box, given the other currently-occupied frame rectangles on the same
// output/workspace (spec §4.3). cursorX/cursorY matter only for
// UnderMouse.
func (p *Policy) PlaceNext(box geom.Box, w, h int, cursorX, cursorY int, occupied []geom.Box) (int, int) {
	switch p.Strategy {
	case RowSmart:
		return p.scanSmart(box, w, h, occupied, true)
	case ColSmart:
		return p.scanSmart(box, w, h, occupied, false)
	case Cascade:
		return p.cascade(box, w, h)
	case UnderMouse:
		return underMouse(box, w, h, cursorX, cursorY)
	case RowMinOverlap:
		return p.scanMinOverlap(box, w, h, occupied, true)
	case ColMinOverlap:
		return p.scanMinOverlap(box, w, h, occupied, false)
	case AutoTab:
		// Callers resolve AutoTab's "join the topmost matching view" step
		// themselves (it needs the view list, which this package does not
		// see); falling back to RowSmart mirrors spec §4.3's own fallback.
		return p.scanSmart(box, w, h, occupied, true)
	default:
		return p.scanSmart(box, w, h, occupied, true)
	}
}

func fits(cand geom.Box, occupied []geom.Box) bool {
	for _, o := range occupied {
		if cand.Intersect(o).Width > 0 && cand.Intersect(o).Height > 0 {
			return false
		}
	}
	return true
}

// scanSmart walks box in row- or column-major order (per direction),
// returning the first (x, y) at which a w×h rectangle fits without
// overlapping occupied. If nothing fits, it returns the box origin.
func (p *Policy) scanSmart(box geom.Box, w, h int, occupied []geom.Box, rowMajor bool) (int, int) {
	xs := axisPositions(box.X, box.Width, w, p.Direction.RightToLeft)
	ys := axisPositions(box.Y, box.Height, h, p.Direction.BottomToTop)

	try := func(x, y int) (int, int, bool) {
		cand := geom.Box{X: x, Y: y, Width: w, Height: h}
		return x, y, fits(cand, occupied)
	}

	if rowMajor {
		for _, y := range ys {
			for _, x := range xs {
				if x, y, ok := try(x, y); ok {
					return x, y
				}
			}
		}
	} else {
		for _, x := range xs {
			for _, y := range ys {
				if x, y, ok := try(x, y); ok {
					return x, y
				}
			}
		}
	}
	return box.X, box.Y
}

// axisPositions enumerates candidate start coordinates along one axis,
// coarse-grid-stepped, in the requested direction, always including the
// far edge so a window that barely fits flush against it is considered.
func axisPositions(origin, length, size int, reverse bool) []int {
	if size >= length {
		return []int{origin}
	}
	var out []int
	for p := 0; p+size <= length; p += grid {
		out = append(out, origin+p)
	}
	last := origin + length - size
	if len(out) == 0 || out[len(out)-1] != last {
		out = append(out, last)
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// cascade staggers each successive placement by CascadeStep from the box's
// top-left, wrapping back to the origin once the cascade would leave box.
func (p *Policy) cascade(box geom.Box, w, h int) (int, int) {
	if !p.cascadeSet {
		p.cascadeNext = geom.Point{X: box.X, Y: box.Y}
		p.cascadeSet = true
	}
	x, y := p.cascadeNext.X, p.cascadeNext.Y
	if x+w > box.X+box.Width || y+h > box.Y+box.Height {
		x, y = box.X, box.Y
	}
	p.cascadeNext = geom.Point{X: x + p.CascadeStep.X, Y: y + p.CascadeStep.Y}
	return x, y
}

// underMouse centers a w×h rectangle on the cursor, clamped into box.
func underMouse(box geom.Box, w, h, cursorX, cursorY int) (int, int) {
	x := cursorX - w/2
	y := cursorY - h/2
	cand := geom.Box{X: x, Y: y, Width: w, Height: h}
	cand = cand.Clamp(box)
	return cand.X, cand.Y
}

// overlapArea returns the overlap area between two boxes (0 if disjoint).
func overlapArea(a, b geom.Box) int {
	i := a.Intersect(b)
	if i.Width <= 0 || i.Height <= 0 {
		return 0
	}
	return i.Width * i.Height
}

// scanMinOverlap evaluates a coarse grid of candidate positions and picks
// the one minimizing total overlap area with occupied (spec §4.3
// row_min_overlap/col_min_overlap).
func (p *Policy) scanMinOverlap(box geom.Box, w, h int, occupied []geom.Box, rowMajor bool) (int, int) {
	xs := axisPositions(box.X, box.Width, w, p.Direction.RightToLeft)
	ys := axisPositions(box.Y, box.Height, h, p.Direction.BottomToTop)

	bestX, bestY := box.X, box.Y
	bestOverlap := -1

	eval := func(x, y int) {
		cand := geom.Box{X: x, Y: y, Width: w, Height: h}
		total := 0
		for _, o := range occupied {
			total += overlapArea(cand, o)
		}
		if bestOverlap < 0 || total < bestOverlap {
			bestOverlap, bestX, bestY = total, x, y
		}
	}

	if rowMajor {
		for _, y := range ys {
			for _, x := range xs {
				eval(x, y)
			}
		}
	} else {
		for _, x := range xs {
			for _, y := range ys {
				eval(x, y)
			}
		}
	}
	return bestX, bestY
}
