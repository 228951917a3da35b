// Package geom holds the box/point/edge primitives shared by every component.
package geom

// Point is an integer screen coordinate.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Box is an axis-aligned rectangle in layout coordinates.
type Box struct {
	X, Y, Width, Height int
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains reports whether (x, y) lies within the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && y >= b.Y && x < b.X+b.Width && y < b.Y+b.Height
}

// Center returns the box's center point.
func (b Box) Center() Point {
	return Point{b.X + b.Width/2, b.Y + b.Height/2}
}

// Intersect returns the overlapping area of b and o, or the zero Box if they
// don't overlap.
func (b Box) Intersect(o Box) Box {
	x0, y0 := max(b.X, o.X), max(b.Y, o.Y)
	x1, y1 := min(b.X+b.Width, o.X+o.Width), min(b.Y+b.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Box{}
	}
	return Box{x0, y0, x1 - x0, y1 - y0}
}

// Area returns Width*Height, clamped to 0.
func (b Box) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Shrink insets the box by e on all four sides.
func (b Box) Shrink(e Edges) Box {
	return Box{
		X:      b.X + e.Left,
		Y:      b.Y + e.Top,
		Width:  b.Width - e.Left - e.Right,
		Height: b.Height - e.Top - e.Bottom,
	}
}

// Clamp moves the box so it fits entirely inside bound, shrinking it first if
// it is larger than bound. Used by every placement strategy (spec §8.1 item 8
// — placement boundedness).
func (b Box) Clamp(bound Box) Box {
	if b.Width > bound.Width {
		b.Width = bound.Width
	}
	if b.Height > bound.Height {
		b.Height = bound.Height
	}
	if b.X < bound.X {
		b.X = bound.X
	}
	if b.Y < bound.Y {
		b.Y = bound.Y
	}
	if b.X+b.Width > bound.X+bound.Width {
		b.X = bound.X + bound.Width - b.Width
	}
	if b.Y+b.Height > bound.Y+bound.Height {
		b.Y = bound.Y + bound.Height - b.Height
	}
	return b
}

// Edges is a frame's left/top/right/bottom extents.
type Edges struct {
	Left, Top, Right, Bottom int
}

// Horizontal returns Left+Right.
func (e Edges) Horizontal() int { return e.Left + e.Right }

// Vertical returns Top+Bottom.
func (e Edges) Vertical() int { return e.Top + e.Bottom }

// Anchor is the 9-way grid used by rule positioning and icon placement (§3.1
// GLOSSARY "Anchor").
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorLeft
	AnchorBottomLeft
	AnchorTop
	AnchorCenter
	AnchorBottom
	AnchorTopRight
	AnchorRight
	AnchorBottomRight
)

// ParseAnchor maps the case-insensitive names used by the apps-rules grammar
// (§6.3) to an Anchor.
func ParseAnchor(s string) (Anchor, bool) {
	switch lower(s) {
	case "topleft", "top-left":
		return AnchorTopLeft, true
	case "left":
		return AnchorLeft, true
	case "bottomleft", "bottom-left":
		return AnchorBottomLeft, true
	case "top":
		return AnchorTop, true
	case "center":
		return AnchorCenter, true
	case "bottom":
		return AnchorBottom, true
	case "topright", "top-right":
		return AnchorTopRight, true
	case "right":
		return AnchorRight, true
	case "bottomright", "bottom-right":
		return AnchorBottomRight, true
	default:
		return AnchorCenter, false
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// RefPoint returns the reference point of box for the given anchor, as used
// by both the rules engine's [Position] attribute (§4.6) and decoration/menu
// placement.
func (a Anchor) RefPoint(b Box) Point {
	x, y := b.X, b.Y
	switch a {
	case AnchorTopLeft, AnchorLeft, AnchorBottomLeft:
		x = b.X
	case AnchorTop, AnchorCenter, AnchorBottom:
		x = b.X + b.Width/2
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		x = b.X + b.Width
	}
	switch a {
	case AnchorTopLeft, AnchorTop, AnchorTopRight:
		y = b.Y
	case AnchorLeft, AnchorCenter, AnchorRight:
		y = b.Y + b.Height/2
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		y = b.Y + b.Height
	}
	return Point{x, y}
}

// NegateX reports whether offsets on the X axis should be negated for this
// anchor (right-anchored cases), per §4.6's [Position] semantics.
func (a Anchor) NegateX() bool {
	return a == AnchorTopRight || a == AnchorRight || a == AnchorBottomRight
}

// NegateY reports whether offsets on the Y axis should be negated for this
// anchor (bottom-anchored cases).
func (a Anchor) NegateY() bool {
	return a == AnchorBottomLeft || a == AnchorBottom || a == AnchorBottomRight
}
