// Package textbuf is the default implementation of the "text buffer"
// collaborator spec §1 describes as external ("asks an external 'text
// buffer' service for glyph-rasterized surfaces given font name and
// foreground color"). The compositor core only depends on the Service
// interface; this package supplies a concrete, testable implementation
// built the way the teacher renders menu/title text (ctxmenu.go's
// drawText/messureText) — golang.org/x/image/font + opentype + fixed,
// rather than a system font-config lookup.
package textbuf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Service rasterizes UTF-8 text into an RGBA surface for a given font and
// foreground color. Decoration titles (§4.1), menu item labels (§4.7), the
// command dialog and OSD (§4.8) and the toolbar/iconbar/clock (toolbar
// component) all go through this interface.
type Service interface {
	Measure(fontName, text string) (width, height int)
	Render(fontName, text string, fg color.NRGBA) (*image.RGBA, error)
}

// FaceSource resolves a font name (as found in a style-sheet's "font"
// field) to raw font bytes. The actual font lookup/config is out of scope
// per spec §1; production wiring supplies a FaceSource backed by
// fontconfig or an embedded font.
type FaceSource func(fontName string) ([]byte, error)

// Cache is the default Service. It caches parsed font faces by name; the
// decoration/menu layers above it are responsible for the (text, width,
// active) invalidation triple spec §4.1 names for title-text caching —
// see internal/decor.TitleCache.
type Cache struct {
	mu     sync.Mutex
	source FaceSource
	faces  map[string]font.Face
}

// NewCache builds a Cache backed by source.
func NewCache(source FaceSource) *Cache {
	return &Cache{source: source, faces: make(map[string]font.Face)}
}

func (c *Cache) face(fontName string) (font.Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.faces[fontName]; ok {
		return f, nil
	}
	raw, err := c.source(fontName)
	if err != nil {
		return nil, fmt.Errorf("resolve font %q: %w", fontName, err)
	}
	fnt, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", fontName, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: 12, DPI: 96})
	if err != nil {
		return nil, fmt.Errorf("build face %q: %w", fontName, err)
	}
	c.faces[fontName] = face
	return face, nil
}

// Measure returns the pixel width/height text would occupy in fontName.
func (c *Cache) Measure(fontName, text string) (int, int) {
	face, err := c.face(fontName)
	if err != nil {
		return 0, 0
	}
	return measure(face, text), face.Metrics().Height.Ceil()
}

func measure(face font.Face, text string) int {
	var width fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		if prev != -1 {
			width += face.Kern(prev, r)
		}
		prev = r
		adv, ok := face.GlyphAdvance(r)
		if ok {
			width += adv
		}
	}
	return width.Ceil()
}

// Render draws text in fg onto a freshly allocated RGBA surface sized to
// fit it exactly.
func (c *Cache) Render(fontName, text string, fg color.NRGBA) (*image.RGBA, error) {
	face, err := c.face(fontName)
	if err != nil {
		return nil, err
	}
	w := measure(face, text)
	h := face.Metrics().Height.Ceil()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	var dot fixed.Point26_6
	dot.X = 0
	dot.Y = face.Metrics().Ascent
	prev := rune(-1)
	for _, r := range text {
		if prev != -1 {
			dot.X += face.Kern(prev, r)
		}
		prev = r
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if ok {
			draw.DrawMask(dst, dr, &image.Uniform{C: fg}, image.Point{}, mask, maskp, draw.Over)
		}
		dot.X += advance
	}
	return dst, nil
}

// DecodeFontBytes is a tiny helper for FaceSource implementations backed
// by an in-memory embedded font table.
func DecodeFontBytes(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, bytes.ErrTooLarge
	}
	return b, nil
}
