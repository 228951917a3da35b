// Package pixel holds the buffer-format and tile-scaling helpers used by
// the output wallpaper tile and the pseudo-background transparency
// simulation (spec GLOSSARY "Pseudo-bg"). Grounded on the teacher's
// declared-but-latent github.com/daaku/swizzle dependency (byte-order
// channel swizzle) and github.com/KononK/resize (used there for icon
// loading; used here for wallpaper-tile resampling to an output's mode).
package pixel

import (
	"image"

	"github.com/KononK/resize"
	"github.com/daaku/swizzle"
)

// BGRA swaps the R and B channels of an RGBA-ordered byte slice in place,
// converting it to the BGRA order some shm buffer formats (e.g.
// wl_shm.format.argb8888, which is little-endian BGRA in memory) require.
// Used when a --bg-color root fill or a resampled wallpaper tile is
// blitted into a per-output wallpaper buffer.
func BGRA(pix []byte) {
	swizzle.BGRA(pix)
}

// ResampleTile scales src to exactly (w, h) using a linear filter, the
// same library the teacher uses for icon thumbnails (menu.go), repurposed
// here for per-output wallpaper tiling (spec §4 component 2: "per-output
// wallpaper tile buffer").
func ResampleTile(src image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return resize.Resize(uint(w), uint(h), src, resize.Bilinear)
}

// Fill returns a solid-color RGBA image of size (w, h), used for the
// --bg-color root fallback when no wallpaper is configured.
func Fill(w, h int, r, g, b, a uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = a
		}
	}
	return img
}

// SampleBeneath copies the region of the wallpaper tile under box into a
// new RGBA image, simulating the "pseudo-bg" sample a view's fake-transparency
// node draws when real per-surface alpha isn't available.
func SampleBeneath(wallpaper *image.RGBA, box image.Rectangle) *image.RGBA {
	box = box.Intersect(wallpaper.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	for y := 0; y < box.Dy(); y++ {
		for x := 0; x < box.Dx(); x++ {
			out.Set(x, y, wallpaper.At(box.Min.X+x, box.Min.Y+y))
		}
	}
	return out
}
