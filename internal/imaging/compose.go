package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Layer is one sprite to draw onto a canvas with its top-left corner at At.
type Layer struct {
	Image image.Image
	At    image.Point
}

// Compose draws layers onto a copy of canvas, in order.
//
// Each layer is alpha-blended through its own alpha channel, so transparent
// sprite pixels leave the canvas visible and later layers cover earlier ones
// where they overlap. Neither canvas nor any layer image is modified; the
// returned image is a fresh buffer with the canvas's size and origin at (0,0).
func Compose(canvas image.Image, layers []Layer) *image.NRGBA {
	dst := imaging.Clone(canvas)
	for _, l := range layers {
		dst = imaging.Overlay(dst, l.Image, l.At, 1.0)
	}
	return dst
}

// ResizeIcon scales a sprite to exactly size using Lanczos resampling.
// The source is left untouched.
func ResizeIcon(src image.Image, size image.Point) *image.NRGBA {
	return imaging.Resize(src, size.X, size.Y, imaging.Lanczos)
}
