package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is an annotated rectangle to outline on a preview.
type Box struct {
	Rect  image.Rectangle
	Class int
	Label string
}

// Palette returns n visually distinct opaque colors, one per class index.
//
// Hues are spread evenly around the HCL wheel at fixed chroma and luminance,
// so class i always gets the same color for a given n.
func Palette(n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		c := colorful.Hcl(float64(i)*360/float64(max(n, 1)), 0.5, 0.65).Clamped()
		r, g, b := c.RGB255()
		out[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// Preview renders boxes over a copy of img: a 1px outline in the class
// color and the label text on a dark strip above the box (or inside it when
// the box touches the top edge). img is not modified.
func Preview(img image.Image, boxes []Box, palette []color.NRGBA) *image.NRGBA {
	dst := imaging.Clone(img)
	bg := color.NRGBA{0, 0, 0, 180}
	fg := color.NRGBA{255, 255, 255, 255}

	for _, b := range boxes {
		c := color.NRGBA{255, 0, 0, 255}
		if b.Class >= 0 && b.Class < len(palette) {
			c = palette[b.Class]
		}
		drawOutline(dst, b.Rect, c)
		if b.Label != "" {
			drawLabel(dst, b.Rect.Min, b.Label, fg, bg)
		}
	}
	return dst
}

func drawOutline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// drawLabel draws text with basicfont.Face7x13 on a translucent strip whose
// bottom-left corner sits at at.
func drawLabel(img *image.NRGBA, at image.Point, text string, fg, bg color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	height := face.Height

	top := at.Y - height
	if top < img.Bounds().Min.Y {
		top = at.Y
	}
	strip := image.Rect(at.X, top, at.X+width+2, top+height).Intersect(img.Bounds())
	draw.Draw(img, strip, image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{X: fixed.I(at.X + 1), Y: fixed.I(top + face.Ascent)}
	d.DrawString(text)
}
