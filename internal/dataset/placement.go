package dataset

import (
	"image"
	"math/rand/v2"
)

// Icon is one loaded sprite, already resized to the run's icon size.
// Image is shared across samples and must be treated as read-only.
type Icon struct {
	Class string
	Index int
	Path  string
	Image image.Image
}

// Size returns the icon's pixel dimensions.
func (ic Icon) Size() image.Point {
	return ic.Image.Bounds().Size()
}

// Placement is the position of one icon on one sample's canvas.
//
// X and Y are the top-left corner in canvas pixels. The icon always lies
// fully inside the canvas: 0 <= X <= CanvasW-Width and 0 <= Y <= CanvasH-Height.
type Placement struct {
	ClassIndex int
	X, Y       int
	Width      int
	Height     int
	CanvasW    int
	CanvasH    int
}

// Rect returns the placement as a pixel rectangle on the canvas.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Box returns the normalized bounding box of the placement.
func (p Placement) Box() BoundingBox {
	w := float64(p.CanvasW)
	h := float64(p.CanvasH)
	return BoundingBox{
		XCenter: (float64(p.X) + float64(p.Width)/2) / w,
		YCenter: (float64(p.Y) + float64(p.Height)/2) / h,
		Width:   float64(p.Width) / w,
		Height:  float64(p.Height) / h,
	}
}

// BoundingBox is a box in YOLO convention: center and size as fractions of
// the image dimensions, all in [0,1].
type BoundingBox struct {
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// Pixels maps the box back onto a canvas of the given size, rounding to the
// nearest pixel.
func (b BoundingBox) Pixels(canvas image.Point) image.Rectangle {
	w := float64(canvas.X)
	h := float64(canvas.Y)
	x0 := (b.XCenter - b.Width/2) * w
	y0 := (b.YCenter - b.Height/2) * h
	return image.Rect(
		roundInt(x0), roundInt(y0),
		roundInt(x0+b.Width*w), roundInt(y0+b.Height*h),
	)
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// CheckFits reports an IconTooLargeError when an icon of the given size has
// no valid position on the canvas. An icon exactly as large as the canvas
// fits at (0,0).
func CheckFits(icon, canvas image.Point) error {
	if canvas.X-icon.X < 0 || canvas.Y-icon.Y < 0 {
		return &IconTooLargeError{Icon: icon, Canvas: canvas}
	}
	return nil
}

// Place picks a uniformly random position for icon on a canvas of the given
// size. X and Y are drawn independently from [0, W-iw] and [0, H-ih]; no
// attempt is made to avoid other icons.
func Place(rng *rand.Rand, icon Icon, canvas image.Point) (Placement, error) {
	size := icon.Size()
	if err := CheckFits(size, canvas); err != nil {
		return Placement{}, err
	}

	return Placement{
		ClassIndex: icon.Index,
		X:          rng.IntN(canvas.X - size.X + 1),
		Y:          rng.IntN(canvas.Y - size.Y + 1),
		Width:      size.X,
		Height:     size.Y,
		CanvasW:    canvas.X,
		CanvasH:    canvas.Y,
	}, nil
}
