package imaging

import (
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
)

// Output formats accepted by NewEncoder.
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
)

// Encoder writes an image in one fixed format.
type Encoder struct {
	// Ext is the file extension including the dot, e.g. ".jpg".
	Ext string

	enc imgio.Encoder
}

// NewEncoder returns an encoder for format ("jpg" or "png"). quality only
// applies to JPEG and must be in 1..100.
func NewEncoder(format string, quality int) (*Encoder, error) {
	switch format {
	case FormatJPEG, "jpeg":
		if quality < 1 || quality > 100 {
			return nil, fmt.Errorf("jpeg quality must be in 1..100, got %d", quality)
		}
		return &Encoder{Ext: ".jpg", enc: imgio.JPEGEncoder(quality)}, nil
	case FormatPNG:
		return &Encoder{Ext: ".png", enc: imgio.PNGEncoder()}, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
}

// Encode writes img to w.
func (e *Encoder) Encode(w io.Writer, img image.Image) error {
	if err := e.enc(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
