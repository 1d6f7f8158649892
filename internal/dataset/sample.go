package dataset

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ironsheep/icon-dataset-synth/internal/imaging"
)

// Split names a dataset partition. The string value is used verbatim as a
// directory name.
type Split string

const (
	Train Split = "train"
	Val   Split = "val"
)

// Splits lists the partitions in generation order.
var Splits = []Split{Train, Val}

// SplitCounts partitions n samples into train and validation counts.
// val is floor(n*fraction) and train takes the remainder.
func SplitCounts(n int, fraction float64) (train, val int, err error) {
	if n < 0 {
		return 0, 0, &ConfigError{Field: "count", Reason: fmt.Sprintf("must be >= 0, got %d", n)}
	}
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return 0, 0, &ConfigError{Field: "val_split", Reason: fmt.Sprintf("must be in [0,1], got %v", fraction)}
	}
	val = int(math.Floor(float64(n) * fraction))
	return n - val, val, nil
}

// Sample is one generated training example. Labels and Placements are in
// the order the icons were drawn.
type Sample struct {
	ID         string
	Split      Split
	Image      image.Image
	Labels     []Label
	Placements []Placement
}

// Generator builds samples from a shared canvas and icon pool. It performs
// no I/O; rendering samples to storage is the caller's job.
//
// Canvas and Icons are read concurrently by callers that run Generate from
// several goroutines, each with its own *rand.Rand.
type Generator struct {
	Canvas   image.Image
	Icons    []Icon
	PerImage int

	// NewID returns a unique sample identifier. Defaults to a random UUID.
	NewID func() string
}

// NewGenerator validates the pool against the canvas and returns a ready
// Generator. Every icon must fit on the canvas and the pool must hold at
// least perImage icons.
func NewGenerator(canvas image.Image, icons []Icon, perImage int) (*Generator, error) {
	if perImage < 1 {
		return nil, &ConfigError{Field: "per_image", Reason: fmt.Sprintf("must be >= 1, got %d", perImage)}
	}
	if len(icons) == 0 {
		return nil, ErrEmptyIconSet
	}
	if len(icons) < perImage {
		return nil, &InsufficientIconsError{Have: len(icons), Want: perImage}
	}

	size := canvas.Bounds().Size()
	for _, ic := range icons {
		if err := CheckFits(ic.Size(), size); err != nil {
			return nil, fmt.Errorf("icon %s: %w", ic.Class, err)
		}
	}

	return &Generator{
		Canvas:   canvas,
		Icons:    icons,
		PerImage: perImage,
		NewID:    uuid.NewString,
	}, nil
}

// Generate produces one sample for split.
func (g *Generator) Generate(rng *rand.Rand, split Split) (*Sample, error) {
	picked, err := SampleIcons(rng, g.Icons, g.PerImage)
	if err != nil {
		return nil, err
	}

	size := g.Canvas.Bounds().Size()
	layers := make([]imaging.Layer, 0, len(picked))
	labels := make([]Label, 0, len(picked))
	placements := make([]Placement, 0, len(picked))

	for _, ic := range picked {
		p, err := Place(rng, ic, size)
		if err != nil {
			return nil, fmt.Errorf("icon %s: %w", ic.Class, err)
		}
		layers = append(layers, imaging.Layer{Image: ic.Image, At: image.Pt(p.X, p.Y)})
		labels = append(labels, Label{ClassIndex: p.ClassIndex, Box: p.Box()})
		placements = append(placements, p)
	}

	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Sample{
		ID:         newID(),
		Split:      split,
		Image:      imaging.Compose(g.Canvas, layers),
		Labels:     labels,
		Placements: placements,
	}, nil
}
