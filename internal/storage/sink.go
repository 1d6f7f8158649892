// Package storage renders generated samples and the class manifest to a
// dataset tree, and packs the finished tree into a zip archive.
//
// The generator in package dataset never touches the filesystem; it hands
// each Sample to a Sink. FS is the on-disk implementation, Memory keeps
// everything in memory for tests and dry runs.
package storage

import (
	"context"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
)

// ManifestFile is the class manifest's name at the dataset root.
const ManifestFile = "classes.txt"

// Sink persists samples and the class manifest.
//
// WriteSample must be safe for concurrent use. A sample is written whole or
// not at all: if WriteSample fails, no artifact of that sample remains.
type Sink interface {
	WriteSample(ctx context.Context, s *dataset.Sample) error
	WriteManifest(table *dataset.ClassTable) error
}
