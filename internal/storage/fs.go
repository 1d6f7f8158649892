package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
	"github.com/ironsheep/icon-dataset-synth/internal/imaging"
)

// FS writes a YOLO dataset tree rooted at Root:
//
//	<root>/classes.txt
//	<root>/images/<split>/<id><ext>
//	<root>/labels/<split>/<id>.txt
type FS struct {
	Root    string
	Encoder *imaging.Encoder
}

// NewFS prepares root for a fresh dataset and returns a sink writing into it.
//
// A missing root is created. An existing non-empty root is rejected with a
// ConfigError unless overwrite is set, in which case it is removed first.
func NewFS(root string, enc *imaging.Encoder, overwrite bool) (*FS, error) {
	if root == "" {
		return nil, &dataset.ConfigError{Field: "output", Reason: "path is required"}
	}
	if enc == nil {
		return nil, &dataset.ConfigError{Field: "format", Reason: "encoder is required"}
	}

	entries, err := os.ReadDir(root)
	switch {
	case err == nil && len(entries) > 0:
		if !overwrite {
			return nil, &dataset.ConfigError{Field: "output", Reason: fmt.Sprintf("%s already exists and is not empty", root)}
		}
		if err := os.RemoveAll(root); err != nil {
			return nil, &dataset.WriteError{Path: root, Err: err}
		}
	case err != nil && !os.IsNotExist(err):
		return nil, &dataset.ConfigError{Field: "output", Reason: err.Error()}
	}

	for _, split := range dataset.Splits {
		for _, kind := range []string{"images", "labels"} {
			dir := filepath.Join(root, kind, string(split))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &dataset.WriteError{Path: dir, Err: err}
			}
		}
	}

	return &FS{Root: root, Encoder: enc}, nil
}

// ImagePath returns where the image of sample id in split is stored.
func (f *FS) ImagePath(split dataset.Split, id string) string {
	return filepath.Join(f.Root, "images", string(split), id+f.Encoder.Ext)
}

// LabelPath returns where the label file of sample id in split is stored.
func (f *FS) LabelPath(split dataset.Split, id string) string {
	return filepath.Join(f.Root, "labels", string(split), id+".txt")
}

// WriteSample encodes the image and label file of s.
//
// Both artifacts are first written to temporary files next to their final
// names and only then renamed into place. If anything fails, every file of
// this sample is removed, so a reader never sees an image without its label.
func (f *FS) WriteSample(ctx context.Context, s *dataset.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var img bytes.Buffer
	if err := f.Encoder.Encode(&img, s.Image); err != nil {
		return &dataset.WriteError{Path: f.ImagePath(s.Split, s.ID), Err: err}
	}
	label := []byte(dataset.FormatLabels(s.Labels))

	imgPath := f.ImagePath(s.Split, s.ID)
	lblPath := f.LabelPath(s.Split, s.ID)

	imgTmp, err := writeTemp(imgPath, img.Bytes())
	if err != nil {
		return err
	}
	lblTmp, err := writeTemp(lblPath, label)
	if err != nil {
		os.Remove(imgTmp)
		return err
	}

	if err := os.Rename(imgTmp, imgPath); err != nil {
		os.Remove(imgTmp)
		os.Remove(lblTmp)
		return &dataset.WriteError{Path: imgPath, Err: err}
	}
	if err := os.Rename(lblTmp, lblPath); err != nil {
		os.Remove(imgPath)
		os.Remove(lblTmp)
		return &dataset.WriteError{Path: lblPath, Err: err}
	}
	return nil
}

// WriteManifest writes classes.txt at the dataset root.
func (f *FS) WriteManifest(table *dataset.ClassTable) error {
	return WriteManifest(f.Root, table)
}

// WriteImage encodes img with enc and stores it at path, creating the parent
// directory if needed. The file appears under its final name only once
// fully written.
func WriteImage(path string, enc *imaging.Encoder, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &dataset.WriteError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return &dataset.WriteError{Path: path, Err: err}
	}
	tmp, err := writeTemp(path, buf.Bytes())
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &dataset.WriteError{Path: path, Err: err}
	}
	return nil
}

// writeTemp writes data to a temporary file in the directory of path and
// returns the temporary file's name.
func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", &dataset.WriteError{Path: path, Err: err}
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", &dataset.WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", &dataset.WriteError{Path: path, Err: err}
	}
	return name, nil
}
