package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
)

// boxTolerance absorbs float rounding when checking a box against the frame.
const boxTolerance = 1e-9

// SplitReport summarizes one split of a verified dataset.
type SplitReport struct {
	Split   dataset.Split
	Samples int
	Boxes   int
}

// Report is the result of Verify.
type Report struct {
	Classes []string
	Splits  []SplitReport
	// Problems lists every inconsistency found. Empty means the dataset
	// is well formed.
	Problems []string
}

// OK reports whether no problems were found.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// Verify re-reads a dataset tree written by FS and checks it: the manifest
// parses, every label file parses and has a matching image, every class
// index is in range, and every box lies inside the frame.
//
// An error is returned only when the tree cannot be read at all; content
// problems are collected in the report.
func Verify(root string) (*Report, error) {
	classes, err := ReadManifest(filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, err
	}

	report := &Report{Classes: classes}
	for _, split := range dataset.Splits {
		sr, problems, err := verifySplit(root, split, len(classes))
		if err != nil {
			return nil, err
		}
		report.Splits = append(report.Splits, sr)
		report.Problems = append(report.Problems, problems...)
	}
	return report, nil
}

func verifySplit(root string, split dataset.Split, numClasses int) (SplitReport, []string, error) {
	sr := SplitReport{Split: split}
	var problems []string

	labelDir := filepath.Join(root, "labels", string(split))
	imageDir := filepath.Join(root, "images", string(split))

	images, err := os.ReadDir(imageDir)
	if err != nil {
		return sr, nil, fmt.Errorf("read %s: %w", imageDir, err)
	}
	imageIDs := make(map[string]bool, len(images))
	for _, e := range images {
		if e.Type().IsRegular() {
			name := e.Name()
			imageIDs[strings.TrimSuffix(name, filepath.Ext(name))] = true
		}
	}

	labels, err := os.ReadDir(labelDir)
	if err != nil {
		return sr, nil, fmt.Errorf("read %s: %w", labelDir, err)
	}

	for _, e := range labels {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".txt")
		sr.Samples++

		if !imageIDs[id] {
			problems = append(problems, fmt.Sprintf("%s/%s: label without image", split, id))
		}
		delete(imageIDs, id)

		f, err := os.Open(filepath.Join(labelDir, e.Name()))
		if err != nil {
			return sr, nil, fmt.Errorf("open label: %w", err)
		}
		parsed, err := dataset.ParseLabels(f)
		f.Close()
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s/%s: %v", split, id, err))
			continue
		}

		for i, l := range parsed {
			sr.Boxes++
			if l.ClassIndex < 0 || l.ClassIndex >= numClasses {
				problems = append(problems, fmt.Sprintf("%s/%s line %d: class %d out of range [0,%d)",
					split, id, i+1, l.ClassIndex, numClasses))
			}
			if !boxInFrame(l.Box) {
				problems = append(problems, fmt.Sprintf("%s/%s line %d: box %+v outside frame",
					split, id, i+1, l.Box))
			}
		}
	}

	for id := range imageIDs {
		problems = append(problems, fmt.Sprintf("%s/%s: image without label", split, id))
	}
	return sr, problems, nil
}

func boxInFrame(b dataset.BoundingBox) bool {
	for _, v := range []float64{b.XCenter, b.YCenter, b.Width, b.Height} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return b.XCenter-b.Width/2 >= -boxTolerance &&
		b.XCenter+b.Width/2 <= 1+boxTolerance &&
		b.YCenter-b.Height/2 >= -boxTolerance &&
		b.YCenter+b.Height/2 <= 1+boxTolerance
}
