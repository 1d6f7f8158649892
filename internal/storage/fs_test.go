package storage

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
	"github.com/ironsheep/icon-dataset-synth/internal/imaging"
)

func pngEncoder(t *testing.T) *imaging.Encoder {
	t.Helper()
	enc, err := imaging.NewEncoder(imaging.FormatPNG, 0)
	if err != nil {
		t.Fatal(err)
	}
	return enc
}

func testSample(id string, split dataset.Split) *dataset.Sample {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	img.SetNRGBA(50, 50, color.NRGBA{255, 0, 0, 255})

	return &dataset.Sample{
		ID:    id,
		Split: split,
		Image: img,
		Labels: []dataset.Label{
			{ClassIndex: 0, Box: dataset.BoundingBox{XCenter: 0.5, YCenter: 0.5, Width: 0.2, Height: 0.2}},
			{ClassIndex: 2, Box: dataset.BoundingBox{XCenter: 0.25, YCenter: 0.25, Width: 0.1, Height: 0.1}},
		},
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	return len(entries)
}

func TestNewFS_CreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "train_data")
	if _, err := NewFS(root, pngEncoder(t), false); err != nil {
		t.Fatalf("NewFS failed: %v", err)
	}

	for _, dir := range []string{"images/train", "images/val", "labels/train", "labels/val"} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil || !info.IsDir() {
			t.Errorf("%s missing: %v", dir, err)
		}
	}
}

func TestNewFS_ExistingOutput(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "stale.txt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFS(root, pngEncoder(t), false)
	if !errors.Is(err, dataset.ErrConfig) {
		t.Fatalf("non-empty output without overwrite: got %v, want ErrConfig", err)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Fatal("rejected run must not touch existing files")
	}

	if _, err := NewFS(root, pngEncoder(t), true); err != nil {
		t.Fatalf("NewFS with overwrite failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("overwrite should remove existing content")
	}
}

func TestNewFS_EmptyExistingDirIsFine(t *testing.T) {
	if _, err := NewFS(t.TempDir(), pngEncoder(t), false); err != nil {
		t.Errorf("empty existing dir should be accepted: %v", err)
	}
}

func TestNewFS_MissingArgs(t *testing.T) {
	if _, err := NewFS("", pngEncoder(t), false); !errors.Is(err, dataset.ErrConfig) {
		t.Errorf("empty root: got %v, want ErrConfig", err)
	}
	if _, err := NewFS(t.TempDir(), nil, false); !errors.Is(err, dataset.ErrConfig) {
		t.Errorf("nil encoder: got %v, want ErrConfig", err)
	}
}

func TestFS_WriteSample(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	fs, err := NewFS(root, pngEncoder(t), false)
	if err != nil {
		t.Fatal(err)
	}

	s := testSample("abc", dataset.Val)
	if err := fs.WriteSample(context.Background(), s); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}

	imgPath := filepath.Join(root, "images", "val", "abc.png")
	if fs.ImagePath(dataset.Val, "abc") != imgPath {
		t.Errorf("ImagePath = %s, want %s", fs.ImagePath(dataset.Val, "abc"), imgPath)
	}
	cache := imaging.NewImageCache()
	info, err := imaging.Describe(cache, imgPath)
	if err != nil {
		t.Fatalf("written image unreadable: %v", err)
	}
	if info.Width != 100 || info.Height != 100 {
		t.Errorf("image size %dx%d, want 100x100", info.Width, info.Height)
	}

	data, err := os.ReadFile(filepath.Join(root, "labels", "val", "abc.txt"))
	if err != nil {
		t.Fatalf("label unreadable: %v", err)
	}
	want := "0 0.5 0.5 0.2 0.2\n2 0.25 0.25 0.1 0.1"
	if string(data) != want {
		t.Errorf("label content = %q, want %q", data, want)
	}

	// No temp files left behind.
	if n := countFiles(t, filepath.Join(root, "images", "val")); n != 1 {
		t.Errorf("images/val holds %d files, want 1", n)
	}
	if n := countFiles(t, filepath.Join(root, "labels", "val")); n != 1 {
		t.Errorf("labels/val holds %d files, want 1", n)
	}
}

func TestFS_WriteSample_AllOrNothing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	fs, err := NewFS(root, pngEncoder(t), false)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteSample(context.Background(), testSample("first", dataset.Train)); err != nil {
		t.Fatal(err)
	}

	// Make the label directory unusable so the second sample fails half way.
	labelDir := filepath.Join(root, "labels", "train")
	if err := os.RemoveAll(labelDir); err != nil {
		t.Fatal(err)
	}

	err = fs.WriteSample(context.Background(), testSample("second", dataset.Train))
	if !errors.Is(err, dataset.ErrWrite) {
		t.Fatalf("error = %v, want ErrWrite", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "images", "train"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "first.png" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("images/train = %v, want only first.png", names)
	}
}

func TestFS_WriteSample_Cancelled(t *testing.T) {
	fs, err := NewFS(filepath.Join(t.TempDir(), "out"), pngEncoder(t), false)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := fs.WriteSample(ctx, testSample("x", dataset.Train)); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWriteImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "previews", "train", "p.png")
	if err := WriteImage(path, pngEncoder(t), testSample("p", dataset.Train).Image); err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}
	if n := countFiles(t, filepath.Dir(path)); n != 1 {
		t.Errorf("preview dir holds %d files, want 1", n)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, s := range []*dataset.Sample{
		testSample("a", dataset.Train),
		testSample("b", dataset.Val),
		testSample("c", dataset.Train),
	} {
		if err := m.WriteSample(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	if n := len(m.Samples(dataset.Train)); n != 2 {
		t.Errorf("train samples = %d, want 2", n)
	}
	if n := len(m.Samples("")); n != 3 {
		t.Errorf("all samples = %d, want 3", n)
	}

	table, _ := dataset.NewClassTable([]string{"b.png", "a.png"})
	if err := m.WriteManifest(table); err != nil {
		t.Fatal(err)
	}
	if got := m.Classes(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Classes = %v, want [a b]", got)
	}
}
