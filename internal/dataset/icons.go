package dataset

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/ironsheep/icon-dataset-synth/internal/imaging"
)

// LoadIcons decodes every icon file in dir, resizes it to size and tags it
// with its class index from table.
//
// The decoded source is evicted from cache once resized; only the resized
// copy is kept, and it is never written to afterwards.
func LoadIcons(cache *imaging.ImageCache, dir string, files []string, table *ClassTable, size image.Point) ([]Icon, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, &ConfigError{Field: "icon_size", Reason: fmt.Sprintf("must be positive, got %dx%d", size.X, size.Y)}
	}

	icons := make([]Icon, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f)
		src, err := cache.Load(path)
		if err != nil {
			return nil, fmt.Errorf("icon %s: %w", f, err)
		}

		class := ClassNameFromFile(f)
		idx, ok := table.Index(class)
		if !ok {
			return nil, fmt.Errorf("icon %s: class %q missing from class table", f, class)
		}

		icons = append(icons, Icon{
			Class: class,
			Index: idx,
			Path:  path,
			Image: imaging.ResizeIcon(src, size),
		})
		cache.Evict(path)
	}
	return icons, nil
}
