package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// iconExtensions are matched case-sensitively against the file name suffix.
var iconExtensions = []string{".png", ".jpg", ".jpeg"}

// IsIconFile reports whether name carries one of the accepted icon
// extensions. Matching is case-sensitive, so "A.PNG" is not an icon.
func IsIconFile(name string) bool {
	for _, ext := range iconExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ClassNameFromFile strips the directory and the last extension from an
// icon file name: "icons/dragon.v2.png" -> "dragon.v2".
func ClassNameFromFile(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListIcons returns the eligible icon file names in dir, sorted by name.
//
// Directories are skipped even if their names end in an icon extension.
// Returns an error wrapping ErrEmptyIconSet when nothing qualifies.
func ListIcons(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read icons folder: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsIconFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrEmptyIconSet)
	}

	sort.Strings(files)
	return files, nil
}

// ClassTable maps class names to contiguous 0-based indices.
//
// Names are sorted lexicographically, so the table depends only on the set
// of icon names and never on directory enumeration order. Two files with the
// same stem ("bat.png", "bat.jpg") share one class.
type ClassTable struct {
	names []string
	index map[string]int
}

// NewClassTable derives the class table from icon file names.
func NewClassTable(files []string) (*ClassTable, error) {
	if len(files) == 0 {
		return nil, ErrEmptyIconSet
	}

	seen := make(map[string]struct{}, len(files))
	names := make([]string, 0, len(files))
	for _, f := range files {
		name := ClassNameFromFile(f)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return &ClassTable{names: names, index: index}, nil
}

// Len returns the number of classes.
func (t *ClassTable) Len() int { return len(t.names) }

// Index returns the class index for name.
func (t *ClassTable) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Name returns the class name at index i.
func (t *ClassTable) Name(i int) string { return t.names[i] }

// Names returns a copy of the class names in index order.
func (t *ClassTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
