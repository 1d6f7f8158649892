package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
)

// manifest is the on-disk shape of classes.txt:
//
//	names:
//	  0: archer
//	  1: bat
type manifest struct {
	Names map[int]string `yaml:"names"`
}

// EncodeManifest renders the class table as manifest YAML.
func EncodeManifest(table *dataset.ClassTable) ([]byte, error) {
	m := manifest{Names: make(map[int]string, table.Len())}
	for i, name := range table.Names() {
		m.Names[i] = name
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteManifest writes classes.txt into root.
func WriteManifest(root string, table *dataset.ClassTable) error {
	data, err := EncodeManifest(table)
	if err != nil {
		return err
	}

	path := filepath.Join(root, ManifestFile)
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &dataset.WriteError{Path: path, Err: err}
	}
	return nil
}

// ReadManifest parses a classes.txt file and returns the class names in
// index order. Indices must be contiguous from 0.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	names := make([]string, len(m.Names))
	for i := range names {
		name, ok := m.Names[i]
		if !ok {
			return nil, fmt.Errorf("parse manifest %s: class index %d missing", path, i)
		}
		names[i] = name
	}
	return names, nil
}
