package storage

import (
	"context"
	"sync"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
)

// Memory is a Sink that keeps samples and the manifest in memory.
type Memory struct {
	mu      sync.Mutex
	samples []*dataset.Sample
	classes []string
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) WriteSample(ctx context.Context, s *dataset.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.mu.Unlock()
	return nil
}

func (m *Memory) WriteManifest(table *dataset.ClassTable) error {
	m.mu.Lock()
	m.classes = table.Names()
	m.mu.Unlock()
	return nil
}

// Samples returns the samples written so far, optionally filtered by split.
// Pass an empty split for all of them.
func (m *Memory) Samples(split dataset.Split) []*dataset.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*dataset.Sample, 0, len(m.samples))
	for _, s := range m.samples {
		if split == "" || s.Split == split {
			out = append(out, s)
		}
	}
	return out
}

// Classes returns the manifest class names, or nil if none was written.
func (m *Memory) Classes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classes
}
