package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Background = "bg.jpg"
	cfg.IconsDir = "icons"
	return cfg
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output != "train_data" {
		t.Errorf("Output = %s, want train_data", cfg.Output)
	}
	if cfg.Count != 10 || cfg.ValSplit != 0.2 {
		t.Errorf("Count/ValSplit = %d/%v, want 10/0.2", cfg.Count, cfg.ValSplit)
	}
	if cfg.IconSize().X != 50 || cfg.IconSize().Y != 50 {
		t.Errorf("IconSize = %v, want 50x50", cfg.IconSize())
	}
	if cfg.PerImage != dataset.DefaultIconsPerImage {
		t.Errorf("PerImage = %d, want %d", cfg.PerImage, dataset.DefaultIconsPerImage)
	}
	if !cfg.Archive || cfg.Overwrite {
		t.Error("defaults should archive and not overwrite")
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, `
background: assets/map.jpg
icons: assets/icons
count: 250
val_split: 0.1
icon_width: 32
format: png
archive: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Background != "assets/map.jpg" || cfg.IconsDir != "assets/icons" {
		t.Errorf("paths = %s, %s", cfg.Background, cfg.IconsDir)
	}
	if cfg.Count != 250 || cfg.ValSplit != 0.1 {
		t.Errorf("Count/ValSplit = %d/%v, want 250/0.1", cfg.Count, cfg.ValSplit)
	}
	if cfg.IconWidth != 32 || cfg.IconHeight != 50 {
		t.Errorf("icon size = %dx%d, want 32x50", cfg.IconWidth, cfg.IconHeight)
	}
	if cfg.Format != "png" || cfg.Archive {
		t.Errorf("Format/Archive = %s/%v, want png/false", cfg.Format, cfg.Archive)
	}
	// Untouched keys keep their defaults.
	if cfg.Output != "train_data" {
		t.Errorf("Output = %s, want default", cfg.Output)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := Load(writeYAML(t, "count: [1, 2")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "count: 250\nseed: 7\n")
	t.Setenv("ICON_SYNTH_COUNT", "42")
	t.Setenv("ICON_SYNTH_OVERWRITE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Count != 42 {
		t.Errorf("Count = %d, want 42 from env", cfg.Count)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7 from file", cfg.Seed)
	}
	if !cfg.Overwrite {
		t.Error("Overwrite should be set from env")
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("ICON_SYNTH_COUNT", "lots")
	if _, err := Load(""); err == nil {
		t.Error("non-numeric count should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"missing background", func(c *Config) { c.Background = "" }, "background"},
		{"missing icons", func(c *Config) { c.IconsDir = "" }, "icons"},
		{"missing output", func(c *Config) { c.Output = "" }, "output"},
		{"negative count", func(c *Config) { c.Count = -1 }, "count"},
		{"split above one", func(c *Config) { c.ValSplit = 1.5 }, "val_split"},
		{"zero icon width", func(c *Config) { c.IconWidth = 0 }, "icon_size"},
		{"zero per image", func(c *Config) { c.PerImage = 0 }, "per_image"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"unknown format", func(c *Config) { c.Format = "gif" }, "format"},
		{"bad quality", func(c *Config) { c.Quality = 0 }, "format"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, dataset.ErrConfig) {
				t.Fatalf("Validate = %v, want ErrConfig", err)
			}
			var ce *dataset.ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("field = %v, want %s", ce, tt.field)
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	cfg.Count = 0
	cfg.ValSplit = 1
	cfg.Format = "png"
	cfg.Quality = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("edge values should validate: %v", err)
	}
}

func TestSizeValue(t *testing.T) {
	var w, h int
	s := sizeValue{&w, &h}

	if err := s.Set("64x32"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if w != 64 || h != 32 {
		t.Errorf("got %dx%d, want 64x32", w, h)
	}
	if s.String() != "64x32" {
		t.Errorf("String = %s", s.String())
	}
	if err := s.Set("20X10"); err != nil || w != 20 || h != 10 {
		t.Errorf("upper-case X: %v, %dx%d", err, w, h)
	}

	for _, bad := range []string{"64", "x32", "64x", "ax b"} {
		if err := s.Set(bad); err == nil {
			t.Errorf("Set(%q) should fail", bad)
		}
	}
}

func TestParseArgs(t *testing.T) {
	path := writeYAML(t, "background: file.jpg\ncount: 250\nworkers: 2\n")
	t.Setenv("ICON_SYNTH_WORKERS", "3")

	cfg, err := ParseArgs([]string{
		"-config", path,
		"-icons", "sprites",
		"-icon-size", "40x30",
		"-workers", "8",
		"-no-archive",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}

	if cfg.Background != "file.jpg" || cfg.Count != 250 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.IconsDir != "sprites" {
		t.Errorf("IconsDir = %s, want sprites", cfg.IconsDir)
	}
	if cfg.IconWidth != 40 || cfg.IconHeight != 30 {
		t.Errorf("icon size = %dx%d, want 40x30", cfg.IconWidth, cfg.IconHeight)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8 from flag over env and file", cfg.Workers)
	}
	if cfg.Archive {
		t.Error("-no-archive should disable archiving")
	}
}

func TestParseArgs_UnsetFlagsKeepLowerLayers(t *testing.T) {
	t.Setenv("ICON_SYNTH_COUNT", "77")

	cfg, err := ParseArgs([]string{"-background", "bg.png"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if cfg.Count != 77 {
		t.Errorf("Count = %d, want 77 from env", cfg.Count)
	}
	if !cfg.Archive {
		t.Error("Archive should stay on without -no-archive")
	}
}

func TestParseArgs_Errors(t *testing.T) {
	if _, err := ParseArgs([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h: got %v, want flag.ErrHelp", err)
	}
	if _, err := ParseArgs([]string{"-count", "many"}, io.Discard); err == nil {
		t.Error("bad -count should fail")
	}
	if _, err := ParseArgs([]string{"extra"}, io.Discard); err == nil {
		t.Error("positional arguments should fail")
	}
}
