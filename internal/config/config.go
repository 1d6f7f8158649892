// Package config loads generator settings from defaults, an optional YAML
// file, ICON_SYNTH_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"image"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
	"github.com/ironsheep/icon-dataset-synth/internal/imaging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ICON_SYNTH_"

// Config holds every parameter of a generation run.
type Config struct {
	Background string `yaml:"background" env:"BACKGROUND"`
	IconsDir   string `yaml:"icons"      env:"ICONS"`
	Output     string `yaml:"output"     env:"OUTPUT"`

	Count      int     `yaml:"count"       env:"COUNT"`
	ValSplit   float64 `yaml:"val_split"   env:"VAL_SPLIT"`
	IconWidth  int     `yaml:"icon_width"  env:"ICON_WIDTH"`
	IconHeight int     `yaml:"icon_height" env:"ICON_HEIGHT"`
	PerImage   int     `yaml:"per_image"   env:"PER_IMAGE"`

	Workers int    `yaml:"workers" env:"WORKERS"`
	Seed    uint64 `yaml:"seed"    env:"SEED"` // 0 picks a random seed

	Format  string `yaml:"format"  env:"FORMAT"` // jpg | png
	Quality int    `yaml:"quality" env:"QUALITY"`

	Overwrite  bool   `yaml:"overwrite"   env:"OVERWRITE"`
	Archive    bool   `yaml:"archive"     env:"ARCHIVE"`
	PreviewDir string `yaml:"preview_dir" env:"PREVIEW_DIR"`

	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"` // console | json
}

// Default returns the settings used when nothing else is specified.
func Default() *Config {
	return &Config{
		Output:     "train_data",
		Count:      10,
		ValSplit:   0.2,
		IconWidth:  50,
		IconHeight: 50,
		PerImage:   dataset.DefaultIconsPerImage,
		Workers:    1,
		Format:     imaging.FormatJPEG,
		Quality:    95,
		Archive:    true,
		LogLevel:   "info",
		LogFormat:  "console",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IconSize returns the target sprite size.
func (c *Config) IconSize() image.Point {
	return image.Pt(c.IconWidth, c.IconHeight)
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Background == "" {
		return &dataset.ConfigError{Field: "background", Reason: "path is required"}
	}
	if c.IconsDir == "" {
		return &dataset.ConfigError{Field: "icons", Reason: "path is required"}
	}
	if c.Output == "" {
		return &dataset.ConfigError{Field: "output", Reason: "path is required"}
	}
	if _, _, err := dataset.SplitCounts(c.Count, c.ValSplit); err != nil {
		return err
	}
	if c.IconWidth <= 0 || c.IconHeight <= 0 {
		return &dataset.ConfigError{Field: "icon_size", Reason: fmt.Sprintf("must be positive, got %dx%d", c.IconWidth, c.IconHeight)}
	}
	if c.PerImage < 1 {
		return &dataset.ConfigError{Field: "per_image", Reason: fmt.Sprintf("must be >= 1, got %d", c.PerImage)}
	}
	if c.Workers < 1 {
		return &dataset.ConfigError{Field: "workers", Reason: fmt.Sprintf("must be >= 1, got %d", c.Workers)}
	}
	if _, err := imaging.NewEncoder(c.Format, c.Quality); err != nil {
		return &dataset.ConfigError{Field: "format", Reason: err.Error()}
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return &dataset.ConfigError{Field: "log_format", Reason: fmt.Sprintf("unsupported %q (use console or json)", c.LogFormat)}
	}
	return nil
}
