package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// sizeValue parses "WxH" into two ints.
type sizeValue struct {
	w, h *int
}

func (s sizeValue) String() string {
	if s.w == nil || s.h == nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", *s.w, *s.h)
}

func (s sizeValue) Set(v string) error {
	ws, hs, ok := strings.Cut(strings.ToLower(v), "x")
	if !ok {
		return fmt.Errorf("size %q: want WxH", v)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return fmt.Errorf("size %q: bad width: %w", v, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return fmt.Errorf("size %q: bad height: %w", v, err)
	}
	*s.w, *s.h = w, h
	return nil
}

// ParseArgs parses the generate command's flags and returns the merged
// configuration: flags that were set explicitly override the YAML file
// named by -config and the environment.
func ParseArgs(args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(output)

	configPath := fs.String("config", "", "YAML config file")
	fl := Default()
	fs.StringVar(&fl.Background, "background", fl.Background, "background image path")
	fs.StringVar(&fl.IconsDir, "icons", fl.IconsDir, "folder of icon images (.png, .jpg, .jpeg)")
	fs.StringVar(&fl.Output, "output", fl.Output, "output dataset folder")
	fs.IntVar(&fl.Count, "count", fl.Count, "total number of images to generate")
	fs.Float64Var(&fl.ValSplit, "val-split", fl.ValSplit, "fraction of images for validation (0..1)")
	fs.Var(sizeValue{&fl.IconWidth, &fl.IconHeight}, "icon-size", "icon size as WxH")
	fs.IntVar(&fl.PerImage, "per-image", fl.PerImage, "distinct icons per image")
	fs.IntVar(&fl.Workers, "workers", fl.Workers, "parallel sample generators")
	fs.Uint64Var(&fl.Seed, "seed", fl.Seed, "random seed (0 = random)")
	fs.StringVar(&fl.Format, "format", fl.Format, "output image format: jpg or png")
	fs.IntVar(&fl.Quality, "quality", fl.Quality, "JPEG quality (1-100)")
	fs.BoolVar(&fl.Overwrite, "overwrite", fl.Overwrite, "remove an existing output folder first")
	noArchive := fs.Bool("no-archive", false, "skip writing <output>.zip")
	fs.StringVar(&fl.PreviewDir, "preview", fl.PreviewDir, "also write annotated previews into this folder")
	fs.StringVar(&fl.LogLevel, "log-level", fl.LogLevel, "debug, info, warn or error")
	fs.StringVar(&fl.LogFormat, "log-format", fl.LogFormat, "console or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg, err := Load(*configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "background":
			cfg.Background = fl.Background
		case "icons":
			cfg.IconsDir = fl.IconsDir
		case "output":
			cfg.Output = fl.Output
		case "count":
			cfg.Count = fl.Count
		case "val-split":
			cfg.ValSplit = fl.ValSplit
		case "icon-size":
			cfg.IconWidth, cfg.IconHeight = fl.IconWidth, fl.IconHeight
		case "per-image":
			cfg.PerImage = fl.PerImage
		case "workers":
			cfg.Workers = fl.Workers
		case "seed":
			cfg.Seed = fl.Seed
		case "format":
			cfg.Format = fl.Format
		case "quality":
			cfg.Quality = fl.Quality
		case "overwrite":
			cfg.Overwrite = fl.Overwrite
		case "no-archive":
			cfg.Archive = !*noArchive
		case "preview":
			cfg.PreviewDir = fl.PreviewDir
		case "log-level":
			cfg.LogLevel = fl.LogLevel
		case "log-format":
			cfg.LogFormat = fl.LogFormat
		}
	})
	return cfg, nil
}
