// Package pipeline drives a complete dataset generation run: load the
// canvas and icon pool, generate the train and val splits, write the class
// manifest and archive the result.
package pipeline

import (
	"context"
	"image/color"
	"math/rand/v2"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/icon-dataset-synth/internal/config"
	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
	"github.com/ironsheep/icon-dataset-synth/internal/imaging"
	"github.com/ironsheep/icon-dataset-synth/internal/storage"
)

// Result summarizes a finished run.
type Result struct {
	Seed    uint64
	Classes []string
	Train   int
	Val     int
	Archive string // empty when archiving was skipped
	Elapsed time.Duration
}

// Pipeline holds the state of one run. It is not reusable.
type Pipeline struct {
	cfg   *config.Config
	log   *zap.Logger
	cache *imaging.ImageCache
	sink  storage.Sink

	stage   Stage
	table   *dataset.ClassTable
	gen     *dataset.Generator
	rng     *rand.Rand
	preview *imaging.Encoder
	palette []color.NRGBA
}

// New returns a pipeline for cfg. Samples go to an FS sink rooted at
// cfg.Output unless WithSink supplies another one.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:   cfg,
		log:   log,
		cache: imaging.NewImageCache(),
		stage: StageInit,
	}
}

// WithSink replaces the on-disk dataset writer. Archiving is skipped for
// sinks other than *storage.FS.
func (p *Pipeline) WithSink(s storage.Sink) *Pipeline {
	p.sink = s
	return p
}

// Stage returns the stage the run is in, or failed in.
func (p *Pipeline) Stage() Stage { return p.stage }

// Run executes every stage in order. On failure it returns a *StageError
// naming the stage; the output directory is then in an undefined state.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	steps := []struct {
		stage Stage
		run   func(context.Context, *Result) error
	}{
		{StageInit, p.init},
		{StageBuildRegistry, p.buildRegistry},
		{StagePrepareOutput, p.prepareOutput},
		{StageGenerateTrain, func(ctx context.Context, r *Result) error {
			return p.generateSplit(ctx, dataset.Train, r.Train)
		}},
		{StageGenerateVal, func(ctx context.Context, r *Result) error {
			return p.generateSplit(ctx, dataset.Val, r.Val)
		}},
		{StageWriteManifest, p.writeManifest},
		{StageArchive, p.archive},
	}

	for _, step := range steps {
		p.stage = step.stage
		p.log.Info("stage", zap.String("stage", string(step.stage)))
		if err := step.run(ctx, res); err != nil {
			p.log.Error("run failed", zap.String("stage", string(step.stage)), zap.Error(err))
			return nil, &StageError{Stage: step.stage, Err: err}
		}
	}

	p.stage = StageDone
	res.Elapsed = time.Since(start)
	p.log.Info("dataset complete",
		zap.Int("train", res.Train),
		zap.Int("val", res.Val),
		zap.Int("classes", len(res.Classes)),
		zap.String("archive", res.Archive),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (p *Pipeline) init(_ context.Context, res *Result) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}

	train, val, err := dataset.SplitCounts(p.cfg.Count, p.cfg.ValSplit)
	if err != nil {
		return err
	}
	res.Train, res.Val = train, val

	seed := p.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	res.Seed = seed
	p.rng = newRand(seed)

	if p.cfg.PreviewDir != "" {
		enc, err := imaging.NewEncoder(imaging.FormatPNG, 0)
		if err != nil {
			return err
		}
		p.preview = enc
	}

	p.log.Info("starting run",
		zap.Uint64("seed", seed),
		zap.Int("train", train),
		zap.Int("val", val),
		zap.Int("workers", p.cfg.Workers))
	return nil
}

func (p *Pipeline) buildRegistry(_ context.Context, res *Result) error {
	canvasInfo, err := imaging.Describe(p.cache, p.cfg.Background)
	if err != nil {
		return &dataset.ConfigError{Field: "background", Reason: err.Error()}
	}
	canvas, err := p.cache.Load(p.cfg.Background)
	if err != nil {
		return err
	}
	// Fail before decoding any icon if the configured size cannot fit.
	if err := dataset.CheckFits(p.cfg.IconSize(), canvasInfo.Size()); err != nil {
		return err
	}

	files, err := dataset.ListIcons(p.cfg.IconsDir)
	if err != nil {
		return err
	}
	table, err := dataset.NewClassTable(files)
	if err != nil {
		return err
	}
	if len(files) < p.cfg.PerImage {
		return &dataset.InsufficientIconsError{Have: len(files), Want: p.cfg.PerImage}
	}

	icons, err := dataset.LoadIcons(p.cache, p.cfg.IconsDir, files, table, p.cfg.IconSize())
	if err != nil {
		return err
	}
	gen, err := dataset.NewGenerator(canvas, icons, p.cfg.PerImage)
	if err != nil {
		return err
	}

	p.table = table
	p.gen = gen
	if p.preview != nil {
		p.palette = imaging.Palette(table.Len())
	}
	res.Classes = table.Names()

	p.log.Info("registry built",
		zap.String("background", filepath.Base(p.cfg.Background)),
		zap.Int("canvas_width", canvasInfo.Width),
		zap.Int("canvas_height", canvasInfo.Height),
		zap.String("canvas_format", canvasInfo.Format),
		zap.Int("icons", len(icons)),
		zap.Int("classes", table.Len()))
	return nil
}

func (p *Pipeline) prepareOutput(_ context.Context, _ *Result) error {
	if p.sink != nil {
		return nil
	}
	enc, err := imaging.NewEncoder(p.cfg.Format, p.cfg.Quality)
	if err != nil {
		return &dataset.ConfigError{Field: "format", Reason: err.Error()}
	}
	sink, err := storage.NewFS(p.cfg.Output, enc, p.cfg.Overwrite)
	if err != nil {
		return err
	}
	p.sink = sink
	return nil
}

// generateSplit produces n samples for split. With one worker samples are
// made in order from the run RNG; otherwise each worker draws from its own
// RNG seeded from the run RNG, and the first failure cancels the rest.
func (p *Pipeline) generateSplit(ctx context.Context, split dataset.Split, n int) error {
	workers := min(p.cfg.Workers, n)
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := p.makeSample(ctx, p.rng, split, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		rng := newRand(p.rng.Uint64())
		g.Go(func() error {
			for i := range jobs {
				if err := p.makeSample(gctx, rng, split, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *Pipeline) makeSample(ctx context.Context, rng *rand.Rand, split dataset.Split, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := p.gen.Generate(rng, split)
	if err != nil {
		return &dataset.SampleError{Split: split, Index: i, Err: err}
	}
	if err := p.sink.WriteSample(ctx, s); err != nil {
		return &dataset.SampleError{Split: split, Index: i, Err: err}
	}
	if p.preview != nil {
		if err := p.writePreview(s); err != nil {
			return &dataset.SampleError{Split: split, Index: i, Err: err}
		}
	}

	p.log.Debug("created sample",
		zap.String("split", string(split)),
		zap.Int("index", i),
		zap.String("id", s.ID),
		zap.Int("boxes", len(s.Labels)))
	return nil
}

func (p *Pipeline) writePreview(s *dataset.Sample) error {
	boxes := make([]imaging.Box, len(s.Placements))
	for i, pl := range s.Placements {
		boxes[i] = imaging.Box{
			Rect:  pl.Rect(),
			Class: pl.ClassIndex,
			Label: p.table.Name(pl.ClassIndex),
		}
	}
	img := imaging.Preview(s.Image, boxes, p.palette)
	path := filepath.Join(p.cfg.PreviewDir, string(s.Split), s.ID+p.preview.Ext)
	return storage.WriteImage(path, p.preview, img)
}

func (p *Pipeline) writeManifest(_ context.Context, _ *Result) error {
	return p.sink.WriteManifest(p.table)
}

func (p *Pipeline) archive(_ context.Context, res *Result) error {
	defer p.cache.Clear()

	fsSink, ok := p.sink.(*storage.FS)
	if !p.cfg.Archive || !ok {
		p.log.Info("archive skipped")
		return nil
	}

	dest := storage.ArchivePath(fsSink.Root)
	n, err := storage.Archive(fsSink.Root, dest)
	if err != nil {
		return err
	}
	res.Archive = dest
	p.log.Info("archived dataset", zap.String("path", dest), zap.Int("files", n))
	return nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
