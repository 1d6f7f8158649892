package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/icon-dataset-synth/internal/config"
	"github.com/ironsheep/icon-dataset-synth/internal/logging"
	"github.com/ironsheep/icon-dataset-synth/internal/pipeline"
	"github.com/ironsheep/icon-dataset-synth/internal/storage"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "generate"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	} else if len(args) > 0 {
		switch args[0] {
		case "--version", "-v":
			cmd, args = "version", args[1:]
		case "--help", "-h":
			cmd, args = "help", args[1:]
		}
	}

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "icon-dataset-synth %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "help":
		printUsage(stdout)
		return 0
	case "generate":
		return runGenerate(args, stderr)
	case "verify":
		return runVerify(args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "icon-dataset-synth - synthetic object-detection dataset generator")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  icon-dataset-synth [generate] [flags]   build a dataset")
	fmt.Fprintln(w, "  icon-dataset-synth verify <dir>         check a built dataset")
	fmt.Fprintln(w, "  icon-dataset-synth --version            print version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'icon-dataset-synth generate -h' for generate flags.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s<SETTING>   any config key, e.g. %sCOUNT=250 %sLOG_LEVEL=debug\n",
		config.EnvPrefix, config.EnvPrefix, config.EnvPrefix)
}

func runGenerate(args []string, stderr io.Writer) int {
	cfg, err := config.ParseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("icon-dataset-synth",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.New(cfg, logger).Run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("done",
		zap.String("output", cfg.Output),
		zap.Uint64("seed", res.Seed),
		zap.Int("train", res.Train),
		zap.Int("val", res.Val))
	return 0
}

func runVerify(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: icon-dataset-synth verify <dir>")
		return 2
	}

	report, err := storage.Verify(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "classes: %d\n", len(report.Classes))
	for _, s := range report.Splits {
		fmt.Fprintf(stdout, "%-5s  samples: %d  boxes: %d\n", s.Split, s.Samples, s.Boxes)
	}
	for _, p := range report.Problems {
		fmt.Fprintf(stdout, "problem: %s\n", p)
	}
	if !report.OK() {
		return 1
	}
	return 0
}
