// rtrace renders a scene JSON file to a PNG image.
//
// Usage:
//
//	rtrace [options] <scene.json> <output.png>
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gazed/rtracer/config"
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/render"
	"github.com/gazed/rtracer/scene"
)

var (
	diagonal = flag.Int("size", config.Defaults.Diagonal, "diagonal image size in pixels")
	depth    = flag.Int("depth", config.Defaults.MaxDepth, "max reflection bounce depth")
	samples  = flag.Int("samples", config.Defaults.Samples, "anti-aliasing samples per pixel")
	mode     = flag.String("aa", "no-jitter", "anti-aliasing mode: no-jitter|stochastic|quincunx")
	seed     = flag.Uint64("seed", 0, "base seed for deterministic sampling")
	workers  = flag.Int("workers", 0, "worker goroutines, 0 means number of CPUs")
	progress = flag.Bool("progress", false, "log render progress")

	outline          = flag.Bool("outline", false, "enable screen-space outline post-pass")
	outlineWDepth    = flag.Float64("outline-weight-depth", config.Defaults.OutlineWeightDepth, "outline depth-discontinuity weight")
	outlineWNormal   = flag.Float64("outline-weight-normal", config.Defaults.OutlineWeightNormal, "outline normal-discontinuity weight")
	outlineThreshold = flag.Float64("outline-threshold", config.Defaults.OutlineThreshold, "outline edge threshold")
	outlineThickness = flag.Float64("outline-thickness", config.Defaults.OutlineThickness, "outline line thickness in pixels")
	outlineNeighbors = flag.Int("outline-neighbors", config.Defaults.OutlineNeighbors, "outline neighborhood size: 4 or 8")
	outlineEdgeColor = flag.String("outline-edge-color", "#000000", "outline line color, #RRGGBB")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rtrace - ray trace a scene JSON file to PNG\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rtrace [options] <scene.json> <output.png>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "rtrace: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	aaMode, err := config.ParseMode(*mode)
	if err != nil {
		return err
	}
	if *samples == 0 {
		return fmt.Errorf("samples must be >= 1")
	}
	if *outlineNeighbors != 4 && *outlineNeighbors != 8 {
		return fmt.Errorf("outline-neighbors must be 4 or 8")
	}

	cfg := config.New(inputPath, outputPath,
		config.Size(*diagonal),
		config.Depth(*depth),
		config.SamplesPerPixel(*samples),
		config.Sampling(aaMode),
		config.RandomSeed(*seed),
		config.WorkerCount(*workers),
	)
	if *outline {
		edgeColor, err := math3d.ParseHexColor(*outlineEdgeColor)
		if err != nil {
			return fmt.Errorf("outline-edge-color: %w", err)
		}
		cfg.Outline = true
		cfg.OutlineWeightDepth = *outlineWDepth
		cfg.OutlineWeightNormal = *outlineWNormal
		cfg.OutlineThreshold = *outlineThreshold
		cfg.OutlineThickness = *outlineThickness
		cfg.OutlineNeighbors = *outlineNeighbors
		cfg.OutlineEdgeColor = edgeColor
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("reading scene: %w", err)
	}
	doc, err := scene.Parse(data)
	if err != nil {
		return err
	}

	sc, err := scene.Build(doc, filepath.Dir(cfg.InputPath))
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	width, height := scene.DiagonalSize(float64(cfg.Diagonal), sc.Camera.Aspect)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("computed non-positive image size (%d x %d)", width, height)
	}

	opts := render.Options{
		Width: width, Height: height,
		Samples: cfg.Samples, Mode: cfg.Mode, Seed: cfg.Seed,
		MaxDepth: cfg.MaxDepth, Workers: cfg.Workers, Progress: *progress,
		Logger: slog.Default(),
	}
	if cfg.Outline {
		opts.Outline = render.OutlineOptions{
			Enabled:       true,
			WeightDepth:   cfg.OutlineWeightDepth,
			WeightNormal:  cfg.OutlineWeightNormal,
			Threshold:     cfg.OutlineThreshold,
			LineThickness: cfg.OutlineThickness,
			EdgeColor:     cfg.OutlineEdgeColor,
			Neighbors:     cfg.OutlineNeighbors,
		}
	}

	img, err := render.Render(sc, opts)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if err := render.WritePNG(img, cfg.OutputPath); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

