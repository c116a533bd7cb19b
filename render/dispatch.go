// Package render drives the parallel pixel dispatcher, the optional
// outline post-pass, and PNG encoding (spec.md §4.9, §5, §6),
// generalized from the teacher's eg/rt.go rayTrace()/worker() channel
// + sync.WaitGroup pool (row-granularity there, pixel-granularity here
// since the quincunx corner cache needs per-pixel scheduling).
package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/sampler"
	"github.com/gazed/rtracer/shade"
)

// Options configures a render pass.
type Options struct {
	Width, Height int
	Samples       int
	Mode          sampler.Mode
	Seed          uint64
	MaxDepth      int
	Workers       int // 0 means runtime.NumCPU()
	Outline       OutlineOptions
	Progress      bool
	Logger        *slog.Logger
}

type pixelJob struct{ x, y int }

// Render runs the full pixel map over scene and returns the resulting
// image, applying the outline post-pass if enabled (spec.md §5
// "Scheduling model").
func Render(scene *shade.Scene, opts Options) (*image.NRGBA, error) {
	if opts.Samples == 0 {
		return nil, fmt.Errorf("render: samples must be >= 1 (got 0)")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	var hasHit []bool
	var depths []float64
	var normals []math3d.Vec3
	if opts.Outline.Enabled {
		n := opts.Width * opts.Height
		hasHit = make([]bool, n)
		depths = make([]float64, n)
		normals = make([]math3d.Vec3, n)
	}

	var corners *sampler.CornerCache
	if opts.Mode == sampler.Quincunx {
		corners = sampler.NewCornerCache()
	}

	jobs := make(chan pixelJob, opts.Height)
	var wg sync.WaitGroup
	wg.Add(workers)

	var done int64
	total := int64(opts.Width * opts.Height)
	var progressMu sync.Mutex

	start := time.Now()
	logger.Info("render starting",
		"width", opts.Width, "height", opts.Height,
		"samples", opts.Samples, "workers", workers, "mode", modeName(opts.Mode))

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				x, y := job.x, job.y
				shadeFn := func(u, v float64, seed uint64) math3d.Color {
					ray := scene.Camera.Ray(u, v)
					return shade.RayColor(ray, scene, maxDepth, seed)
				}
				c := sampler.Pixel(opts.Mode, x, y, opts.Width, opts.Height, opts.Samples, opts.Seed, corners, shadeFn)
				setPixel(img, x, y, c)

				if opts.Outline.Enabled {
					idx := y*opts.Width + x
					u, v := sampler.UV(sampler.NoJitter, x, y, opts.Width, opts.Height)
					ray := scene.Camera.Ray(u, v)
					if rec, ok := scene.World.Hit(ray, 0.001, 1e18); ok {
						hasHit[idx] = true
						depths[idx] = scene.CameraPos.Sub(rec.Point).Len()
						normals[idx] = rec.Normal
					}
				}

				if opts.Progress {
					n := atomic.AddInt64(&done, 1)
					if n%int64(opts.Width) == 0 {
						progressMu.Lock()
						logger.Info("render progress", "pixels", n, "total", total)
						progressMu.Unlock()
					}
				}
			}
		}()
	}

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			jobs <- pixelJob{x, y}
		}
	}
	close(jobs)
	wg.Wait()

	if opts.Outline.Enabled {
		applyOutline(img, depths, hasHit, normals, opts.Width, opts.Height, opts.Outline)
	}

	logger.Info("render complete", "elapsed", time.Since(start).String())
	return img, nil
}

func modeName(m sampler.Mode) string {
	switch m {
	case sampler.NoJitter:
		return "no-jitter"
	case sampler.Quincunx:
		return "quincunx"
	default:
		return "stochastic"
	}
}

func setPixel(img *image.NRGBA, x, y int, c math3d.Color) {
	img.SetNRGBA(x, y, color.NRGBA{
		R: toByte(c.X), G: toByte(c.Y), B: toByte(c.Z), A: 255,
	})
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
