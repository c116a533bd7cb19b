// Package sampler implements the three anti-aliasing modes and the
// deterministic per-pixel/per-sample RNG seeding that makes the final
// image independent of worker thread count (spec.md §4.8, §5).
package sampler

import (
	"math"
	"sync"

	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/rng"
)

// Mode selects an anti-aliasing strategy.
type Mode int

const (
	NoJitter Mode = iota
	Stochastic
	Quincunx
)

// PixelSeed derives the per-pixel RNG seed from the global seed and
// pixel coordinates via the avalanche mixer (spec.md §4.8
// "Per-pixel seeding").
func PixelSeed(globalSeed uint64, x, y int) uint64 {
	h := rng.Mix(globalSeed, uint64(uint32(x)))
	h = rng.Mix(h, uint64(uint32(y)))
	return h
}

// SampleSeed derives a per-sample seed from a pixel seed and sample
// index by one further mixing step (spec.md §4.8).
func SampleSeed(pixelSeed uint64, sampleIndex int) uint64 {
	return rng.Mix(pixelSeed, uint64(uint32(sampleIndex)))
}

// UV returns a sample's base (u,v) coordinate in [0,1]^2 for a W x H
// image, per mode's pixel-to-viewport mapping (spec.md §4.8
// "Pixel-to-viewport mapping").
func UV(mode Mode, x, y, width, height int) (u, v float64) {
	if mode == Quincunx {
		return (float64(x) + 0.5) / float64(width), 1 - (float64(y)+0.5)/float64(height)
	}
	u = float64(x) / float64(width-1)
	v = float64(height-1-y) / float64(height-1)
	return u, v
}

// pixelStep is the size in UV space of one pixel, used to convert
// sub-pixel jitter (expressed in pixel units) into UV offsets.
func pixelStep(width, height int) (du, dv float64) {
	return 1 / float64(width), 1 / float64(height)
}

// RayColorFunc shades a ray to a color; render supplies this so
// sampler has no dependency on the shader.
type RayColorFunc func(u, v float64, seed uint64) math3d.Color

// CornerCache memoizes quincunx corner samples, shared by all pixels
// in a row/column, guarded by a single mutex (spec.md §5 "the
// quincunx corner cache, a shared associative map guarded by a single
// mutual-exclusion lock").
type CornerCache struct {
	mu    sync.Mutex
	cache map[[2]int]math3d.Color
}

// NewCornerCache returns an empty cache.
func NewCornerCache() *CornerCache {
	return &CornerCache{cache: make(map[[2]int]math3d.Color)}
}

func (c *CornerCache) get(gx, gy int, compute func() math3d.Color) math3d.Color {
	key := [2]int{gx, gy}
	c.mu.Lock()
	if v, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	c.cache[key] = v
	c.mu.Unlock()
	return v
}

// Pixel computes the anti-aliased color for pixel (x,y) in a width x
// height image, given globalSeed, the sample count (Stochastic only)
// and shade, the ray-color callback. corners is required (non-nil)
// for Quincunx mode and ignored otherwise.
func Pixel(mode Mode, x, y, width, height, samples int, globalSeed uint64, corners *CornerCache, shade RayColorFunc) math3d.Color {
	switch mode {
	case NoJitter:
		u, v := UV(mode, x, y, width, height)
		return shade(u, v, PixelSeed(globalSeed, x, y))
	case Quincunx:
		return quincunxPixel(x, y, width, height, globalSeed, corners, shade)
	default:
		return stochasticPixel(x, y, width, height, samples, globalSeed, shade)
	}
}

func stochasticPixel(x, y, width, height, samples int, globalSeed uint64, shade RayColorFunc) math3d.Color {
	pixelSeed := PixelSeed(globalSeed, x, y)
	du, dv := pixelStep(width, height)
	baseU, baseV := UV(NoJitter, x, y, width, height)

	sum := math3d.Zero3()
	for s := 0; s < samples; s++ {
		src := rng.New(SampleSeed(pixelSeed, s))
		var ou, ov float64
		if samples == 1 {
			ou = src.Float64In(-0.5, 0.5)
			ov = src.Float64In(-0.5, 0.5)
		} else {
			phi := src.Float64In(0, 2*math.Pi)
			radius := src.Float64In(0, 0.5)
			theta := 2*math.Pi*float64(s)/float64(samples) + phi
			ou = radius * math.Cos(theta)
			ov = radius * math.Sin(theta)
		}
		u := baseU + ou*du
		v := baseV + ov*dv
		sum = sum.Add(shade(u, v, SampleSeed(pixelSeed, s)))
	}
	if samples <= 0 {
		return sum
	}
	return sum.Scale(1 / float64(samples))
}

func quincunxPixel(x, y, width, height int, globalSeed uint64, corners *CornerCache, shade RayColorFunc) math3d.Color {
	centerU, centerV := UV(Quincunx, x, y, width, height)
	center := shade(centerU, centerV, PixelSeed(globalSeed, x, y))

	cornerUV := func(gx, gy int) (float64, float64) {
		return float64(gx) / float64(width), 1 - float64(gy)/float64(height)
	}

	cornerColor := func(gx, gy int) math3d.Color {
		if corners == nil {
			u, v := cornerUV(gx, gy)
			return shade(u, v, PixelSeed(globalSeed, gx, gy))
		}
		return corners.get(gx, gy, func() math3d.Color {
			u, v := cornerUV(gx, gy)
			return shade(u, v, PixelSeed(globalSeed, gx, gy))
		})
	}

	sum := center
	sum = sum.Add(cornerColor(x, y))
	sum = sum.Add(cornerColor(x+1, y))
	sum = sum.Add(cornerColor(x, y+1))
	sum = sum.Add(cornerColor(x+1, y+1))
	return sum.Scale(1.0 / 5.0)
}
