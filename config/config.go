// Package config holds the renderer's CLI configuration, built with
// the teacher's functional-options pattern (config.go's Attr
// func(*Config)), plus an optional YAML profile for saved presets
// (load/shd.go's gopkg.in/yaml.v3 usage).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/sampler"
)

// Config holds one render invocation's settings (spec.md §6 "CLI
// surface").
type Config struct {
	InputPath  string
	OutputPath string
	Diagonal   int
	MaxDepth   int
	Samples    int
	Mode       sampler.Mode
	Seed       uint64
	Workers    int

	Outline             bool
	OutlineWeightDepth  float64
	OutlineWeightNormal float64
	OutlineThreshold    float64
	OutlineThickness    float64
	OutlineNeighbors    int
	OutlineEdgeColor    math3d.Color
}

// Defaults mirrors the teacher's configDefaults: reasonable values so
// a render runs even with no flags set beyond input/output.
var Defaults = Config{
	Diagonal: 800,
	MaxDepth: 5,
	Samples:  1,
	Mode:     sampler.NoJitter,
	Workers:  0, // 0 means runtime.NumCPU() at render time

	OutlineWeightDepth:  0.5,
	OutlineWeightNormal: 0.5,
	OutlineThreshold:    0.15,
	OutlineThickness:    1,
	OutlineNeighbors:    4,
	OutlineEdgeColor:    math3d.Zero3(),
}

// Attr is a functional option for New, following the teacher's
// config.go pattern.
type Attr func(*Config)

// New builds a Config starting from Defaults and applying attrs in
// order.
func New(input, output string, attrs ...Attr) Config {
	c := Defaults
	c.InputPath, c.OutputPath = input, output
	for _, attr := range attrs {
		attr(&c)
	}
	return c
}

// Size sets the render diagonal, in pixels.
func Size(diagonal int) Attr {
	return func(c *Config) { c.Diagonal = diagonal }
}

// Depth sets the maximum reflection recursion depth.
func Depth(maxDepth int) Attr {
	return func(c *Config) { c.MaxDepth = maxDepth }
}

// SamplesPerPixel sets the anti-aliasing sample count.
func SamplesPerPixel(n int) Attr {
	return func(c *Config) { c.Samples = n }
}

// Sampling sets the anti-aliasing mode.
func Sampling(mode sampler.Mode) Attr {
	return func(c *Config) { c.Mode = mode }
}

// RandomSeed sets the deterministic base seed.
func RandomSeed(seed uint64) Attr {
	return func(c *Config) { c.Seed = seed }
}

// WorkerCount sets the worker pool size; 0 means runtime.NumCPU().
func WorkerCount(n int) Attr {
	return func(c *Config) { c.Workers = n }
}

// WithOutline enables the outline post-pass with the given parameters.
func WithOutline(weightDepth, weightNormal, threshold, thickness float64, neighbors int, edgeColor math3d.Color) Attr {
	return func(c *Config) {
		c.Outline = true
		c.OutlineWeightDepth = weightDepth
		c.OutlineWeightNormal = weightNormal
		c.OutlineThreshold = threshold
		c.OutlineThickness = thickness
		c.OutlineNeighbors = neighbors
		c.OutlineEdgeColor = edgeColor
	}
}

// Profile is a named, file-persisted set of render defaults (an
// ambient-stack convenience, not named by spec.md §6's CLI table).
type Profile struct {
	Diagonal int    `yaml:"diagonal"`
	MaxDepth int    `yaml:"max_depth"`
	Samples  int    `yaml:"samples"`
	Mode     string `yaml:"mode"`
	Workers  int    `yaml:"workers"`
}

// LoadProfile reads a YAML profile file, matching load/shd.go's
// yaml.Unmarshal-into-a-plain-struct style.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("config: reading profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config: parsing profile %s: %w", path, err)
	}
	return p, nil
}

// Apply returns the Attrs needed to apply a loaded Profile on top of
// Defaults.
func (p Profile) Apply() ([]Attr, error) {
	attrs := []Attr{}
	if p.Diagonal > 0 {
		attrs = append(attrs, Size(p.Diagonal))
	}
	if p.MaxDepth > 0 {
		attrs = append(attrs, Depth(p.MaxDepth))
	}
	if p.Samples > 0 {
		attrs = append(attrs, SamplesPerPixel(p.Samples))
	}
	if p.Workers > 0 {
		attrs = append(attrs, WorkerCount(p.Workers))
	}
	if p.Mode != "" {
		mode, err := ParseMode(p.Mode)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Sampling(mode))
	}
	return attrs, nil
}

// ParseMode parses the CLI's anti-aliasing mode flag (spec.md §6:
// "quincunx|stochastic|no-jitter").
func ParseMode(s string) (sampler.Mode, error) {
	switch s {
	case "no-jitter", "":
		return sampler.NoJitter, nil
	case "stochastic":
		return sampler.Stochastic, nil
	case "quincunx":
		return sampler.Quincunx, nil
	default:
		return 0, fmt.Errorf("config: unknown anti-aliasing mode %q", s)
	}
}
