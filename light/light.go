// Package light models point and disk (area) light sources and their
// deterministic soft-shadow sampling (spec.md §3, §4.7).
package light

import (
	"math"

	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/rng"
)

// Light is a point light, or a disk area light when Diameter > 0.
type Light struct {
	Position  math3d.Vec3
	Color     math3d.Color
	Intensity float64
	Diameter  float64 // 0 means a point light (hard shadows)
}

// IsArea reports whether this light is a disk area light.
func (l Light) IsArea() bool { return l.Diameter > 0 }

// DiskSampleCount is the fixed number of samples used to estimate area
// light occlusion/contribution (spec.md §4.7).
const DiskSampleCount = 16

// Samples returns sample points on the light for shadow/contribution
// testing. A point light returns a single-element slice containing its
// position. A disk light returns DiskSampleCount points on its disk,
// oriented perpendicular to the direction from p to the light, seeded
// deterministically from seed mixed with the quantized hit point p so
// the result is independent of thread scheduling (spec.md §4.7
// "Determinism of area lights").
func (l Light) Samples(p math3d.Vec3, seed uint64) []math3d.Vec3 {
	if !l.IsArea() {
		return []math3d.Vec3{l.Position}
	}
	toLight := l.Position.Sub(p).Unit()
	ref := math3d.V3(1, 0, 0)
	if math.Abs(toLight.X) >= 0.9 {
		ref = math3d.V3(0, 1, 0)
	}
	u := ref.Cross(toLight).Unit()
	v := toLight.Cross(u)

	src := rng.New(quantizeSeed(seed, p))
	radius := l.Diameter / 2
	samples := make([]math3d.Vec3, DiskSampleCount)
	for i := 0; i < DiskSampleCount; i++ {
		dx, dy := diskPoint(&src, radius)
		samples[i] = l.Position.Add(u.Scale(dx)).Add(v.Scale(dy))
	}
	return samples
}

// diskPoint draws a point within a disk of the given radius by
// rejection sampling inside the inscribed square (spec.md §4.7).
func diskPoint(src *rng.Source, radius float64) (x, y float64) {
	for {
		x = src.Float64In(-radius, radius)
		y = src.Float64In(-radius, radius)
		if x*x+y*y <= radius*radius {
			return x, y
		}
	}
}

// quantizeSeed folds seed with the hit point quantized to 1e-3 so
// repeated calls for the same hit point and seed always produce the
// same disk samples (spec.md §4.7).
func quantizeSeed(seed uint64, p math3d.Vec3) uint64 {
	qx := int64(math.Round(p.X * 1000))
	qy := int64(math.Round(p.Y * 1000))
	qz := int64(math.Round(p.Z * 1000))
	h := rng.Mix(seed, uint64(qx))
	h = rng.Mix(h, uint64(qy))
	h = rng.Mix(h, uint64(qz))
	return h
}
