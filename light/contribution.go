package light

import (
	"math"

	"github.com/gazed/rtracer/material"
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
)

const shadowBias = 1e-3

// Contribution computes l's diffuse+specular contribution to a hit
// point p with surface normal n and view direction view, shadow-tested
// against world (spec.md §4.7). For a point light this reduces to the
// single-sample formula directly; for an area light each of the 16
// disk samples contributes as its own point light and the average is
// attenuated a second time by the visible fraction, so occlusion
// darkens the penumbra rather than only softening it.
func Contribution(l Light, p, n, view math3d.Vec3, matColor math3d.Color, mat material.Material, world *primitive.World, seed uint64) math3d.Color {
	samples := l.Samples(p, seed)
	total := float64(len(samples))

	sum := math3d.Zero3()
	visible := 0
	for _, sp := range samples {
		toLight := sp.Sub(p)
		dist := toLight.Len()
		if dist < 1e-12 {
			continue
		}
		dir := toLight.Scale(1 / dist)

		shadowOrigin := p.Add(n.Scale(shadowBias))
		shadowRay := math3d.NewRay(shadowOrigin, dir)
		if _, blocked := world.Hit(shadowRay, 0.001, dist); blocked {
			continue
		}
		visible++

		ndotl := n.Dot(dir)
		if ndotl < 0 {
			ndotl = 0
		}
		diffuse := l.Color.Mul(matColor).Scale(mat.Diffuse * ndotl * l.Intensity)

		spec := math3d.Zero3()
		if ndotl > 0 {
			reflected := dir.Neg().Reflect(n)
			s := view.Dot(reflected)
			if s < 0 {
				s = 0
			}
			s = math.Pow(s, mat.Shininess)
			spec = l.Color.Scale(mat.Specular * l.Intensity * s)
		}

		sum = sum.Add(diffuse).Add(spec)
	}

	if total == 0 {
		return math3d.Zero3()
	}
	return sum.Scale(1 / total).Scale(float64(visible) / total)
}
