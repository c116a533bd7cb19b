// Package shade implements the recursive Phong shader: ambient,
// diffuse, specular, shadowing, reflection and fog (spec.md §4.6,
// §4.7), generalized from the single recursive sample()/trace() shape
// used by the teacher's ray-trace example to the full material/light
// model this module specifies.
package shade

import (
	"math"

	"github.com/gazed/rtracer/camera"
	"github.com/gazed/rtracer/light"
	"github.com/gazed/rtracer/material"
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
)

// Ambient is the scene's global ambient light term (spec.md §4.6).
type Ambient struct {
	Color     math3d.Color
	Intensity float64
}

// Fog is the optional exponential distance fog (spec.md §4.6 "Fog").
type Fog struct {
	Enabled bool
	Color   math3d.Color
	Density float64
	Start   float64
	End     float64
}

// Scene bundles everything RayColor needs to shade a ray, all
// immutable and safely shared across worker goroutines (spec.md §5).
type Scene struct {
	World      *primitive.World
	Materials  map[int]material.Material
	Lights     []light.Light
	Ambient    Ambient
	Fog        Fog
	CameraPos  math3d.Vec3
	Camera     camera.Camera
	Background math3d.Color
}

const reflectionBias = 1e-3

// RayColor recursively shades ray against the scene, returning black
// once depth reaches zero (spec.md §4.6).
func RayColor(ray math3d.Ray, scene *Scene, depth int, seed uint64) math3d.Color {
	if depth <= 0 {
		return math3d.Zero3()
	}

	rec, ok := scene.World.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		if bg, hitGrid := scene.Camera.Background(ray); hitGrid {
			return bg
		}
		return scene.Background
	}

	mat := lookupMaterial(scene.Materials, rec.MaterialID)
	matColor := mat.ColorAt(rec.U, rec.V, rec.HasUV)

	color := scene.Ambient.Color.Mul(matColor).Scale(scene.Ambient.Intensity * mat.Ambient)

	view := ray.Dir.Neg()
	for _, l := range scene.Lights {
		color = color.Add(light.Contribution(l, rec.Point, rec.Normal, view, matColor, mat, scene.World, seed))
	}

	color = applyFog(color, scene.Fog, scene.CameraPos.Sub(rec.Point).Len())

	if mat.Reflectivity > 0 && depth > 1 {
		reflectDir := view.Neg().Reflect(rec.Normal)
		reflectOrigin := rec.Point.Add(rec.Normal.Scale(reflectionBias))
		reflected := RayColor(math3d.NewRay(reflectOrigin, reflectDir), scene, depth-1, seed)
		r := mat.Reflectivity
		color = color.Scale(1 - r).Add(reflected.Scale(r))
	}

	return color
}

func lookupMaterial(materials map[int]material.Material, id int) material.Material {
	if m, ok := materials[id]; ok {
		return m
	}
	return material.Default
}

// applyFog blends color toward fog.Color by the exponential falloff
// of spec.md §4.6 "Fog".
func applyFog(color math3d.Color, fog Fog, distance float64) math3d.Color {
	if !fog.Enabled {
		return color
	}
	span := fog.End - fog.Start
	var fLinear float64
	if span != 0 {
		fLinear = clamp01((distance - fog.Start) / span)
	}
	f := clamp01(1 - math.Exp(-fog.Density*fLinear))
	return color.Scale(1 - f).Add(fog.Color.Scale(f))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
