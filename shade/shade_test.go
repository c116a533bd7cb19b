package shade

import (
	"math"
	"testing"

	"github.com/gazed/rtracer/camera"
	"github.com/gazed/rtracer/light"
	"github.com/gazed/rtracer/material"
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
)

func baseScene() *Scene {
	w := &primitive.World{}
	w.Add(primitive.Sphere{Center: math3d.V3(0, 0, 0), Radius: 1, MatID: 1})
	return &Scene{
		World: w,
		Materials: map[int]material.Material{
			1: {Color: math3d.V3(1, 1, 1), Ambient: 0.1, Diffuse: 0.9, Specular: 0.5, Shininess: 32},
		},
		Lights: []light.Light{
			{Position: math3d.V3(5, 5, 5), Color: math3d.V3(1, 1, 1), Intensity: 1},
		},
		Ambient:    Ambient{Color: math3d.V3(1, 1, 1), Intensity: 0.1},
		Camera:     camera.New(camera.Perspective, math3d.V3(0, 0, 5), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0)),
		Background: math3d.V3(0, 0, 0),
	}
}

func TestRayColorDepthZeroIsBlack(t *testing.T) {
	s := baseScene()
	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	c := RayColor(ray, s, 0, 1)
	if !c.Aeq(math3d.Zero3()) {
		t.Errorf("expected black at depth 0, got %v", c)
	}
}

func TestRayColorMissReturnsBackground(t *testing.T) {
	s := baseScene()
	s.Background = math3d.V3(0.2, 0.3, 0.4)
	ray := math3d.NewRay(math3d.V3(10, 10, 5), math3d.V3(0, 0, -1))
	c := RayColor(ray, s, 5, 1)
	if !c.Aeq(s.Background) {
		t.Errorf("expected background color, got %v", c)
	}
}

func TestRayColorHitIsLit(t *testing.T) {
	s := baseScene()
	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	c := RayColor(ray, s, 5, 1)
	if c.Aeq(math3d.Zero3()) {
		t.Error("expected non-black lit surface color")
	}
}

func TestRayColorUnknownMaterialFallsBackToDefault(t *testing.T) {
	s := baseScene()
	s.Materials = map[int]material.Material{} // id 1 now unknown
	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	c := RayColor(ray, s, 5, 1)
	if c.Aeq(math3d.Zero3()) {
		t.Error("expected non-black color from default material")
	}
}

func TestRayColorShadowedPointIsDarker(t *testing.T) {
	s := baseScene()
	// Add a blocking sphere between the hit point and the light.
	s.World.Add(primitive.Sphere{Center: math3d.V3(2.5, 2.5, 2.5), Radius: 1, MatID: 1})
	unshadowed := baseScene()

	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	lit := RayColor(ray, unshadowed, 5, 1)
	shadowed := RayColor(ray, s, 5, 1)
	if shadowed.Len() >= lit.Len() {
		t.Errorf("expected shadowed color dimmer: lit=%v shadowed=%v", lit, shadowed)
	}
}

func TestApplyFogBlendsTowardFogColor(t *testing.T) {
	fog := Fog{Enabled: true, Color: math3d.V3(1, 1, 1), Density: 2, Start: 0, End: 10}
	base := math3d.V3(0, 0, 0)
	far := applyFog(base, fog, 10)
	near := applyFog(base, fog, 0)
	if near.Len() >= far.Len() {
		t.Errorf("expected farther distance to be foggier: near=%v far=%v", near, far)
	}
}

func TestApplyFogDisabledIsNoOp(t *testing.T) {
	fog := Fog{Enabled: false}
	c := math3d.V3(0.5, 0.5, 0.5)
	if out := applyFog(c, fog, 100); !out.Aeq(c) {
		t.Errorf("expected no-op when fog disabled, got %v", out)
	}
}

func TestRayColorReflectsWhenReflective(t *testing.T) {
	s := baseScene()
	s.Materials[1] = material.Material{Color: math3d.V3(1, 1, 1), Ambient: 0.1, Diffuse: 0.9, Reflectivity: 0.5}
	ray := math3d.NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))
	c := RayColor(ray, s, 5, 1)
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z) {
		t.Fatal("reflection produced NaN")
	}
}
