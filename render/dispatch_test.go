package render

import (
	"image"
	"testing"

	"github.com/gazed/rtracer/camera"
	"github.com/gazed/rtracer/material"
	"github.com/gazed/rtracer/math3d"
	"github.com/gazed/rtracer/primitive"
	"github.com/gazed/rtracer/sampler"
	"github.com/gazed/rtracer/shade"
)

func testScene() *shade.Scene {
	w := &primitive.World{}
	w.Add(primitive.Sphere{Center: math3d.V3(0, 0, 0), Radius: 1, MatID: 1})
	return &shade.Scene{
		World:      w,
		Materials:  map[int]material.Material{1: {Color: math3d.V3(1, 0, 0), Ambient: 0.2, Diffuse: 0.8}},
		Lights:     nil,
		Ambient:    shade.Ambient{Color: math3d.V3(1, 1, 1), Intensity: 1},
		CameraPos:  math3d.V3(0, 0, 5),
		Camera:     camera.New(camera.Perspective, math3d.V3(0, 0, 5), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0)),
		Background: math3d.V3(0, 0, 0.1),
	}
}

func TestRenderRejectsZeroSamples(t *testing.T) {
	s := testScene()
	s.Camera.FovDegrees, s.Camera.Aspect = 45, 1
	_, err := Render(s, Options{Width: 8, Height: 8, Samples: 0, MaxDepth: 3})
	if err == nil {
		t.Fatal("expected error for samples == 0")
	}
}

func TestRenderProducesNonTrivialImage(t *testing.T) {
	s := testScene()
	s.Camera.FovDegrees, s.Camera.Aspect = 45, 1
	img, err := Render(s, Options{
		Width: 16, Height: 16, Samples: 1, Mode: sampler.NoJitter,
		MaxDepth: 3, Workers: 2, Seed: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}

	// Center pixel should hit the sphere (non-background color);
	// a corner pixel should be background.
	center := img.NRGBAAt(8, 8)
	corner := img.NRGBAAt(0, 0)
	if center == corner {
		t.Error("expected center (sphere) and corner (background) to differ")
	}
}

func TestRenderIsDeterministicAcrossWorkerCounts(t *testing.T) {
	s := testScene()
	s.Camera.FovDegrees, s.Camera.Aspect = 45, 1

	opts1 := Options{Width: 12, Height: 12, Samples: 4, Mode: sampler.Stochastic, MaxDepth: 3, Seed: 7, Workers: 1}
	opts4 := opts1
	opts4.Workers = 4

	img1, err := Render(s, opts1)
	if err != nil {
		t.Fatal(err)
	}
	img4, err := Render(s, opts4)
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			if img1.NRGBAAt(x, y) != img4.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs between worker counts: %v vs %v", x, y, img1.NRGBAAt(x, y), img4.NRGBAAt(x, y))
			}
		}
	}
}

func TestRenderWithOutlineEnabled(t *testing.T) {
	s := testScene()
	s.Camera.FovDegrees, s.Camera.Aspect = 45, 1
	opts := Options{
		Width: 16, Height: 16, Samples: 1, Mode: sampler.NoJitter, MaxDepth: 3, Seed: 1,
		Outline: OutlineOptions{
			Enabled: true, WeightDepth: 0.5, WeightNormal: 0.5,
			Threshold: 0.2, LineThickness: 1, EdgeColor: math3d.V3(0, 0, 0), Neighbors: 4,
		},
	}
	img, err := Render(s, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("unexpected width: %d", img.Bounds().Dx())
	}
}
